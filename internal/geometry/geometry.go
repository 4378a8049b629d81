// Package geometry computes panel size and placement for the chat widget.
// Everything here is pure arithmetic over integer units (CSS pixels in a
// browser host, cells in a terminal host).
package geometry

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Point is a left/top pair measured from the viewport's top-left corner.
type Point struct {
	Left int
	Top  int
}

// Bounds is the allowed size range for the panel in a given viewport.
type Bounds struct {
	Min Size
	Max Size
}

// Preset is a named panel size.
type Preset struct {
	ID   string
	Size Size
}

// Metrics holds the layout constants for a host. Pixel hosts use
// DefaultMetrics; the terminal shell uses TerminalMetrics.
type Metrics struct {
	// Viewports narrower than SmallBreakpoint use the Small* values.
	SmallBreakpoint int

	Padding      int
	SmallPadding int

	// Preferred minimums; always capped by the viewport-derived maximum.
	MinWidth  int
	MinHeight int

	// Default anchor margins from the bottom-right corner. The bottom margin
	// leaves room for the launcher.
	MarginRight       int
	MarginBottom      int
	SmallMarginRight  int
	SmallMarginBottom int

	Presets []Preset
}

// DefaultMetrics returns pixel metrics for a browser viewport.
func DefaultMetrics() Metrics {
	return Metrics{
		SmallBreakpoint:   640,
		Padding:           24,
		SmallPadding:      12,
		MinWidth:          300,
		MinHeight:         360,
		MarginRight:       24,
		MarginBottom:      96,
		SmallMarginRight:  12,
		SmallMarginBottom: 84,
		Presets: []Preset{
			{ID: "compact", Size: Size{Width: 360, Height: 520}},
			{ID: "comfort", Size: Size{Width: 420, Height: 640}},
			{ID: "expanded", Size: Size{Width: 560, Height: 760}},
		},
	}
}

// TerminalMetrics returns cell metrics for the terminal shell.
func TerminalMetrics() Metrics {
	return Metrics{
		SmallBreakpoint:   80,
		Padding:           2,
		SmallPadding:      1,
		MinWidth:          30,
		MinHeight:         10,
		MarginRight:       2,
		MarginBottom:      4,
		SmallMarginRight:  1,
		SmallMarginBottom: 3,
		Presets: []Preset{
			{ID: "compact", Size: Size{Width: 44, Height: 18}},
			{ID: "comfort", Size: Size{Width: 60, Height: 26}},
			{ID: "expanded", Size: Size{Width: 84, Height: 34}},
		},
	}
}

func (m Metrics) small(viewport Size) bool {
	return viewport.Width < m.SmallBreakpoint
}

// BoundsFor returns the min/max panel size for a viewport. Min never exceeds
// Max, even for degenerate viewports.
func (m Metrics) BoundsFor(viewport Size) Bounds {
	pad := m.Padding
	if m.small(viewport) {
		pad = m.SmallPadding
	}

	maxW := max(viewport.Width-2*pad, 1)
	maxH := max(viewport.Height-2*pad, 1)

	return Bounds{
		Min: Size{Width: min(m.MinWidth, maxW), Height: min(m.MinHeight, maxH)},
		Max: Size{Width: maxW, Height: maxH},
	}
}

// Clamp fits the requested size into the viewport's bounds, per axis.
func (m Metrics) Clamp(viewport, requested Size) Size {
	b := m.BoundsFor(viewport)
	return Size{
		Width:  clampInt(requested.Width, b.Min.Width, b.Max.Width),
		Height: clampInt(requested.Height, b.Min.Height, b.Max.Height),
	}
}

// Overrides pins the panel's left and/or top edge, as during a drag.
type Overrides struct {
	Left *int
	Top  *int
}

// Position anchors a panel of the given size near the bottom-right corner,
// applies any overrides, then clamps so no edge leaves the viewport.
func (m Metrics) Position(viewport, panel Size, o Overrides) Point {
	right, bottom := m.MarginRight, m.MarginBottom
	if m.small(viewport) {
		right, bottom = m.SmallMarginRight, m.SmallMarginBottom
	}

	p := Point{
		Left: viewport.Width - panel.Width - right,
		Top:  viewport.Height - panel.Height - bottom,
	}
	if o.Left != nil {
		p.Left = *o.Left
	}
	if o.Top != nil {
		p.Top = *o.Top
	}
	return ClampPoint(viewport, panel, p)
}

// ClampPoint keeps a panel fully on-screen. When the panel is larger than the
// viewport on an axis it is pinned to the top/left edge.
func ClampPoint(viewport, panel Size, p Point) Point {
	return Point{
		Left: clampInt(p.Left, 0, max(viewport.Width-panel.Width, 0)),
		Top:  clampInt(p.Top, 0, max(viewport.Height-panel.Height, 0)),
	}
}

// NextPreset returns the preset that follows currentID, wrapping around.
// An unknown id yields the first preset.
func (m Metrics) NextPreset(currentID string) Preset {
	if len(m.Presets) == 0 {
		return Preset{}
	}
	for i, p := range m.Presets {
		if p.ID == currentID {
			return m.Presets[(i+1)%len(m.Presets)]
		}
	}
	return m.Presets[0]
}

// PresetByID looks up a preset by id.
func (m Metrics) PresetByID(id string) (Preset, bool) {
	for _, p := range m.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

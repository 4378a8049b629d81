package geometry

// Mode records where the panel's current size came from.
type Mode int

const (
	ModePreset Mode = iota
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModePreset:
		return "preset"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Panel holds the live panel geometry for one widget instance.
type Panel struct {
	metrics  Metrics
	viewport Size

	mode     Mode
	presetID string
	custom   Size // user's standing preference while mode == ModeCustom

	size Size
	pos  Point

	drag dragState
}

type dragState struct {
	active    bool
	start     Point // pointer position at pointer-down
	startSize Size
	startPos  Point
}

// NewPanel creates a panel sized to the given preset (or the first preset
// when the id is unknown) and anchored in the viewport.
func NewPanel(metrics Metrics, viewport Size, presetID string) *Panel {
	p := &Panel{metrics: metrics, viewport: viewport}
	preset, ok := metrics.PresetByID(presetID)
	if !ok && len(metrics.Presets) > 0 {
		preset = metrics.Presets[0]
	}
	p.presetID = preset.ID
	p.ApplySize(preset.Size, ModePreset)
	p.pos = metrics.Position(viewport, p.size, Overrides{})
	return p
}

func (p *Panel) Size() Size         { return p.size }
func (p *Panel) Position() Point    { return p.pos }
func (p *Panel) Mode() Mode         { return p.mode }
func (p *Panel) PresetID() string   { return p.presetID }
func (p *Panel) Viewport() Size     { return p.viewport }
func (p *Panel) Dragging() bool     { return p.drag.active }
func (p *Panel) Metrics() Metrics   { return p.metrics }
func (p *Panel) BottomRight() Point { return Point{Left: p.pos.Left + p.size.Width, Top: p.pos.Top + p.size.Height} }

// ApplySize clamps and records the size. ModeCustom remembers it as the
// user's preference until a preset is picked again.
func (p *Panel) ApplySize(requested Size, mode Mode) Size {
	p.size = p.metrics.Clamp(p.viewport, requested)
	p.mode = mode
	if mode == ModeCustom {
		p.custom = p.size
	}
	return p.size
}

// CyclePreset advances to the next preset and re-anchors the panel.
func (p *Panel) CyclePreset() Preset {
	next := p.metrics.NextPreset(p.presetID)
	p.presetID = next.ID
	p.custom = Size{}
	p.ApplySize(next.Size, ModePreset)
	p.pos = p.metrics.Position(p.viewport, p.size, Overrides{})
	return next
}

// SetViewport re-clamps size and position for a new viewport, preserving the
// current mode.
func (p *Panel) SetViewport(viewport Size) {
	p.viewport = viewport
	requested := p.custom
	if p.mode == ModePreset {
		if preset, ok := p.metrics.PresetByID(p.presetID); ok {
			requested = preset.Size
		}
	}
	p.ApplySize(requested, p.mode)
	p.pos = p.metrics.Position(p.viewport, p.size, Overrides{})
}

// BeginDrag captures the pointer-down state for a resize drag.
func (p *Panel) BeginDrag(pointer Point) {
	p.drag = dragState{
		active:    true,
		start:     pointer,
		startSize: p.size,
		startPos:  p.pos,
	}
}

// DragTo resizes toward the pointer. The handle sits at the top-left, so
// moving up/left grows the panel while the bottom-right corner stays put.
// Moves outside an active drag are ignored.
func (p *Panel) DragTo(pointer Point) bool {
	if !p.drag.active {
		return false
	}
	dx := pointer.Left - p.drag.start.Left
	dy := pointer.Top - p.drag.start.Top

	target := Size{
		Width:  p.drag.startSize.Width - dx,
		Height: p.drag.startSize.Height - dy,
	}
	size := p.ApplySize(target, ModeCustom)

	left := p.drag.startPos.Left + (p.drag.startSize.Width - size.Width)
	top := p.drag.startPos.Top + (p.drag.startSize.Height - size.Height)
	p.pos = p.metrics.Position(p.viewport, size, Overrides{Left: &left, Top: &top})
	return true
}

// EndDrag stops processing pointer moves until the next BeginDrag.
func (p *Panel) EndDrag() {
	p.drag = dragState{}
}

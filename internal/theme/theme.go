// Package theme picks a launcher theme that contrasts with whatever the host
// page paints behind the launcher.
package theme

// Theme is the launcher color scheme.
type Theme int

const (
	Dark Theme = iota
	Light
)

func (t Theme) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// LuminanceThreshold: backgrounds darker than this get the light launcher.
const LuminanceThreshold = 0.4

// Element is a node of the host page, as seen by the sampler.
type Element interface {
	// Parent returns the containing element, or nil at the root.
	Parent() Element
	// BackgroundColor returns the computed background-color value.
	BackgroundColor() string
	// IsWidget reports whether the element belongs to the widget itself.
	IsWidget() bool
}

// Surface exposes the host page to the sampler.
type Surface interface {
	Viewport() (width, height int)
	// ElementAt returns the topmost element at the point, or nil.
	ElementAt(x, y int) Element
}

// Offset is measured inward from the viewport's bottom-right corner.
type Offset struct {
	Right  int
	Bottom int
}

// DefaultSamples are pixel offsets covering the launcher's footprint.
var DefaultSamples = []Offset{
	{Right: 28, Bottom: 28},
	{Right: 52, Bottom: 28},
	{Right: 28, Bottom: 52},
	{Right: 76, Bottom: 76},
}

// canvasDefault is what a browser paints when nothing sets a background.
var canvasDefault = RGBA{R: 1, G: 1, B: 1, A: 1}

// Chooser samples a Surface and picks a Theme.
type Chooser struct {
	Samples   []Offset
	Threshold float64
}

// NewChooser returns a chooser with the default samples and threshold.
func NewChooser() *Chooser {
	return &Chooser{Samples: DefaultSamples, Threshold: LuminanceThreshold}
}

// Choose averages the luminance found under each sample point.
func (c *Chooser) Choose(s Surface) Theme {
	return ForLuminance(c.Luminance(s), c.threshold())
}

// Luminance returns the mean background luminance under the sample points.
func (c *Chooser) Luminance(s Surface) float64 {
	samples := c.Samples
	if len(samples) == 0 {
		samples = DefaultSamples
	}
	w, h := s.Viewport()

	var sum float64
	for _, off := range samples {
		x := clampCoord(w-off.Right, w)
		y := clampCoord(h-off.Bottom, h)
		sum += ResolveBackground(s.ElementAt(x, y)).Luminance()
	}
	return sum / float64(len(samples))
}

func (c *Chooser) threshold() float64 {
	if c.Threshold <= 0 {
		return LuminanceThreshold
	}
	return c.Threshold
}

// ForLuminance maps a luminance to a theme.
func ForLuminance(lum, threshold float64) Theme {
	if lum < threshold {
		return Light
	}
	return Dark
}

// ResolveBackground walks up from el until it finds an opaque-enough
// background that is not part of the widget. Unparseable values are
// skipped like transparent ones.
func ResolveBackground(el Element) RGBA {
	for ; el != nil; el = el.Parent() {
		if el.IsWidget() {
			continue
		}
		c, err := ParseColor(el.BackgroundColor())
		if err != nil || c.Transparent() {
			continue
		}
		return c
	}
	return canvasDefault
}

func clampCoord(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v >= limit {
		return limit - 1
	}
	return v
}

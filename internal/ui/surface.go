package ui

import (
	"github.com/FundamentalEcomLLC/Smartbot/internal/geometry"
	"github.com/FundamentalEcomLLC/Smartbot/internal/theme"
	"github.com/muesli/termenv"
)

// terminalSamples are the launcher-footprint sample points in cells,
// measured inward from the bottom-right corner of the page area.
var terminalSamples = []theme.Offset{
	{Right: 4, Bottom: 2},
	{Right: 8, Bottom: 2},
	{Right: 4, Bottom: 3},
	{Right: 12, Bottom: 5},
}

func newTerminalChooser() *theme.Chooser {
	return &theme.Chooser{Samples: terminalSamples, Threshold: theme.LuminanceThreshold}
}

// rect is a cell rectangle on the page area.
type rect struct {
	left, top, width, height int
}

func (r rect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.width && y >= r.top && y < r.top+r.height
}

func panelRect(pos geometry.Point, size geometry.Size) rect {
	return rect{left: pos.Left, top: pos.Top, width: size.Width, height: size.Height}
}

// pageElement is the terminal itself: one background for the whole page.
type pageElement struct {
	background string
}

func (pageElement) Parent() theme.Element     { return nil }
func (e pageElement) BackgroundColor() string { return e.background }
func (pageElement) IsWidget() bool            { return false }

// widgetElement is a cell covered by the launcher or the panel. The sampler
// skips it and looks through to the page.
type widgetElement struct {
	parent theme.Element
}

func (e widgetElement) Parent() theme.Element { return e.parent }
func (widgetElement) BackgroundColor() string { return "" }
func (widgetElement) IsWidget() bool          { return true }

// terminalSurface exposes the page area to the theme sampler.
type terminalSurface struct {
	width, height int
	page          pageElement
	widgets       []rect
}

func (s terminalSurface) Viewport() (int, int) { return s.width, s.height }

func (s terminalSurface) ElementAt(x, y int) theme.Element {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return nil
	}
	for _, r := range s.widgets {
		if r.contains(x, y) {
			return widgetElement{parent: s.page}
		}
	}
	return s.page
}

// ProbeBackground asks the terminal for its background color and returns it
// as "#rrggbb". It must run before the program takes over the terminal.
func ProbeBackground(out *termenv.Output) string {
	c := out.BackgroundColor()
	if c == nil {
		return ""
	}
	if _, ok := c.(termenv.NoColor); ok {
		return ""
	}
	return termenv.ConvertToRGB(c).Hex()
}

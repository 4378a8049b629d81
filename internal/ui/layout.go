package ui

import (
	"sort"
	"strings"

	"github.com/FundamentalEcomLLC/Smartbot/internal/geometry"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Region identifies what a mouse event landed on.
type Region int

const (
	RegionPage Region = iota
	RegionLauncher
	RegionPanel
	RegionHandle // the panel's top-left resize handle
)

func (r Region) String() string {
	switch r {
	case RegionLauncher:
		return "launcher"
	case RegionPanel:
		return "panel"
	case RegionHandle:
		return "handle"
	default:
		return "page"
	}
}

// Layout constants
const (
	statusBarHeight = 1

	// Launcher distance from the page's right and bottom edges.
	launcherMarginRight  = 2
	launcherMarginBottom = 1

	// handleSize is the square in the panel's top-left corner that starts a
	// drag-resize.
	handleSize = 2
)

// pageSize is the area the widget floats over: the terminal minus the
// status bar.
func pageSize(termWidth, termHeight int) geometry.Size {
	return geometry.Size{Width: max(termWidth, 0), Height: max(termHeight-statusBarHeight, 0)}
}

// launcherRect places a launcher of the given width in the bottom-right
// corner of the page.
func launcherRect(page geometry.Size, width int) rect {
	return rect{
		left:   max(page.Width-width-launcherMarginRight, 0),
		top:    max(page.Height-1-launcherMarginBottom, 0),
		width:  width,
		height: 1,
	}
}

// hitTest reports which region contains the cell (x, y). The panel is
// drawn above the launcher.
func hitTest(x, y int, launcher rect, panel *rect) Region {
	if panel != nil {
		handle := rect{left: panel.left, top: panel.top, width: handleSize, height: handleSize}
		if handle.contains(x, y) {
			return RegionHandle
		}
		if panel.contains(x, y) {
			return RegionPanel
		}
	}
	if launcher.contains(x, y) {
		return RegionLauncher
	}
	return RegionPage
}

// layer is a rendered block placed at a cell position.
type layer struct {
	left, top int
	content   string
}

type segment struct {
	left  int
	text  string
	width int
}

// composeScreen draws layers over a blank page, later layers on top. Any
// part of an earlier layer covered by a later one is cut away.
func composeScreen(page geometry.Size, layers ...layer) string {
	rows := make([][]segment, page.Height)
	for _, l := range layers {
		for i, line := range strings.Split(l.content, "\n") {
			row := l.top + i
			if row < 0 || row >= page.Height || l.left >= page.Width {
				continue
			}
			text := truncate.String(line, uint(max(page.Width-l.left, 0)))
			seg := segment{left: l.left, text: text, width: lipgloss.Width(text)}
			rows[row] = placeSegment(rows[row], seg)
		}
	}

	lines := make([]string, page.Height)
	for i, segs := range rows {
		var b strings.Builder
		col := 0
		for _, s := range segs {
			if s.left > col {
				b.WriteString(strings.Repeat(" ", s.left-col))
				col = s.left
			}
			b.WriteString(s.text)
			col += s.width
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// placeSegment adds seg to a row, trimming or dropping segments it covers.
func placeSegment(segs []segment, seg segment) []segment {
	out := make([]segment, 0, len(segs)+1)
	for _, s := range segs {
		end := s.left + s.width
		switch {
		case end <= seg.left || s.left >= seg.left+seg.width:
			out = append(out, s)
		case s.left < seg.left:
			text := truncate.String(s.text, uint(seg.left-s.left))
			out = append(out, segment{left: s.left, text: text, width: lipgloss.Width(text)})
		}
	}
	out = append(out, seg)
	sort.Slice(out, func(i, j int) bool { return out[i].left < out[j].left })
	return out
}

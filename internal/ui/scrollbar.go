package ui

import "strings"

// renderScrollbar builds a 1-char-wide vertical scrollbar column for the
// transcript. Each row maps proportionally to the total content; the thumb
// shows the visible portion and red markers show where failed replies are.
func (m ChatPanelModel) renderScrollbar() string {
	height := m.viewport.Height
	if height <= 0 {
		return ""
	}
	totalLines := m.viewport.TotalLineCount()
	if totalLines <= height {
		return strings.Repeat(" \n", height-1) + " "
	}

	// Thumb position and size
	thumbSize := max(1, height*height/totalLines)
	thumbStart := m.viewport.YOffset * height / totalLines
	if thumbStart+thumbSize > height {
		thumbStart = height - thumbSize
	}

	failed := make([]bool, height)
	for _, line := range m.transcript.FailedLines() {
		row := line * height / totalLines
		if row >= height {
			row = height - 1
		}
		failed[row] = true
	}

	rows := make([]string, height)
	for i := 0; i < height; i++ {
		inThumb := i >= thumbStart && i < thumbStart+thumbSize
		switch {
		case inThumb && failed[i]:
			rows[i] = scrollbarFailedStyle.Render("┃")
		case inThumb:
			rows[i] = scrollbarThumbStyle.Render("┃")
		case failed[i]:
			rows[i] = scrollbarFailedStyle.Render("●")
		default:
			rows[i] = scrollbarTrackStyle.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}

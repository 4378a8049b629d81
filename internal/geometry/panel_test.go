package geometry

import "testing"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestNewPanel_UnknownPresetFallsBack(t *testing.T) {
	p := NewPanel(DefaultMetrics(), Size{Width: 1280, Height: 900}, "gigantic")
	if p.PresetID() != "compact" {
		t.Errorf("PresetID = %q, want compact", p.PresetID())
	}
	if p.Mode() != ModePreset {
		t.Errorf("Mode = %v, want preset", p.Mode())
	}
	if p.Size() != (Size{Width: 360, Height: 520}) {
		t.Errorf("Size = %+v", p.Size())
	}
}

func TestPanel_CyclePresetResetsCustom(t *testing.T) {
	p := NewPanel(DefaultMetrics(), Size{Width: 1600, Height: 1000}, "compact")
	p.ApplySize(Size{Width: 500, Height: 500}, ModeCustom)
	if p.Mode() != ModeCustom {
		t.Fatalf("Mode = %v, want custom", p.Mode())
	}

	next := p.CyclePreset()
	if next.ID != "comfort" {
		t.Errorf("next preset = %q, want comfort", next.ID)
	}
	if p.Mode() != ModePreset {
		t.Errorf("Mode = %v, want preset after cycling", p.Mode())
	}
	if p.Size() != next.Size {
		t.Errorf("Size = %+v, want %+v", p.Size(), next.Size)
	}
}

func TestPanel_SetViewportPreservesMode(t *testing.T) {
	t.Run("preset re-clamps to preset size", func(t *testing.T) {
		p := NewPanel(DefaultMetrics(), Size{Width: 1600, Height: 1000}, "expanded")
		p.SetViewport(Size{Width: 500, Height: 600})
		if p.Mode() != ModePreset {
			t.Errorf("Mode = %v", p.Mode())
		}
		b := DefaultMetrics().BoundsFor(Size{Width: 500, Height: 600})
		if p.Size().Width != b.Max.Width {
			t.Errorf("Width = %d, want clamped %d", p.Size().Width, b.Max.Width)
		}

		p.SetViewport(Size{Width: 1600, Height: 1000})
		if p.Size() != (Size{Width: 560, Height: 760}) {
			t.Errorf("Size after growing back = %+v, want expanded preset", p.Size())
		}
	})

	t.Run("custom stays custom", func(t *testing.T) {
		p := NewPanel(DefaultMetrics(), Size{Width: 1600, Height: 1000}, "compact")
		p.ApplySize(Size{Width: 700, Height: 700}, ModeCustom)
		p.SetViewport(Size{Width: 1400, Height: 900})
		if p.Mode() != ModeCustom {
			t.Errorf("Mode = %v, want custom", p.Mode())
		}
		if p.Size() != (Size{Width: 700, Height: 700}) {
			t.Errorf("Size = %+v", p.Size())
		}
	})
}

func TestPanel_DragGrowsTowardTopLeftAndKeepsCorner(t *testing.T) {
	p := NewPanel(DefaultMetrics(), Size{Width: 1280, Height: 900}, "compact")
	corner := p.BottomRight()
	start := p.Position()

	p.BeginDrag(start)
	if !p.DragTo(Point{Left: start.Left - 40, Top: start.Top - 30}) {
		t.Fatal("DragTo returned false during active drag")
	}

	if p.Size() != (Size{Width: 400, Height: 550}) {
		t.Errorf("Size = %+v, want 400x550", p.Size())
	}
	if p.Mode() != ModeCustom {
		t.Errorf("Mode = %v, want custom", p.Mode())
	}
	if p.BottomRight() != corner {
		t.Errorf("bottom-right moved from %+v to %+v", corner, p.BottomRight())
	}

	p.EndDrag()
	if p.DragTo(Point{Left: 0, Top: 0}) {
		t.Error("DragTo should be ignored after EndDrag")
	}
	if p.Size() != (Size{Width: 400, Height: 550}) {
		t.Errorf("Size changed after EndDrag: %+v", p.Size())
	}
}

func TestPanel_DragCornerMovesAtMostByDelta(t *testing.T) {
	viewports := []Size{{1280, 900}, {500, 700}, {360, 640}}
	moves := []Point{{-500, -500}, {300, 300}, {-10, 25}, {1000, -1000}, {-2000, 0}}

	for _, vp := range viewports {
		p := NewPanel(DefaultMetrics(), vp, "comfort")
		origin := p.Position()
		corner := p.BottomRight()
		p.BeginDrag(origin)

		for _, mv := range moves {
			p.DragTo(Point{Left: origin.Left + mv.Left, Top: origin.Top + mv.Top})

			after := p.BottomRight()
			if abs(after.Left-corner.Left) > abs(mv.Left) || abs(after.Top-corner.Top) > abs(mv.Top) {
				t.Errorf("vp %v move %v: corner moved %v -> %v, more than the pointer delta", vp, mv, corner, after)
			}
			if after.Left > vp.Width || after.Top > vp.Height || p.Position().Left < 0 || p.Position().Top < 0 {
				t.Errorf("vp %v move %v: panel off-screen at %v size %v", vp, mv, p.Position(), p.Size())
			}
		}
		p.EndDrag()
	}
}

func TestModeString(t *testing.T) {
	if ModePreset.String() != "preset" || ModeCustom.String() != "custom" {
		t.Errorf("unexpected mode strings %q %q", ModePreset, ModeCustom)
	}
}

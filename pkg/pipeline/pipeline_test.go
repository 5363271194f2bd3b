package pipeline

import (
	"testing"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

func TestPipelineCompositesSolidRect(t *testing.T) {
	p := New(nil)
	snap := layout.NewSnapshot()
	snap.Primitives.AddSolidRect(layout.Rect{X: 1, Y: 1, Width: 2, Height: 2}, layout.Color{R: 1, G: 0, B: 0, A: 1})

	p.Prepare(snap)
	grid := p.Render(5, 5)

	cell := grid.At(1, 1)
	if cell == nil || cell.Bg.R != 255 {
		t.Fatalf("expected red background at (1,1), got %+v", cell)
	}
	if c := grid.At(0, 0); c.Bg.R != 0 {
		t.Fatalf("expected untouched cell at origin, got %+v", c)
	}
}

func TestPipelineCompositesTextRun(t *testing.T) {
	p := New(nil)
	snap := layout.NewSnapshot()
	snap.Primitives.AddTextRun("hi", layout.Point{X: 0, Y: 0}, layout.Color{R: 1, G: 1, B: 1, A: 1}, 14, nil, false, false)

	p.Prepare(snap)
	grid := p.Render(3, 3)

	if r := grid.At(0, 0).Rune; r != 'h' {
		t.Fatalf("cell(0,0) rune = %q, want 'h'", r)
	}
	if r := grid.At(0, 1).Rune; r != 'i' {
		t.Fatalf("cell(0,1) rune = %q, want 'i'", r)
	}
}

func TestPipelineBoxDrawingBecomesQuadNotGlyph(t *testing.T) {
	p := New(nil)
	snap := layout.NewSnapshot()
	snap.Primitives.AddTextRun("─", layout.Point{X: 0, Y: 0}, layout.Color{R: 1, G: 1, B: 1, A: 1}, 14, nil, false, false)

	p.Prepare(snap)
	grid := p.Render(2, 2)

	cell := grid.At(0, 0)
	if cell.Rune != 0 {
		t.Fatalf("box-drawing char should not set Rune, got %q", cell.Rune)
	}
	if cell.Bg.R != 255 {
		t.Fatalf("box-drawing char should paint background, got %+v", cell)
	}
}

func TestPipelineOverlayDrawsAfterContent(t *testing.T) {
	p := New(nil)
	snap := layout.NewSnapshot()
	snap.Primitives.AddSolidRect(layout.Rect{X: 0, Y: 0, Width: 1, Height: 1}, layout.Color{R: 1, G: 0, B: 0, A: 1})
	snap.OverlayPrims.AddSolidRect(layout.Rect{X: 0, Y: 0, Width: 1, Height: 1}, layout.Color{R: 0, G: 1, B: 0, A: 1})

	p.Prepare(snap)
	grid := p.Render(2, 2)

	cell := grid.At(0, 0)
	if cell.Bg.G != 255 || cell.Bg.R != 0 {
		t.Fatalf("overlay should win over content at same cell, got %+v", cell)
	}
}

func TestPipelineFrameIndexAdvancesAndCyclesTripleBuffer(t *testing.T) {
	p := New(nil)
	snap := layout.NewSnapshot()

	if p.FrameIndex() != 0 {
		t.Fatalf("expected frame index 0 before any Prepare")
	}
	for i := 0; i < 4; i++ {
		p.Prepare(snap)
	}
	if p.FrameIndex() != 4 {
		t.Fatalf("frame index = %d, want 4", p.FrameIndex())
	}
}

func TestGridResizeClearsCells(t *testing.T) {
	g := NewGrid(2, 2)
	g.At(0, 0).Rune = 'x'
	g.Resize(2, 2)
	if g.At(0, 0).Rune != 0 {
		t.Fatalf("expected resize-to-same-size to clear cells")
	}
}

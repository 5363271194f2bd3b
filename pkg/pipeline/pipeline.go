package pipeline

import (
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// Pipeline is the terminal-cell rasterizer: one per process, owning the
// triple-buffered instance slots, shape cache, glyph cache, glyph-atlas
// generation counter, row cache, and image atlas (spec §3 "the glyph
// atlas, image atlas, shape cache, and GPU pipeline live inside the
// renderer, not as process-level singletons; they are owned by the
// pipeline object"). Prepare gathers one frame's LayoutSnapshot into the
// current triple-buffer slot; Render composites that slot into a Grid.
type Pipeline struct {
	buffers    *Buffers
	shapes     *ShapeCache
	glyphs     *GlyphCache
	atlas      *GlyphAtlas
	rows       *RowCache
	images     *ImageAtlas
	grid       *Grid
}

// New returns a Pipeline. images may be nil if image rendering is unused
// (e.g. headless mode).
func New(images *ImageAtlas) *Pipeline {
	return &Pipeline{
		buffers: NewBuffers(),
		shapes:  NewShapeCache(),
		glyphs:  NewGlyphCache(),
		atlas:   NewGlyphAtlas(),
		rows:    NewRowCache(),
		images:  images,
		grid:    NewGrid(0, 0),
	}
}

// FrameIndex returns the current triple-buffer frame counter.
func (p *Pipeline) FrameIndex() uint64 { return p.buffers.FrameIndex() }

// ShapeCache, GlyphAtlas, and RowCache expose the sub-caches for callers
// (e.g. command widgets invalidating on font-config changes) that need
// direct access without routing everything through Prepare.
func (p *Pipeline) ShapeCache() *ShapeCache { return p.shapes }
func (p *Pipeline) GlyphAtlas() *GlyphAtlas { return p.atlas }
func (p *Pipeline) RowCache() *RowCache     { return p.rows }
func (p *Pipeline) ImageAtlas() *ImageAtlas { return p.images }

// Prepare gathers snapshot's two primitive batches — content and overlay —
// into the next triple-buffer slot, draining any pending image atlas loads
// first so newly-requested images are available to reference by handle
// (spec §4.5 control-flow: "pipeline prepare uploads into current
// triple-buffer slot").
func (p *Pipeline) Prepare(snapshot *layout.Snapshot) {
	if p.images != nil {
		p.images.Drain()
	}
	if p.atlas.TakeDirty() {
		p.rows.InvalidateAll()
	}

	slot := p.buffers.Advance()
	p.gatherBatch(slot, LayerContent, snapshot.Primitives)
	p.gatherBatch(slot, LayerOverlay, snapshot.OverlayPrims)
}

// gatherBatch lowers one PrimitiveBatch's primitives into Instances on
// layer, preserving the batch's internal ordering (spec §4.5 "ordering is
// encoded in buffer position").
func (p *Pipeline) gatherBatch(s *slot, layer Layer, batch *layout.PrimitiveBatch) {
	if batch == nil {
		return
	}
	for _, r := range batch.SolidRects {
		s.push(layer, Instance{
			PosX: float32(r.Rect.X), PosY: float32(r.Rect.Y),
			SizeW: float32(r.Rect.Width), SizeH: float32(r.Rect.Height),
			Color: colorOf(r.Color), Mode: ModeQuad,
			ClipRect: clipOf(r.ClipRect),
		})
	}
	for _, r := range batch.RoundedRects {
		s.push(layer, Instance{
			PosX: float32(r.Rect.X), PosY: float32(r.Rect.Y),
			SizeW: float32(r.Rect.Width), SizeH: float32(r.Rect.Height),
			Color: colorOf(r.Color), Mode: ModeQuad, CornerRadius: r.CornerRadius,
			ClipRect: clipOf(r.ClipRect),
		})
	}
	for _, c := range batch.Circles {
		s.push(layer, Instance{
			PosX: c.Center.X - c.Radius, PosY: c.Center.Y - c.Radius,
			SizeW: c.Radius * 2, SizeH: c.Radius * 2,
			Color: colorOf(c.Color), Mode: ModeQuad, CornerRadius: c.Radius,
			ClipRect: clipOf(c.ClipRect),
		})
	}
	for _, l := range batch.Lines {
		s.push(layer, Instance{
			PosX: l.P1.X, PosY: l.P1.Y, SizeW: l.P2.X - l.P1.X, SizeH: l.P2.Y - l.P1.Y,
			Color: colorOf(l.Color), Mode: ModeLine, LineStyle: uint8(l.Style),
			CornerRadius: l.Thickness, ClipRect: clipOf(l.ClipRect),
		})
	}
	for _, pl := range batch.Polylines {
		for i := 0; i+1 < len(pl.Points); i++ {
			p1, p2 := pl.Points[i], pl.Points[i+1]
			s.push(layer, Instance{
				PosX: p1.X, PosY: p1.Y, SizeW: p2.X - p1.X, SizeH: p2.Y - p1.Y,
				Color: colorOf(pl.Color), Mode: ModeLine, LineStyle: uint8(pl.Style),
				CornerRadius: pl.Thickness, ClipRect: clipOf(pl.ClipRect),
			})
		}
	}
	for _, t := range batch.TextRuns {
		p.gatherTextRun(s, layer, t)
	}
	for _, b := range batch.Borders {
		s.push(layer, Instance{
			PosX: float32(b.Rect.X), PosY: float32(b.Rect.Y),
			SizeW: float32(b.Rect.Width), SizeH: float32(b.Rect.Height),
			UVTLx: b.BorderWidth, Color: colorOf(b.Color), Mode: ModeBorder,
			CornerRadius: b.CornerRadius, ClipRect: clipOf(b.ClipRect),
		})
	}
	for _, sh := range batch.Shadows {
		s.push(layer, Instance{
			PosX: float32(sh.Rect.X), PosY: float32(sh.Rect.Y),
			SizeW: float32(sh.Rect.Width), SizeH: float32(sh.Rect.Height),
			UVTLx: sh.BlurRadius, Color: colorOf(sh.Color), Mode: ModeShadow,
			CornerRadius: sh.CornerRadius, ClipRect: clipOf(sh.ClipRect),
		})
	}
	for _, im := range batch.Images {
		s.push(layer, Instance{
			PosX: float32(im.Rect.X), PosY: float32(im.Rect.Y),
			SizeW: float32(im.Rect.Width), SizeH: float32(im.Rect.Height),
			TextureLayer: uint32(im.Handle), Color: colorOf(im.Tint), Mode: ModeImage,
			CornerRadius: im.CornerRadius, ClipRect: clipOf(im.ClipRect),
		})
	}
}

// gatherTextRun lowers one TextRun into one Instance per character, the
// hot grid/text path that exercises the shape cache, the per-character
// glyph cache, and the box-drawing decoder (spec §4.5 "Shape cache", "Per-
// character glyph cache", "Box-drawing characters"). Box-drawing and block
// elements become solid-rect instances instead of glyphs so cell
// boundaries align exactly.
func (p *Pipeline) gatherTextRun(s *slot, layer Layer, t layout.TextRun) {
	key := ShapeKey{Text: t.Text, FontSize: t.FontSize, Bold: t.Bold, Italic: t.Italic}
	gen := p.atlas.Generation()
	run, ok := p.shapes.Get(key, gen)
	if !ok {
		run = shapeRun(t.Text)
		run.Generation = gen
		p.shapes.Put(key, run)
	}

	style := glyphStyleOf(t.Bold, t.Italic)
	clip := clipOf(t.ClipRect)
	x := t.Position.X
	runes := []rune(t.Text)
	for i, r := range runes {
		cluster := string(r)
		if _, ok := p.glyphs.Get(cluster, style, gen); !ok {
			adv := float32(1)
			if i < len(run.Advances) {
				adv = run.Advances[i]
			}
			p.glyphs.Put(cluster, style, GlyphEntry{Advance: adv, Generation: gen})
		}

		adv := float32(1)
		if i < len(run.Advances) {
			adv = run.Advances[i]
		}

		if _, ok := DecodeBoxGlyph(r); ok {
			s.push(layer, Instance{
				PosX: x, PosY: t.Position.Y, SizeW: adv, SizeH: 1,
				Color: colorOf(t.Color), Mode: ModeQuad, ClipRect: clip,
			})
		} else {
			s.push(layer, Instance{
				PosX: x, PosY: t.Position.Y, SizeW: adv, SizeH: 1,
				Color: colorOf(t.Color), Mode: ModeColorGlyph, CornerRadius: t.FontSize,
				ClipRect: clip, Rune: r, Bold: t.Bold, Italic: t.Italic,
			})
		}
		x += adv
	}
}

// shapeRun computes per-character advances for text. Terminal cells are
// monospace, so every character advances exactly one cell regardless of
// font metrics — the shape cache still exists to short-circuit re-walking
// the string and to carry the poison/generation bookkeeping spec'd for the
// GPU shaper.
func shapeRun(text string) ShapedRun {
	n := len([]rune(text))
	advances := make([]float32, n)
	for i := range advances {
		advances[i] = 1
	}
	return ShapedRun{Advances: advances}
}

func colorOf(c layout.Color) Color {
	return Color{
		R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: clampByte(c.A),
	}
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func clipOf(r *layout.Rect) [4]float32 {
	if r == nil {
		return [4]float32{0, 0, -1, -1} // sentinel: no clip
	}
	return [4]float32{float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)}
}

// Render composites the current slot's layers, in draw order, into a Grid
// sized rows x cols (spec §4.5 "render issues one draw call"; draw order
// is background → content → foreground → overlay, though this backend's
// LayoutSnapshot only distinguishes content/overlay — see DESIGN.md).
func (p *Pipeline) Render(rows, cols int) *Grid {
	p.grid.Resize(rows, cols)
	slot := p.buffers.CurrentSlot()
	for _, layer := range []Layer{LayerBackground, LayerContent, LayerForeground, LayerOverlay} {
		for _, inst := range slot.Instances(layer) {
			compositeInstance(p.grid, inst)
		}
	}
	return p.grid
}

// compositeInstance paints one instance's covered cells, the cell-grid
// analogue of a GPU fragment shader invocation per covered pixel.
func compositeInstance(g *Grid, inst Instance) {
	x0 := int(inst.PosX)
	y0 := int(inst.PosY)
	w := int(inst.SizeW)
	h := int(inst.SizeH)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if inst.ClipRect[2] >= 0 && !clipContains(inst.ClipRect, float32(x), float32(y)) {
				continue
			}
			cell := g.At(y, x)
			if cell == nil {
				continue
			}
			switch inst.Mode {
			case ModeQuad, ModeBorder, ModeShadow:
				cell.Bg = inst.Color
			case ModeImage:
				cell.Bg = inst.Color
				cell.ImageGlyph = true
			case ModeColorGlyph:
				cell.Fg = inst.Color
				cell.Rune = inst.Rune
				cell.Bold = inst.Bold
				cell.Italic = inst.Italic
			}
		}
	}
}

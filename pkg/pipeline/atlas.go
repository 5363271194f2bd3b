package pipeline

// GlyphAtlas stands in for the GPU glyph atlas texture: in a cell
// rasterizer there is no texture to pack, but the generation counter and
// dirty-region bookkeeping are kept because the shape cache and row cache
// key their staleness off it (spec §4.5 "on growth, generation counter
// bumps and dependent caches invalidate").
type GlyphAtlas struct {
	generation uint64
	dirty      bool
}

// NewGlyphAtlas returns a fresh atlas at generation 0.
func NewGlyphAtlas() *GlyphAtlas {
	return &GlyphAtlas{}
}

// Generation returns the current generation counter.
func (a *GlyphAtlas) Generation() uint64 { return a.generation }

// Grow bumps the generation, invalidating every cache keyed against it.
// Called whenever a font/size change would have resized the real atlas —
// in this backend, on font-size or font-family configuration changes.
func (a *GlyphAtlas) Grow() {
	a.generation++
	a.dirty = true
}

// TakeDirty reports and clears whether the atlas changed since the last
// call, mirroring the per-frame dirty-region flag.
func (a *GlyphAtlas) TakeDirty() bool {
	d := a.dirty
	a.dirty = false
	return d
}

// Package pipeline is the terminal-cell rasterizer: the adaptation of the
// GPU ubershader pipeline (spec §4.5) to a cell-grid backend. It keeps the
// conceptual shape of the original design — a single ordered instance
// stream, triple-buffered slots, a shape cache, a glyph atlas generation
// counter, and an image atlas — but the final "draw call" composites
// instances into a grid of terminal cells instead of issuing GPU commands.
package pipeline

// Mode discriminates an Instance's primitive kind, mirroring the low byte
// of the original 64-byte GPU instance's mode field (spec §4.5 "mode (low
// byte: 0 Quad, 1 Line, 2 Border, 3 Shadow, 4 Image, 5 Color Glyph").
type Mode uint8

const (
	ModeQuad Mode = iota
	ModeLine
	ModeBorder
	ModeShadow
	ModeImage
	ModeColorGlyph
)

// Color is a packed RGBA color, analogous to the instance's packed RGBA8
// color field.
type Color struct {
	R, G, B, A uint8
}

// Instance is the cell-rasterizer's equivalent of one 64-byte GPU instance
// (spec §4.5 "Each instance is 64 bytes"). Every primitive kind in
// pkg/layout's PrimitiveBatch lowers to one or more Instances before the
// gather/composite pass. Fields are named after their GPU counterparts so
// the mapping stays legible; there is no packed byte encoding since nothing
// here crosses a CPU/GPU boundary.
type Instance struct {
	PosX, PosY   float32 // Quad/Border/Shadow/Image: top-left. Line: P1.
	SizeW, SizeH float32 // Quad/Border/Shadow/Image: extent. Line: P2 (packed here as W,H deltas).
	UVTLx, UVTLy float32 // atlas coords, or BorderWidth (Border) / BlurRadius (Shadow).
	UVBRx, UVBRy float32

	Color        Color
	Mode         Mode
	LineStyle    uint8 // bits 8..15 of the original mode field
	CornerRadius float32
	TextureLayer uint32
	ClipRect     [4]float32 // x, y, w, h

	// Rune is set for ModeColorGlyph instances: the character the cell
	// compositor writes. Absent in the original 64-byte encoding (a real
	// GPU glyph instance carries atlas UVs instead), but required here
	// since there is no texture to sample at composite time.
	Rune rune
	Bold, Italic bool

	// DrawIndex preserves insertion order within a layer for the
	// background/content/foreground/overlay draw-order pass (spec §4.5
	// "Draw order ... ordering is encoded in buffer position").
	DrawIndex int
}

// Layer discriminates the four draw-order passes (spec §4.5 "Draw order").
type Layer int

const (
	LayerBackground Layer = iota
	LayerContent
	LayerForeground
	LayerOverlay
)

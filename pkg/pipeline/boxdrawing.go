package pipeline

// StrokeStyle is one cardinal direction's stroke weight for a box-drawing
// glyph (spec §4.5 "The decoder returns a 4-tuple of stroke styles
// (none/light/heavy/double) for cardinal directions").
type StrokeStyle uint8

const (
	StrokeNone StrokeStyle = iota
	StrokeLight
	StrokeHeavy
	StrokeDouble
)

// BoxGlyph is a decoded box-drawing or block-element character: its four
// cardinal strokes plus whether a small center fill is needed to close
// T-junctions, and block-element fill (for █ ▀ ░ etc, a coverage fraction
// and which quadrant/rows it occupies is left to the caller — this decoder
// only classifies).
type BoxGlyph struct {
	Up, Down, Left, Right StrokeStyle
	CenterFill            bool
	IsBlockElement        bool
}

// boxDrawingTable maps the Unicode Box Drawing block (U+2500-U+257F) to
// their stroke decomposition. Only the glyphs actually reachable from
// common shell/tool output (tree branches, table borders) are enumerated;
// unlisted runes fall through to DecodeBoxGlyph's block-element check.
var boxDrawingTable = map[rune]BoxGlyph{
	'─': {Left: StrokeLight, Right: StrokeLight},
	'━': {Left: StrokeHeavy, Right: StrokeHeavy},
	'│': {Up: StrokeLight, Down: StrokeLight},
	'┃': {Up: StrokeHeavy, Down: StrokeHeavy},
	'┌': {Down: StrokeLight, Right: StrokeLight},
	'┐': {Down: StrokeLight, Left: StrokeLight},
	'└': {Up: StrokeLight, Right: StrokeLight},
	'┘': {Up: StrokeLight, Left: StrokeLight},
	'├': {Up: StrokeLight, Down: StrokeLight, Right: StrokeLight, CenterFill: true},
	'┤': {Up: StrokeLight, Down: StrokeLight, Left: StrokeLight, CenterFill: true},
	'┬': {Down: StrokeLight, Left: StrokeLight, Right: StrokeLight, CenterFill: true},
	'┴': {Up: StrokeLight, Left: StrokeLight, Right: StrokeLight, CenterFill: true},
	'┼': {Up: StrokeLight, Down: StrokeLight, Left: StrokeLight, Right: StrokeLight, CenterFill: true},
	'╔': {Down: StrokeDouble, Right: StrokeDouble},
	'╗': {Down: StrokeDouble, Left: StrokeDouble},
	'╚': {Up: StrokeDouble, Right: StrokeDouble},
	'╝': {Up: StrokeDouble, Left: StrokeDouble},
	'║': {Up: StrokeDouble, Down: StrokeDouble},
	'═': {Left: StrokeDouble, Right: StrokeDouble},
}

// blockElements are solid/partial block fills rendered as rectangles rather
// than glyphs (spec §4.5 "Box-drawing characters").
var blockElements = map[rune]bool{
	'█': true, '▀': true, '▄': true, '▌': true, '▐': true,
	'░': true, '▒': true, '▓': true,
}

// DecodeBoxGlyph classifies r as a box-drawing or block-element character.
// Callers (the grid gather pass) use ok to decide whether to emit solid
// rectangles instead of a glyph instance.
func DecodeBoxGlyph(r rune) (BoxGlyph, bool) {
	if g, ok := boxDrawingTable[r]; ok {
		return g, true
	}
	if blockElements[r] {
		return BoxGlyph{IsBlockElement: true}, true
	}
	return BoxGlyph{}, false
}

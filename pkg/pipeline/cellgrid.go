package pipeline

// Cell is one rasterized terminal cell: the final output of compositing
// the instance stream, analogous to the pixel a GPU fragment shader would
// write for the same instance (spec §4.5).
type Cell struct {
	Rune       rune
	Fg, Bg     Color
	Bold       bool
	Italic     bool
	Underline  bool
	ImageGlyph bool // cell is part of a rendered image placeholder, not text
}

// Grid is the rasterizer's final output surface: Rows x Cols cells
// composited in draw order from the current triple-buffer slot.
type Grid struct {
	Rows, Cols int
	Cells      []Cell
}

// NewGrid returns a blank grid of the given dimensions.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Cells: make([]Cell, rows*cols)}
}

// At returns a pointer to the cell at (row, col), or nil if out of bounds.
func (g *Grid) At(row, col int) *Cell {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return nil
	}
	return &g.Cells[row*g.Cols+col]
}

// Resize reallocates the grid if dimensions changed, clearing all cells.
func (g *Grid) Resize(rows, cols int) {
	if g.Rows == rows && g.Cols == cols {
		for i := range g.Cells {
			g.Cells[i] = Cell{}
		}
		return
	}
	g.Rows, g.Cols = rows, cols
	g.Cells = make([]Cell, rows*cols)
}

// clipContains reports whether (x, y) falls inside clip, treating a
// zero-area clip as "everything clipped" per the sentinel convention (spec
// §4.6 "An empty or degenerate intersection maps to a 'clip everything'
// sentinel").
func clipContains(clip [4]float32, x, y float32) bool {
	cx, cy, cw, ch := clip[0], clip[1], clip[2], clip[3]
	if cw <= 0 || ch <= 0 {
		return false
	}
	return x >= cx && x < cx+cw && y >= cy && y < cy+ch
}

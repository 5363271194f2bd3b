package pipeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render converts the rasterized Grid into a single ANSI string, one line
// per row, joined by newlines — the terminal-backend's final "draw call"
// (spec §4.5's single draw call becomes: walk the grid once, emit one
// styled run per contiguous span of cells sharing the same fg/bg/bold/
// italic/underline). Grouping into runs keeps output proportional to the
// number of distinct styles on a row rather than one escape sequence per
// cell.
func (g *Grid) Render() string {
	if g.Rows <= 0 || g.Cols <= 0 {
		return ""
	}

	lines := make([]string, g.Rows)
	for row := 0; row < g.Rows; row++ {
		lines[row] = renderRow(g, row)
	}
	return strings.Join(lines, "\n")
}

func renderRow(g *Grid, row int) string {
	var b strings.Builder

	runStart := 0
	for col := 1; col <= g.Cols; col++ {
		if col < g.Cols && sameStyle(g.At(row, col), g.At(row, runStart)) {
			continue
		}
		b.WriteString(renderRun(g, row, runStart, col))
		runStart = col
	}
	return b.String()
}

func sameStyle(a, b *Cell) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Fg == b.Fg && a.Bg == b.Bg && a.Bold == b.Bold &&
		a.Italic == b.Italic && a.Underline == b.Underline && a.ImageGlyph == b.ImageGlyph
}

// renderRun renders columns [lo, hi) of row as one styled span.
func renderRun(g *Grid, row, lo, hi int) string {
	var text strings.Builder
	for col := lo; col < hi; col++ {
		cell := g.At(row, col)
		if cell == nil || cell.Rune == 0 {
			text.WriteRune(' ')
			continue
		}
		text.WriteRune(cell.Rune)
	}

	first := g.At(row, lo)
	if first == nil {
		return text.String()
	}

	style := lipgloss.NewStyle()
	if first.Fg != (Color{}) {
		style = style.Foreground(lipgloss.Color(hexColor(first.Fg)))
	}
	if first.Bg != (Color{}) {
		style = style.Background(lipgloss.Color(hexColor(first.Bg)))
	}
	if first.Bold {
		style = style.Bold(true)
	}
	if first.Italic {
		style = style.Italic(true)
	}
	if first.Underline {
		style = style.Underline(true)
	}

	return style.Render(text.String())
}

func hexColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

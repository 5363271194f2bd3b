package selection

import (
	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// Bounds implements spec §4.7 "Selection bounds": walks sources between
// anchor and focus in document order. A source fully contained in the span
// contributes its whole bounds (fast path); the first and last source each
// contribute only the partially-covered portion, as per-line rectangles
// for text or per-row rectangles for grids.
func Bounds(sel addressing.Selection, snapshot *layout.Snapshot, ordering *addressing.SourceOrdering) []layout.Rect {
	if sel.IsCollapsed() {
		return nil
	}
	start, end := sel.Normalized(ordering)

	var rects []layout.Rect
	for _, id := range ordering.SourcesBetween(start.Source, end.Source) {
		bounds, ok := snapshot.WidgetBounds[id]
		if !ok {
			continue
		}
		src, ok := snapshot.Sources[id]
		if !ok {
			continue
		}

		if id != start.Source && id != end.Source {
			rects = append(rects, bounds)
			continue
		}

		fromItem, fromOffset := 0, 0
		toItem, toOffset := len(src.Items)-1, -1
		if id == start.Source {
			fromItem, fromOffset = start.ItemIndex, start.ContentOffset
		}
		if id == end.Source {
			toItem, toOffset = end.ItemIndex, end.ContentOffset
		}

		rects = append(rects, partialRects(src, fromItem, fromOffset, toItem, toOffset)...)
	}
	return rects
}

// partialRects walks items [fromItem, toItem] of src, clipping the first
// item to start at fromOffset and the last to end at toOffset (-1 meaning
// "to the end of the item").
func partialRects(src *layout.SourceLayout, fromItem, fromOffset, toItem, toOffset int) []layout.Rect {
	var rects []layout.Rect
	for i := fromItem; i <= toItem && i >= 0 && i < len(src.Items); i++ {
		item := src.Items[i]
		lo := 0
		if i == fromItem {
			lo = fromOffset
		}
		hi := -1
		if i == toItem {
			hi = toOffset
		}

		switch item.Kind {
		case layout.ItemText:
			rects = append(rects, textLineRects(item.Text, lo, hi)...)
		case layout.ItemGrid:
			if r, ok := gridRowRect(item.Grid, lo, hi); ok {
				rects = append(rects, r)
			}
		}
	}
	return rects
}

// textLineRects splits the character range [lo, hi) of t across its lines,
// producing one rectangle per touched line. hi < 0 means "to CharCount".
func textLineRects(t *layout.TextLayout, lo, hi int) []layout.Rect {
	if t == nil {
		return nil
	}
	if hi < 0 || hi > t.CharCount {
		hi = t.CharCount
	}
	if lo < 0 {
		lo = 0
	}
	if lo >= hi {
		return nil
	}

	var rects []layout.Rect
	lineStart := 0
	for line := 0; lineStart < hi; line++ {
		lineEnd := t.CharCount
		if line < len(t.LineBreaks) {
			lineEnd = t.LineBreaks[line]
		}

		segLo := max(lo, lineStart)
		segHi := min(hi, lineEnd)
		if segLo < segHi {
			x0 := float32(t.Bounds.X) + charEdge(t, segLo)
			x1 := float32(t.Bounds.X) + charEdge(t, segHi)
			rects = append(rects, layout.Rect{
				X:      int(x0),
				Y:      t.Bounds.Y + line*int(t.LineHeight),
				Width:  int(x1 - x0),
				Height: int(t.LineHeight),
			})
		}

		if lineEnd == lineStart {
			break // no further lines recorded
		}
		lineStart = lineEnd
	}
	return rects
}

// charEdge returns the cached left-edge x position of character idx,
// clamping to the last known edge past the end of the text.
func charEdge(t *layout.TextLayout, idx int) float32 {
	if idx < len(t.CharEdges) {
		return t.CharEdges[idx]
	}
	if len(t.CharEdges) > 0 {
		return t.CharEdges[len(t.CharEdges)-1]
	}
	return 0
}

// gridRowRect returns the full-width rectangle spanning the rows touched by
// cell range [lo, hi). hi < 0 means "to the last cell".
func gridRowRect(g *layout.GridLayout, lo, hi int) (layout.Rect, bool) {
	if g == nil || g.Cols <= 0 {
		return layout.Rect{}, false
	}
	total := g.Cols * g.Rows
	if hi < 0 || hi > total {
		hi = total
	}
	if lo >= hi {
		return layout.Rect{}, false
	}

	rowLo := lo / g.Cols
	rowHi := (hi - 1) / g.Cols
	y0 := g.Bounds.Y + int(float32(rowLo)*g.CellHeight)
	y1 := g.Bounds.Y + int(float32(rowHi+1)*g.CellHeight)
	return layout.Rect{
		X:      g.Bounds.X,
		Y:      y0,
		Width:  g.Bounds.Width,
		Height: y1 - y0,
	}, true
}

// Package selection implements hit-testing and selection-bounds resolution
// over a layout snapshot (spec §4.7). It is kept separate from pkg/layout so
// the pure geometry here can be tested without a renderer.
package selection

import (
	"sort"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// smallWidgetAreaCap is the area (in px²) below which an interactive widget
// wins hit-testing priority over content sources (spec §4.7 "Small
// interactive widgets (area ≤ 40 000 px²)").
const smallWidgetAreaCap = 40_000

// ResultKind discriminates a hit_test outcome.
type ResultKind int

const (
	HitNone ResultKind = iota
	HitWidget
	HitContent
	HitContainer
)

// Result is the outcome of HitTest.
type Result struct {
	Kind    ResultKind
	Widget  identity.SourceId
	Address addressing.ContentAddress
}

// WidgetBounds is one candidate small/large widget for priority 1/3.
type WidgetBounds struct {
	Source identity.SourceId
	Bounds layout.Rect
	Large  bool
}

// HitTest resolves point against small widgets, then content sources in
// document order, then large container widgets, per spec §4.7's three-tier
// priority.
func HitTest(point layout.Point, widgets []WidgetBounds, snapshot *layout.Snapshot, ordering *addressing.SourceOrdering) Result {
	if r, ok := hitSmallWidget(point, widgets); ok {
		return r
	}
	if r, ok := hitContent(point, snapshot, ordering); ok {
		return r
	}
	if r, ok := hitLargeWidget(point, widgets); ok {
		return r
	}
	return Result{Kind: HitNone}
}

func hitSmallWidget(point layout.Point, widgets []WidgetBounds) (Result, bool) {
	best := -1
	bestArea := 0
	for i, w := range widgets {
		if w.Large || !containsPoint(w.Bounds, point) {
			continue
		}
		area := w.Bounds.Width * w.Bounds.Height
		if area > smallWidgetAreaCap {
			continue
		}
		if best == -1 || area < bestArea {
			best = i
			bestArea = area
		}
	}
	if best == -1 {
		return Result{}, false
	}
	return Result{Kind: HitWidget, Widget: widgets[best].Source}, true
}

func hitLargeWidget(point layout.Point, widgets []WidgetBounds) (Result, bool) {
	for _, w := range widgets {
		if w.Large && containsPoint(w.Bounds, point) {
			return Result{Kind: HitWidget, Widget: w.Source}, true
		}
	}
	return Result{}, false
}

// hitContent walks sources in document order and returns the first item
// whose bounds contain point (spec §4.7 priority 2).
func hitContent(point layout.Point, snapshot *layout.Snapshot, ordering *addressing.SourceOrdering) (Result, bool) {
	for _, id := range ordering.SourcesInOrder() {
		src, ok := snapshot.Sources[id]
		if !ok {
			continue
		}
		bounds, ok := snapshot.WidgetBounds[id]
		if !ok || !containsPoint(bounds, point) {
			continue
		}
		for itemIndex, item := range src.Items {
			addr, ok := hitItem(point, bounds, id, itemIndex, item)
			if ok {
				return Result{Kind: HitContent, Address: addr}, true
			}
		}
	}
	return Result{}, false
}

func hitItem(point layout.Point, bounds layout.Rect, source identity.SourceId, itemIndex int, item layout.Item) (addressing.ContentAddress, bool) {
	switch item.Kind {
	case layout.ItemText:
		offset, ok := TextHit(point, item.Text)
		if !ok {
			return addressing.ContentAddress{}, false
		}
		return addressing.ContentAddress{Source: source, ItemIndex: itemIndex, ContentOffset: offset}, true
	case layout.ItemGrid:
		offset, ok := GridHit(point, item.Grid)
		if !ok {
			return addressing.ContentAddress{}, false
		}
		return addressing.ContentAddress{Source: source, ItemIndex: itemIndex, ContentOffset: offset}, true
	default:
		return addressing.ContentAddress{}, false
	}
}

// TextHit finds a cursor offset along a TextLayout by Y-line lookup then
// partition_point over cached character left-edges with midpoint snap to
// the nearest boundary (spec §4.7 "Text hit").
func TextHit(point layout.Point, t *layout.TextLayout) (int, bool) {
	if t == nil || !containsPoint(t.Bounds, point) {
		return 0, false
	}
	if t.LineHeight <= 0 {
		return 0, false
	}

	line := int((point.Y - float32(t.Bounds.Y)) / t.LineHeight)
	lineStart, lineEnd := lineBounds(t, line)
	if lineStart == lineEnd {
		return lineStart, true
	}

	relX := point.X - float32(t.Bounds.X)
	edges := t.CharEdges[lineStart:lineEnd]

	idx := sort.Search(len(edges), func(i int) bool { return edges[i] > relX })
	if idx == 0 {
		return lineStart, true
	}
	if idx >= len(edges) {
		return lineStart + len(edges), true
	}

	// Midpoint snap: pick whichever neighbouring boundary the point is
	// closer to.
	before := edges[idx-1]
	after := edges[idx]
	if relX-before <= after-relX {
		return lineStart + idx - 1, true
	}
	return lineStart + idx, true
}

func lineBounds(t *layout.TextLayout, line int) (start, end int) {
	if line < 0 {
		return 0, 0
	}
	if line >= len(t.LineBreaks) {
		if len(t.LineBreaks) == 0 {
			return 0, t.CharCount
		}
		return t.LineBreaks[len(t.LineBreaks)-1], t.CharCount
	}
	start = 0
	if line > 0 {
		start = t.LineBreaks[line-1]
	}
	return start, t.LineBreaks[line]
}

// GridHit implements spec §4.7 "Grid hit": floor(rel_x/cell_width),
// floor(rel_y/cell_height), clamp, linearise.
func GridHit(point layout.Point, g *layout.GridLayout) (int, bool) {
	if g == nil || !containsPoint(g.Bounds, point) || g.CellWidth <= 0 || g.CellHeight <= 0 {
		return 0, false
	}
	relX := point.X - float32(g.Bounds.X)
	relY := point.Y - float32(g.Bounds.Y)

	col := int(relX / g.CellWidth)
	row := int(relY / g.CellHeight)
	col = clamp(col, 0, g.Cols-1)
	row = clamp(row, 0, g.Rows-1)
	return row*g.Cols + col, true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsPoint(r layout.Rect, p layout.Point) bool {
	return p.X >= float32(r.X) && p.X < float32(r.Right()) &&
		p.Y >= float32(r.Y) && p.Y < float32(r.Bottom())
}

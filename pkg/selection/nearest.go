package selection

import (
	"math"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// NearestContent implements spec §4.7 "Nearest-content": a drag-fallback
// that picks the closest source+item by axis-aligned distance and clamps
// the point into it, bridging dead zones between blocks while dragging
// (e.g. the pointer passes over a scrollbar gutter or block gap mid-drag).
func NearestContent(point layout.Point, snapshot *layout.Snapshot, ordering *addressing.SourceOrdering) (addressing.ContentAddress, bool) {
	bestDist := float32(math.MaxFloat32)
	var best addressing.ContentAddress
	found := false

	for _, id := range ordering.SourcesInOrder() {
		src, ok := snapshot.Sources[id]
		if !ok {
			continue
		}
		bounds, ok := snapshot.WidgetBounds[id]
		if !ok || len(src.Items) == 0 {
			continue
		}

		dist := axisDistance(point, bounds)
		if dist >= bestDist {
			continue
		}
		clamped := clampToRect(point, bounds)

		for itemIndex, item := range src.Items {
			addr, ok := hitItem(clamped, bounds, id, itemIndex, item)
			if !ok {
				continue
			}
			bestDist = dist
			best = addr
			found = true
			break
		}
	}

	return best, found
}

// axisDistance returns the squared axis-aligned distance from point to the
// nearest edge of r (0 when point is already inside r).
func axisDistance(point layout.Point, r layout.Rect) float32 {
	dx := float32(0)
	if point.X < float32(r.X) {
		dx = float32(r.X) - point.X
	} else if point.X >= float32(r.Right()) {
		dx = point.X - float32(r.Right()) + 1
	}

	dy := float32(0)
	if point.Y < float32(r.Y) {
		dy = float32(r.Y) - point.Y
	} else if point.Y >= float32(r.Bottom()) {
		dy = point.Y - float32(r.Bottom()) + 1
	}

	return dx*dx + dy*dy
}

func clampToRect(point layout.Point, r layout.Rect) layout.Point {
	x := point.X
	if x < float32(r.X) {
		x = float32(r.X)
	} else if x >= float32(r.Right()) {
		x = float32(r.Right()) - 1
	}

	y := point.Y
	if y < float32(r.Y) {
		y = float32(r.Y)
	} else if y >= float32(r.Bottom()) {
		y = float32(r.Bottom()) - 1
	}

	return layout.Point{X: x, Y: y}
}

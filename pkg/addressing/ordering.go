package addressing

import (
	"math"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
)

// SourceOrdering tracks the document order of sources for a single frame,
// since a SourceId carries no inherent ordering of its own (spec §3
// "LayoutSnapshot.source_ordering"). It is cleared and rebuilt at the start
// of each frame's layout pass.
type SourceOrdering struct {
	position map[identity.SourceId]int
	sources  []identity.SourceId
}

// NewSourceOrdering returns an empty ordering.
func NewSourceOrdering() *SourceOrdering {
	return &SourceOrdering{position: make(map[identity.SourceId]int)}
}

// Register assigns source the next document-order position, or returns its
// existing position if already registered this frame.
func (o *SourceOrdering) Register(source identity.SourceId) int {
	if pos, ok := o.position[source]; ok {
		return pos
	}
	pos := len(o.sources)
	o.position[source] = pos
	o.sources = append(o.sources, source)
	return pos
}

// Clear resets the ordering for a new frame.
func (o *SourceOrdering) Clear() {
	o.position = make(map[identity.SourceId]int)
	o.sources = nil
}

// Position returns source's document-order index, if registered.
func (o *SourceOrdering) Position(source identity.SourceId) (int, bool) {
	pos, ok := o.position[source]
	return pos, ok
}

// SourceAt returns the source registered at position, if any.
func (o *SourceOrdering) SourceAt(position int) (identity.SourceId, bool) {
	if position < 0 || position >= len(o.sources) {
		return 0, false
	}
	return o.sources[position], true
}

// SourcesInOrder returns every registered source, in document order.
func (o *SourceOrdering) SourcesInOrder() []identity.SourceId {
	return o.sources
}

// SourcesBetween returns every source between start and end (inclusive), in
// document order, regardless of which argument comes first positionally.
func (o *SourceOrdering) SourcesBetween(start, end identity.SourceId) []identity.SourceId {
	startPos := o.positionOrMax(start)
	endPos := o.positionOrMin(end)

	minPos, maxPos := startPos, endPos
	if minPos > maxPos {
		minPos, maxPos = maxPos, minPos
	}

	var out []identity.SourceId
	for i, s := range o.sources {
		if i >= minPos && i <= maxPos {
			out = append(out, s)
		}
	}
	return out
}

func (o *SourceOrdering) positionOrMax(source identity.SourceId) int {
	if pos, ok := o.position[source]; ok {
		return pos
	}
	return math.MaxInt32
}

func (o *SourceOrdering) positionOrMin(source identity.SourceId) int {
	if pos, ok := o.position[source]; ok {
		return pos
	}
	return 0
}

// Compare orders two content addresses in document order: within the same
// source by (ItemIndex, ContentOffset), across sources by registered
// position (spec §3 "ContentAddress" invariant).
func (o *SourceOrdering) Compare(a, b ContentAddress) int {
	if a.Source == b.Source {
		if cmp, ok := a.CompareWithinSource(b); ok {
			return cmp
		}
	}
	aPos := o.positionOrMax(a.Source)
	bPos := o.positionOrMax(b.Source)
	return cmpInt(aPos, bPos)
}

// Contains reports whether source has been registered this frame.
func (o *SourceOrdering) Contains(source identity.SourceId) bool {
	_, ok := o.position[source]
	return ok
}

// Len returns the number of registered sources.
func (o *SourceOrdering) Len() int { return len(o.sources) }

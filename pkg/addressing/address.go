// Package addressing implements cross-widget content addressing: a stable
// global addressing scheme supporting selection across independent visual
// sources (spec §1 item 4, §3 "ContentAddress"/"Selection"). Ported from
// strata/src/content_address.rs.
package addressing

import (
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
)

// ContentAddress is a global address into a source's content: which source,
// which item within it, and which character/cell offset within that item.
type ContentAddress struct {
	Source        identity.SourceId
	ItemIndex     int
	ContentOffset int
}

// StartOf returns the address at the very start of source.
func StartOf(source identity.SourceId) ContentAddress {
	return ContentAddress{Source: source}
}

// SameSource reports whether a and b address the same source.
func (a ContentAddress) SameSource(b ContentAddress) bool {
	return a.Source == b.Source
}

// CompareWithinSource compares a and b lexicographically by
// (ItemIndex, ContentOffset) when they share a source, per spec §3
// "within a source, comparison is lexicographic (item_index,
// content_offset)". ok is false when a and b are in different sources.
func (a ContentAddress) CompareWithinSource(b ContentAddress) (cmp int, ok bool) {
	if a.Source != b.Source {
		return 0, false
	}
	if a.ItemIndex != b.ItemIndex {
		return cmpInt(a.ItemIndex, b.ItemIndex), true
	}
	return cmpInt(a.ContentOffset, b.ContentOffset), true
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Shape discriminates the two Selection interpretations (spec §3).
type Shape int

const (
	ShapeLinear Shape = iota
	ShapeRectangular
)

// Selection is an anchor-focus content range, normalised to document order
// by a SourceOrdering (spec §3 "Selection").
type Selection struct {
	Anchor ContentAddress
	Focus  ContentAddress
	Shape  Shape
	// XMin/XMax are meaningful only when Shape == ShapeRectangular: the
	// visual x-coordinate column range, while Anchor/Focus define the row
	// range.
	XMin, XMax float32
}

// NewSelection returns a Linear selection from anchor to focus.
func NewSelection(anchor, focus ContentAddress) Selection {
	return Selection{Anchor: anchor, Focus: focus, Shape: ShapeLinear}
}

// Collapsed returns a zero-width selection (cursor position).
func Collapsed(pos ContentAddress) Selection {
	return Selection{Anchor: pos, Focus: pos, Shape: ShapeLinear}
}

// IsCollapsed reports whether anchor and focus are identical.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// IsWithinSource reports whether anchor and focus share a source.
func (s Selection) IsWithinSource() bool {
	return s.Anchor.Source == s.Focus.Source
}

// Normalized orders anchor/focus by document order, returning (start, end)
// with start <= end according to ordering (spec §3 "Normalisation orders
// anchor/focus by document order").
func (s Selection) Normalized(ordering *SourceOrdering) (start, end ContentAddress) {
	if ordering.Compare(s.Anchor, s.Focus) > 0 {
		return s.Focus, s.Anchor
	}
	return s.Anchor, s.Focus
}

// Contains reports whether addr falls within [start, end] of the normalised
// selection.
func (s Selection) Contains(addr ContentAddress, ordering *SourceOrdering) bool {
	start, end := s.Normalized(ordering)
	return ordering.Compare(addr, start) >= 0 && ordering.Compare(addr, end) <= 0
}

// Sources returns every source the normalised selection spans, in document
// order.
func (s Selection) Sources(ordering *SourceOrdering) []identity.SourceId {
	start, end := s.Normalized(ordering)
	return ordering.SourcesBetween(start.Source, end.Source)
}

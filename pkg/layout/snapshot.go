package layout

import "github.com/Deep-ai-inc/nexus-sub000/pkg/identity"

// Point is a floating-point pixel coordinate, used by hit-testing (spec §3
// "LayoutSnapshot", §4.7).
type Point struct {
	X, Y float32
}

// ItemKind discriminates SourceLayout.Items entries.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemGrid
)

// TextLayout describes one text item within a source: its string, packed
// character left-edge positions (relative to Bounds.X), line-break offsets,
// line height, and total character count (spec §3 "SourceLayout.items[i]").
type TextLayout struct {
	Bounds     Rect
	Text       string
	CharEdges  []float32
	LineBreaks []int
	LineHeight float32
	CharCount  int
}

// GridLayout describes one terminal-grid item within a source: its bounds,
// per-cell metrics, dimensions, and optional clip rect.
type GridLayout struct {
	Bounds     Rect
	CellWidth  float32
	CellHeight float32
	Cols, Rows int
	ClipRect   *Rect
}

// Item is a tagged union of TextLayout/GridLayout, exactly one populated
// per Kind.
type Item struct {
	Kind ItemKind
	Text *TextLayout
	Grid *GridLayout
}

// SourceLayout is the per-frame layout description of one content source:
// an ordered sequence of text/grid items composing it.
type SourceLayout struct {
	Items []Item
}

// ScrollTrackInfo describes a scroll source's track geometry for scrollbar
// rendering and thumb-drag hit testing.
type ScrollTrackInfo struct {
	TrackRect Rect
	ThumbSize float32
}

// OffsetFromY converts a mouse Y position to a scroll offset, given the
// distance (grabOffset) from the top of the thumb to where the drag
// started, and maxScroll (from Snapshot.ScrollLimits). Keeps the thumb
// anchored to the cursor instead of jumping on first drag.
func (t ScrollTrackInfo) OffsetFromY(mouseY, grabOffset, maxScroll float32) float32 {
	available := float32(t.TrackRect.Height) - t.ThumbSize
	if available <= 0 {
		return 0
	}
	thumbTop := mouseY - grabOffset
	relative := thumbTop - float32(t.TrackRect.Y)
	if relative < 0 {
		relative = 0
	}
	if relative > available {
		relative = available
	}
	return (relative / available) * maxScroll
}

// ThumbY computes the current thumb top Y from a scroll offset and
// maxScroll.
func (t ScrollTrackInfo) ThumbY(scrollOffset, maxScroll float32) float32 {
	available := float32(t.TrackRect.Height) - t.ThumbSize
	if available <= 0 || maxScroll <= 0 {
		return float32(t.TrackRect.Y)
	}
	return float32(t.TrackRect.Y) + (scrollOffset/maxScroll)*available
}

// CursorIcon is the pointer icon a source wants shown while hovered.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorText
	CursorPointer
	CursorResize
)

// Snapshot is the per-frame retained layout description: the single source
// of truth for both rendering and hit-testing/selection (spec §3
// "LayoutSnapshot"). It is cleared and rebuilt every render.
type Snapshot struct {
	Sources       map[identity.SourceId]*SourceLayout
	SourceOrder   []identity.SourceId
	WidgetBounds  map[identity.SourceId]Rect
	ScrollLimits  map[identity.SourceId]float32
	ScrollTracks  map[identity.SourceId]ScrollTrackInfo
	CursorHints   map[identity.SourceId]CursorIcon
	Primitives    *PrimitiveBatch
	OverlayPrims  *PrimitiveBatch
	Viewport      Rect
}

// NewSnapshot returns an empty Snapshot ready for one frame's layout pass.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Sources:      make(map[identity.SourceId]*SourceLayout),
		WidgetBounds: make(map[identity.SourceId]Rect),
		ScrollLimits: make(map[identity.SourceId]float32),
		ScrollTracks: make(map[identity.SourceId]ScrollTrackInfo),
		CursorHints:  make(map[identity.SourceId]CursorIcon),
		Primitives:   NewPrimitiveBatch(),
		OverlayPrims: NewPrimitiveBatch(),
	}
}

// RegisterSource adds items to source's SourceLayout and unions bounds into
// WidgetBounds. A source registered twice in one frame has its bounds
// unioned and items appended — this is how per-line widgets share one
// source for cross-line selection (spec §3 invariant).
func (s *Snapshot) RegisterSource(id identity.SourceId, bounds Rect, items ...Item) {
	sl, ok := s.Sources[id]
	if !ok {
		sl = &SourceLayout{}
		s.Sources[id] = sl
		s.SourceOrder = append(s.SourceOrder, id)
		s.WidgetBounds[id] = bounds
	} else {
		s.WidgetBounds[id] = unionRect(s.WidgetBounds[id], bounds)
	}
	sl.Items = append(sl.Items, items...)
}

func unionRect(a, b Rect) Rect {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	x0 := minInt(a.X, b.X)
	y0 := minInt(a.Y, b.Y)
	x1 := maxInt(a.Right(), b.Right())
	y1 := maxInt(a.Bottom(), b.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}


// Package scroll implements per-container scroll state: offset tracking,
// scrollbar thumb drag, and phase-aware overscroll rubber-banding with an
// analytical critically-damped spring-back (spec §4.9 "ScrollState"; §9
// "boundary rubber-banding... the spring's position is evaluated with a
// closed-form analytical solution"). Ported from strata/src/scroll_state.rs.
package scroll

import (
	"math"
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// grabTolerance absorbs float rounding when testing whether a click landed
// on the scrollbar thumb.
const grabTolerance = 4.0

// springGamma is the critically-damped spring's damping coefficient; lower
// values produce a slower, more luxurious return to rest (spec's original
// comment, ported verbatim in spirit).
const springGamma = 12.0

// overscrollResistanceScale bounds the maximum overscroll distance so it
// stays constant regardless of container size.
const overscrollResistanceScale = 120.0

// Phase carries trackpad gesture phase for a wheel/trackpad scroll delta.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseContact
	PhaseMomentum
	PhaseEnded
)

// Action is a user-driven scroll operation, produced by event handling and
// applied via State.Apply.
type Action struct {
	Kind ActionKind

	// ScrollBy fields.
	Delta float32
	Phase Phase

	// Drag fields (MouseY for Start/Move).
	MouseY float32
}

type ActionKind int

const (
	ActionScrollBy ActionKind = iota
	ActionDragStart
	ActionDragMove
	ActionDragEnd
)

// State is the scroll state for one scroll container: offset, bounds,
// scrollbar track geometry, and overscroll/spring-back animation state
// (spec §4.9 "ScrollState").
type State struct {
	Offset float32
	Max    float32
	Track  *layout.ScrollTrackInfo
	Bounds layout.Rect

	id       identity.SourceId
	thumbID  identity.SourceId
	grabOffset float32

	Overscroll    float32
	gestureActive bool
	Animating     bool
	springStart   time.Time
	springX0      float32
	springV0      float32
}

// New returns a scroll state bound to the given container/thumb source ids.
func New(id, thumbID identity.SourceId) *State {
	return &State{id: id, thumbID: thumbID, Max: math.MaxFloat32}
}

// ID returns the scroll container's SourceId.
func (s *State) ID() identity.SourceId { return s.id }

// ThumbID returns the scrollbar thumb's SourceId.
func (s *State) ThumbID() identity.SourceId { return s.thumbID }

// Apply dispatches action to the matching operation (call from Update).
func (s *State) Apply(a Action) {
	switch a.Kind {
	case ActionScrollBy:
		if a.Phase != PhaseNone {
			s.scrollWithPhase(a.Delta, a.Phase)
		} else {
			s.ScrollBy(a.Delta)
		}
	case ActionDragStart:
		s.StartDrag(a.MouseY)
	case ActionDragMove:
		s.DragTo(a.MouseY)
	case ActionDragEnd:
		s.EndDrag()
	}
}

// ScrollBy moves the offset by delta (positive = scroll content up),
// clamped to [0, Max].
func (s *State) ScrollBy(delta float32) {
	s.Offset = clampf(s.Offset-delta, 0, s.Max)
}

// StartDrag begins a scrollbar thumb drag at mouseY: grabbing the thumb in
// place if the click landed on it, or jumping the thumb center to the
// click point if it landed on the bare track.
func (s *State) StartDrag(mouseY float32) {
	if s.Track == nil {
		return
	}
	track := s.Track
	effectiveOffset := clampf(s.Offset, 0, s.Max)
	thumbTop := track.ThumbY(effectiveOffset, s.Max)
	thumbBottom := thumbTop + track.ThumbSize

	if mouseY >= thumbTop-grabTolerance && mouseY <= thumbBottom+grabTolerance {
		s.grabOffset = mouseY - thumbTop
	} else {
		s.grabOffset = track.ThumbSize / 2
		s.Offset = clampf(track.OffsetFromY(mouseY, s.grabOffset, s.Max), 0, s.Max)
	}
}

// DragTo continues an in-progress thumb drag to mouseY.
func (s *State) DragTo(mouseY float32) {
	if s.Track == nil {
		return
	}
	s.Offset = clampf(s.Track.OffsetFromY(mouseY, s.grabOffset, s.Max), 0, s.Max)
}

// EndDrag ends the thumb drag.
func (s *State) EndDrag() {
	s.grabOffset = 0
}

// EffectiveOffset is the offset to use for layout positioning: the base
// scroll offset plus any active overscroll displacement.
func (s *State) EffectiveOffset() float32 {
	return s.Offset + s.Overscroll
}

// ResetOverscroll clears overscroll/animation state, e.g. when snapping to
// bottom or clearing the container.
func (s *State) ResetOverscroll() {
	s.Overscroll = 0
	s.gestureActive = false
	s.Animating = false
	s.springX0 = 0
	s.springV0 = 0
}

// scrollWithPhase implements phase-aware overscroll rubber-banding (spec
// §4.9/§9): Contact gives 1:1 resisted pull, Momentum starts a spring
// bounce on boundary impact, Ended either applies a final delta or starts
// the spring from rest.
func (s *State) scrollWithPhase(delta float32, phase Phase) {
	max := s.Max
	// Re-clamp: content may have resized since the last scroll event,
	// leaving the offset beyond the new max and producing spurious
	// overscroll on the next delta.
	s.Offset = clampf(s.Offset, 0, max)

	switch phase {
	case PhaseContact:
		s.gestureActive = true
		s.Animating = false

		if math32Abs(s.Overscroll) < 15 && s.Overscroll != 0 {
			s.Overscroll = 0
		}

		if s.Overscroll != 0 {
			pullingBack := (s.Overscroll > 0 && delta > 0) || (s.Overscroll < 0 && delta < 0)
			if pullingBack {
				before := s.Overscroll
				s.Overscroll -= delta
				crossedZero := (s.Overscroll > 0) != (before > 0)
				if crossedZero {
					leftover := s.Overscroll
					s.Overscroll = 0
					s.Offset = clampf(s.Offset+leftover, 0, max)
				}
			} else {
				s.Overscroll -= applyResistance(delta, s.Overscroll, 1.0)
			}
		} else {
			s.applyContactScroll(delta, max)
		}

	case PhaseMomentum:
		s.gestureActive = true
		if s.Animating {
			s.TickSpringBack()
			return
		}

		newOffset := s.Offset - delta
		switch {
		case newOffset < 0:
			s.Offset = 0
			s.Overscroll = newOffset
			s.startSpring(s.Overscroll, clampf(-delta*20, -3000, 3000))
		case newOffset > max:
			s.Offset = max
			s.Overscroll = newOffset - max
			s.startSpring(s.Overscroll, clampf(-delta*20, -3000, 3000))
		default:
			s.Offset = newOffset
		}

	case PhaseEnded:
		if math32Abs(delta) > 0.1 && !s.Animating {
			s.Offset = clampf(s.Offset-delta, 0, max)
		}
		s.gestureActive = false
		if math32Abs(s.Overscroll) > 0.5 {
			if !s.Animating {
				s.startSpring(s.Overscroll, 0)
			}
		} else {
			s.Overscroll = 0
			s.Animating = false
		}

	case PhaseNone:
		s.ScrollBy(delta)
	}
}

// applyContactScroll handles the boundary-to-overscroll transition during a
// finger-down (Contact) drag, with factor=1.0 so there is no velocity
// discontinuity at the boundary.
func (s *State) applyContactScroll(delta, max float32) {
	newOffset := s.Offset - delta
	switch {
	case newOffset < 0:
		s.Offset = 0
		excess := -newOffset
		s.Overscroll -= applyResistance(excess, s.Overscroll, 1.0)
	case newOffset > max:
		s.Offset = max
		excess := newOffset - max
		s.Overscroll += applyResistance(excess, s.Overscroll, 1.0)
	default:
		s.Offset = newOffset
	}
}

func (s *State) startSpring(x0, v0 float32) {
	s.springX0 = x0
	s.springV0 = v0
	s.springStart = timeNow()
	s.Animating = true
}

// TickSpringBack advances the overscroll spring-back animation using the
// closed-form critically-damped solution x(t) = (C1 + C2*t) * e^(-γt),
// which by construction never overshoots zero (spec §9). Returns true if
// the animation is still running and needs another tick.
func (s *State) TickSpringBack() bool {
	if !s.Animating {
		return false
	}

	t := float32(timeNow().Sub(s.springStart).Seconds())
	c1 := s.springX0
	c2 := s.springV0 + springGamma*s.springX0

	s.Overscroll = (c1 + c2*t) * float32(math.Exp(float64(-springGamma*t)))

	if math32Abs(s.Overscroll) < 0.5 {
		s.Overscroll = 0
		if !s.gestureActive {
			s.Animating = false
		}
		return false
	}
	return true
}

// applyResistance applies rubber-band resistance with a fixed overscroll
// limit: quadratic decay factor*(1-(|overscroll|/SCALE)^2), matching the
// boundary feel of native touch scrolling.
func applyResistance(delta, currentOverscroll, factor float32) float32 {
	ratio := math32Abs(currentOverscroll) / overscrollResistanceScale
	if ratio > 1 {
		ratio = 1
	}
	coeff := factor * (1 - ratio*ratio)
	return delta * coeff
}

// SyncFromSnapshot refreshes Max/Track/Bounds from the current frame's
// layout snapshot. Call after layout in View. Bounds is always updated —
// including to zero when the container is absent from the current
// layout — so a dismissed/hidden scroll container cannot retain stale
// bounds that keep consuming wheel events.
func (s *State) SyncFromSnapshot(snapshot *layout.Snapshot) {
	if max, ok := snapshot.ScrollLimits[s.id]; ok {
		s.Max = max
	}
	if track, ok := snapshot.ScrollTracks[s.id]; ok {
		t := track
		s.Track = &t
	}
	if bounds, ok := snapshot.WidgetBounds[s.id]; ok {
		s.Bounds = bounds
	} else {
		s.Bounds = layout.Rect{}
	}
}

// Contains reports whether (x, y) falls within this container's bounds.
func (s *State) Contains(x, y float32) bool {
	return x >= float32(s.Bounds.X) && x < float32(s.Bounds.Right()) &&
		y >= float32(s.Bounds.Y) && y < float32(s.Bounds.Bottom())
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func math32Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// timeNow is a seam so tests can observe deterministic spring durations
// without sleeping; production callers get time.Now.
var timeNow = time.Now

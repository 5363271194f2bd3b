// Package events resolves raw bubbletea input messages (tea.KeyMsg,
// tea.MouseMsg) into a target SourceId, tracking keyboard focus and mouse
// capture across frames (spec "Event routing & capture" in the system
// overview's component-share table). Widgets still own their own key/mouse
// handling (pkg/input, pkg/scroll, pkg/shell); this package only decides
// which widget an event belongs to.
package events

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/selection"
)

// RoutedMouse is the resolved target and hit-test result for one mouse
// event, after capture/hit-test resolution.
type RoutedMouse struct {
	Target   identity.SourceId
	Hit      selection.Result
	Point    layout.Point
	Action   tea.MouseAction
	Button   tea.MouseButton
	Captured bool
}

// Router resolves keyboard/mouse messages to a target source, tracking
// keyboard focus and mouse capture across frames. Capture keeps every
// motion/release event routed to the source that received the original
// press, even once the pointer leaves its bounds — this is what lets a
// text selection or scrollbar drag continue smoothly across a fast mouse
// move (spec §4.7 "Nearest-content... bridges dead zones between blocks
// while dragging").
type Router struct {
	focused  identity.SourceId
	hasFocus bool

	captured   identity.SourceId
	hasCapture bool
}

// NewRouter returns a Router with no focus and no active capture.
func NewRouter() *Router {
	return &Router{}
}

// Focus sets keyboard focus to id.
func (r *Router) Focus(id identity.SourceId) {
	r.focused = id
	r.hasFocus = true
}

// ClearFocus removes keyboard focus from every source.
func (r *Router) ClearFocus() {
	r.focused = 0
	r.hasFocus = false
}

// Focused returns the focused source, or (0, false) if nothing has focus.
func (r *Router) Focused() (identity.SourceId, bool) {
	return r.focused, r.hasFocus
}

// RouteKey returns the source that should receive msg: the currently
// focused source, if any. Keyboard events always go to whichever widget
// has focus regardless of pointer position.
func (r *Router) RouteKey(_ tea.KeyMsg) (identity.SourceId, bool) {
	return r.focused, r.hasFocus
}

// RouteMouse resolves msg against widgets/snapshot, returning the target
// source. A press event runs hit-test and establishes a capture on the hit
// source (if any); every subsequent motion/release is routed to that
// captured source until release, bypassing hit-test entirely. A release
// with no active capture (e.g. a stray release with no matching press)
// falls back to a fresh hit-test.
func (r *Router) RouteMouse(msg tea.MouseMsg, widgets []selection.WidgetBounds, snapshot *layout.Snapshot, ordering *addressing.SourceOrdering) RoutedMouse {
	point := layout.Point{X: float32(msg.X), Y: float32(msg.Y)}

	if r.hasCapture && msg.Action != tea.MouseActionPress {
		target := r.captured
		if msg.Action == tea.MouseActionRelease {
			r.releaseCapture()
		}
		return RoutedMouse{Target: target, Point: point, Action: msg.Action, Button: msg.Button, Captured: true}
	}

	hit := selection.HitTest(point, widgets, snapshot, ordering)
	target := hitTarget(hit)

	switch msg.Action {
	case tea.MouseActionPress:
		r.captureOn(target)
	case tea.MouseActionRelease:
		r.releaseCapture()
	}

	return RoutedMouse{Target: target, Hit: hit, Point: point, Action: msg.Action, Button: msg.Button}
}

// Captured returns the source currently holding mouse capture, if any.
func (r *Router) Captured() (identity.SourceId, bool) {
	return r.captured, r.hasCapture
}

func (r *Router) captureOn(id identity.SourceId) {
	if id == 0 {
		return
	}
	r.captured = id
	r.hasCapture = true
}

func (r *Router) releaseCapture() {
	r.captured = 0
	r.hasCapture = false
}

func hitTarget(res selection.Result) identity.SourceId {
	switch res.Kind {
	case selection.HitWidget:
		return res.Widget
	case selection.HitContent:
		return res.Address.Source
	default:
		return 0
	}
}

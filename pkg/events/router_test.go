package events

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/selection"
)

func TestRouteKeyGoesToFocused(t *testing.T) {
	r := NewRouter()
	id := identity.NewSourceId()
	r.Focus(id)

	got, ok := r.RouteKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if !ok || got != id {
		t.Fatalf("RouteKey = (%v, %v), want (%v, true)", got, ok, id)
	}
}

func TestRouteKeyNoFocus(t *testing.T) {
	r := NewRouter()
	_, ok := r.RouteKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if ok {
		t.Fatalf("expected no focused target")
	}
}

func TestRouteMousePressEstablishesCapture(t *testing.T) {
	r := NewRouter()
	snapshot := layout.NewSnapshot()
	ordering := addressing.NewSourceOrdering()

	id := identity.NewSourceId()
	ordering.Register(id)
	bounds := layout.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	widgets := []selection.WidgetBounds{{Source: id, Bounds: bounds}}

	press := tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	routed := r.RouteMouse(press, widgets, snapshot, ordering)
	if routed.Target != id {
		t.Fatalf("press target = %v, want %v", routed.Target, id)
	}
	captured, ok := r.Captured()
	if !ok || captured != id {
		t.Fatalf("expected capture on %v, got (%v, %v)", id, captured, ok)
	}
}

func TestRouteMouseMotionStaysWithCaptureOutsideBounds(t *testing.T) {
	r := NewRouter()
	snapshot := layout.NewSnapshot()
	ordering := addressing.NewSourceOrdering()

	id := identity.NewSourceId()
	ordering.Register(id)
	bounds := layout.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	widgets := []selection.WidgetBounds{{Source: id, Bounds: bounds}}

	r.RouteMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress}, widgets, snapshot, ordering)

	// Motion far outside the original bounds should still route to the
	// captured source.
	routed := r.RouteMouse(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionMotion}, widgets, snapshot, ordering)
	if routed.Target != id || !routed.Captured {
		t.Fatalf("motion routed = %+v, want captured target %v", routed, id)
	}
}

func TestRouteMouseReleaseClearsCapture(t *testing.T) {
	r := NewRouter()
	snapshot := layout.NewSnapshot()
	ordering := addressing.NewSourceOrdering()

	id := identity.NewSourceId()
	ordering.Register(id)
	bounds := layout.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	widgets := []selection.WidgetBounds{{Source: id, Bounds: bounds}}

	r.RouteMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress}, widgets, snapshot, ordering)
	r.RouteMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease}, widgets, snapshot, ordering)

	if _, ok := r.Captured(); ok {
		t.Fatalf("expected capture cleared after release")
	}
}

func TestRouteMouseNoHitLeavesTargetZero(t *testing.T) {
	r := NewRouter()
	snapshot := layout.NewSnapshot()
	ordering := addressing.NewSourceOrdering()

	routed := r.RouteMouse(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionPress}, nil, snapshot, ordering)
	if routed.Target != 0 {
		t.Fatalf("expected no target, got %v", routed.Target)
	}
	if _, ok := r.Captured(); ok {
		t.Fatalf("expected no capture established on a miss")
	}
}

package scroll

import (
	"math"
	"testing"
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
)

func TestNewDefaults(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	if s.Offset != 0 {
		t.Fatalf("offset = %v, want 0", s.Offset)
	}
	if s.Max != math.MaxFloat32 {
		t.Fatalf("max = %v, want MaxFloat32", s.Max)
	}
}

func TestScrollByClamps(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	s.Max = 100

	s.ScrollBy(-50)
	if s.Offset != 50 {
		t.Fatalf("offset = %v, want 50", s.Offset)
	}
	s.ScrollBy(-200)
	if s.Offset != 100 {
		t.Fatalf("offset = %v, want 100 (clamped)", s.Offset)
	}
	s.ScrollBy(300)
	if s.Offset != 0 {
		t.Fatalf("offset = %v, want 0 (clamped)", s.Offset)
	}
}

func TestEndDragResetsGrab(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	s.grabOffset = 42
	s.EndDrag()
	if s.grabOffset != 0 {
		t.Fatalf("grabOffset = %v, want 0", s.grabOffset)
	}
}

func TestApplyScrollBy(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	s.Max = 100
	s.Apply(Action{Kind: ActionScrollBy, Delta: -30, Phase: PhaseNone})
	if s.Offset != 30 {
		t.Fatalf("offset = %v, want 30", s.Offset)
	}
}

func TestContainsUsesBounds(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	s.Bounds.X, s.Bounds.Y, s.Bounds.Width, s.Bounds.Height = 0, 0, 100, 100

	if !s.Contains(50, 50) {
		t.Fatalf("expected (50,50) contained")
	}
	if s.Contains(150, 50) {
		t.Fatalf("expected (150,50) not contained")
	}
}

func TestMomentumBoundaryStartsSpring(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	s.Max = 100
	s.Offset = 5

	s.Apply(Action{Kind: ActionScrollBy, Delta: 50, Phase: PhaseMomentum})

	if s.Offset != 0 {
		t.Fatalf("offset = %v, want 0 (pinned at top boundary)", s.Offset)
	}
	if !s.Animating {
		t.Fatalf("expected spring animation to start on boundary impact")
	}
	if s.Overscroll >= 0 {
		t.Fatalf("overscroll = %v, want negative (past top)", s.Overscroll)
	}
}

func TestSpringBackConvergesToZero(t *testing.T) {
	s := New(identity.NewSourceId(), identity.NewSourceId())
	base := time.Unix(0, 0)
	timeNow = func() time.Time { return base }
	defer func() { timeNow = time.Now }()

	s.startSpring(-40, -500)

	// Advance simulated time past settle and tick.
	timeNow = func() time.Time { return base.Add(2 * time.Second) }
	still := s.TickSpringBack()

	if still {
		t.Fatalf("expected spring to have settled after 2s at gamma=12")
	}
	if s.Overscroll != 0 {
		t.Fatalf("overscroll = %v, want 0 after settle", s.Overscroll)
	}
	if s.Animating {
		t.Fatalf("expected Animating cleared after settle with no active gesture")
	}
}

func TestContactOverscrollResistanceDecaysWithDistance(t *testing.T) {
	near := applyResistance(10, 0, 1.0)
	far := applyResistance(10, 110, 1.0)
	if far >= near {
		t.Fatalf("resistance should decay as overscroll grows: near=%v far=%v", near, far)
	}
}

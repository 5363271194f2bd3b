package agent

import (
	"testing"
	"time"
)

func TestStartBlockMakesActive(t *testing.T) {
	m := NewManager()
	b := m.StartBlock(1, "list files", time.Unix(0, 0))
	if m.Active == nil || *m.Active != 1 {
		t.Fatalf("expected block 1 active")
	}
	if m.Block(1) != b {
		t.Fatalf("expected Block(1) to return the started block")
	}
}

func TestDispatchAppliesEventToBlock(t *testing.T) {
	m := NewManager()
	m.StartBlock(1, "q", time.Unix(0, 0))
	m.Dispatch(1, Event{Kind: EventResponseText, Text: "hi"}, func() time.Time { return time.Unix(1, 0) })

	if m.Block(1).Response != "hi" {
		t.Fatalf("response = %q, want hi", m.Block(1).Response)
	}
	if !m.NeedsRedraw() {
		t.Fatalf("expected dirty flag set after dispatch")
	}
	m.ClearRedraw()
	if m.NeedsRedraw() {
		t.Fatalf("expected dirty flag cleared")
	}
}

func TestInterruptSetsCancelFlag(t *testing.T) {
	m := NewManager()
	m.StartBlock(1, "q", time.Unix(0, 0))
	if m.CancelRequested() {
		t.Fatalf("expected no cancel requested initially")
	}
	m.Interrupt()
	if !m.CancelRequested() {
		t.Fatalf("expected cancel requested after Interrupt")
	}
}

func TestPermissionGrantClearsPending(t *testing.T) {
	m := NewManager()
	b := m.StartBlock(1, "q", time.Unix(0, 0))
	b.RequestPermission(PermissionRequest{ID: "p:t1", ToolID: "t1"})

	m.PermissionGrant(1, "p:t1")

	if b.PendingPermission != nil {
		t.Fatalf("expected permission cleared")
	}
	if b.State != StateExecuting {
		t.Fatalf("state = %v, want Executing", b.State)
	}
}

func TestPermissionDenyFailsBlock(t *testing.T) {
	m := NewManager()
	b := m.StartBlock(1, "q", time.Unix(0, 0))
	b.RequestPermission(PermissionRequest{ID: "p:t1", ToolID: "t1"})

	m.PermissionDeny(1, "p:t1", time.Unix(1, 0))

	if b.State != StateFailed || b.FailedMsg != "Permission denied" {
		t.Fatalf("state=%v msg=%q, want Failed/Permission denied", b.State, b.FailedMsg)
	}
}

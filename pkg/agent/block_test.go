package agent

import (
	"testing"
	"time"
)

func TestAppendResponseSetsStreaming(t *testing.T) {
	b := NewBlock(1, "do a thing", time.Unix(0, 0))
	b.AppendResponse("hello")
	if b.Response != "hello" || b.State != StateStreaming {
		t.Fatalf("response=%q state=%v, want hello/Streaming", b.Response, b.State)
	}
	if b.Version != 1 {
		t.Fatalf("version = %d, want 1", b.Version)
	}
}

func TestToolParameterAccumulatesByName(t *testing.T) {
	b := NewBlock(1, "q", time.Unix(0, 0))
	b.StartTool("t1", "read_file")
	b.AddToolParameter("t1", "path", "/ho")
	b.AddToolParameter("t1", "path", "me/x")
	if got := b.Tools[0].Parameters["path"]; got != "/home/x" {
		t.Fatalf("path param = %q, want /home/x", got)
	}
}

func TestToolStatusSuccessAutoCollapses(t *testing.T) {
	b := NewBlock(1, "q", time.Unix(0, 0))
	b.StartTool("t1", "read_file")
	b.Tools[0].Collapsed = false
	b.UpdateToolStatus("t1", ToolSuccess, "", "file contents", true)
	if !b.Tools[0].Collapsed {
		t.Fatalf("expected tool collapsed on success")
	}
	if b.ActiveToolID != "" {
		t.Fatalf("expected active tool cleared")
	}
}

func TestToolStatusErrorForceExpands(t *testing.T) {
	b := NewBlock(1, "q", time.Unix(0, 0))
	b.StartTool("t1", "read_file")
	b.Tools[0].Collapsed = true
	b.UpdateToolStatus("t1", ToolError, "not found", "", false)
	if b.Tools[0].Collapsed {
		t.Fatalf("expected tool expanded on error")
	}
}

func TestCompleteSetsDuration(t *testing.T) {
	start := time.Unix(0, 0)
	b := NewBlock(1, "q", start)
	b.Complete(start.Add(1500 * time.Millisecond))
	if b.State != StateCompleted {
		t.Fatalf("state = %v, want Completed", b.State)
	}
	if b.DurationMS == nil || *b.DurationMS != 1500 {
		t.Fatalf("duration = %v, want 1500", b.DurationMS)
	}
}

func TestIsRunningTransitions(t *testing.T) {
	b := NewBlock(1, "q", time.Unix(0, 0))
	if !b.IsRunning() {
		t.Fatalf("expected Pending to be running")
	}
	b.Complete(time.Unix(1, 0))
	if b.IsRunning() {
		t.Fatalf("expected Completed to not be running")
	}
}

func TestFooterTextFormatsCostAndTokens(t *testing.T) {
	b := NewBlock(1, "q", time.Unix(0, 0))
	b.Complete(time.Unix(0, 0).Add(250 * time.Millisecond))
	cost := 0.0123
	in, out := uint64(500), uint64(1500)
	b.CostUSD = &cost
	b.InputTokens = &in
	b.OutputTokens = &out

	footer := b.FooterText()
	want := "Completed | 250ms | $0.0123 | 2.0k tokens"
	if footer != want {
		t.Fatalf("footer = %q, want %q", footer, want)
	}
}

func TestStaleAlwaysTrueWhileRunning(t *testing.T) {
	a := NewBlock(1, "q", time.Unix(0, 0))
	b := NewBlock(1, "q", time.Unix(0, 0))
	if !a.Stale(b) {
		t.Fatalf("expected Stale true while running regardless of version")
	}
	a.Complete(time.Unix(1, 0))
	b.Complete(time.Unix(1, 0))
	a.Version, b.Version = 3, 3
	if a.Stale(b) {
		t.Fatalf("expected Stale false once settled with equal versions")
	}
}

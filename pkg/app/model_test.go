package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/config"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/shell"
)

func newTestModel() *AppModel {
	return NewAppModel(config.DefaultConfig(), "/tmp", map[string]string{"PATH": "/usr/bin"})
}

func TestNewAppModelFocusesCommandInput(t *testing.T) {
	m := newTestModel()
	focused, ok := m.router.Focused()
	if !ok || focused != m.commandInput.ID() {
		t.Fatalf("Focused() = (%v, %v), want command input focused", focused, ok)
	}
	if !m.commandInput.Focused {
		t.Fatal("commandInput.Focused = false, want true")
	}
}

func TestCycleFocusTogglesBetweenInputs(t *testing.T) {
	m := newTestModel()

	m.cycleFocus()
	focused, ok := m.router.Focused()
	if !ok || focused != m.agentMgr.QuestionInput.ID() {
		t.Fatalf("after one cycle, focused = (%v, %v), want question input", focused, ok)
	}
	if m.commandInput.Focused {
		t.Fatal("commandInput.Focused = true after cycling away, want false")
	}
	if !m.agentMgr.QuestionInput.Focused {
		t.Fatal("QuestionInput.Focused = false, want true")
	}

	m.cycleFocus()
	focused, ok = m.router.Focused()
	if !ok || focused != m.commandInput.ID() {
		t.Fatalf("after second cycle, focused = (%v, %v), want command input", focused, ok)
	}
}

func TestHandleKeyTabCyclesFocusWithoutRouting(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd != nil {
		t.Fatal("Tab should not produce a Cmd")
	}
	focused, ok := m.router.Focused()
	if !ok || focused != m.agentMgr.QuestionInput.ID() {
		t.Fatalf("Tab did not move focus to question input, got (%v, %v)", focused, ok)
	}
}

func TestHandleKeyRunesGoToFocusedCommandInput(t *testing.T) {
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l', 's'}})
	if m.commandInput.Text != "ls" {
		t.Fatalf("commandInput.Text = %q, want %q", m.commandInput.Text, "ls")
	}
}

func TestHandleKeyEnterExecutesCommand(t *testing.T) {
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p', 'w', 'd'}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.commandInput.Text != "" {
		t.Fatalf("commandInput.Text = %q after submit, want empty", m.commandInput.Text)
	}
	if len(m.shellWidget.Blocks()) != 1 {
		t.Fatalf("len(Blocks()) = %d, want 1", len(m.shellWidget.Blocks()))
	}
}

func TestHandleKeyCtrlCQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting {
		t.Fatal("quitting = false, want true after ctrl-c")
	}
	if cmd == nil {
		t.Fatal("expected a tea.Cmd (tea.Quit) after ctrl-c")
	}
}

func TestWindowSizeMsgUpdatesDimensions(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.Width() != 120 || m.Height() != 40 {
		t.Fatalf("Width/Height = %d/%d, want 120/40", m.Width(), m.Height())
	}
}

func TestHandleShellEventCwdChanged(t *testing.T) {
	m := newTestModel()
	m.handleShellEvent(shell.Event{Kind: shell.EventCwdChanged, NewCwd: "/var/tmp"})
	if m.cwd != "/var/tmp" {
		t.Fatalf("cwd = %q, want /var/tmp", m.cwd)
	}
}

func TestHandleMouseWheelScrollsHistory(t *testing.T) {
	m := newTestModel()
	m.history.Max = 100
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if m.history.Offset == 0 {
		t.Fatal("history.Offset unchanged after wheel-up")
	}
}

func TestViewEmptyBeforeWindowSize(t *testing.T) {
	m := newTestModel()
	if got := m.View(); got != "" {
		t.Fatalf("View() before WindowSizeMsg = %q, want empty", got)
	}
}

func TestViewRendersAfterWindowSize(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if got := m.View(); got == "" {
		t.Fatal("View() after WindowSizeMsg is empty, want rendered frame")
	}
}

func TestViewEmptyWhileQuitting(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.quitting = true
	if got := m.View(); got != "" {
		t.Fatalf("View() while quitting = %q, want empty", got)
	}
}

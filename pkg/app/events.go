// Package app wires the shell widget, agent manager, and input/scroll state
// into the root Elm-architecture model bubbletea drives.
//
// This package is designed against bubbletea v1.3.x but architected so that
// migrating to v2 requires only import-path changes and minor API
// adjustments.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/agent"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/shell"
)

// tickMsg drives the periodic redraw / scroll spring-back cycle.
type tickMsg struct {
	Time time.Time
}

// shellEventMsg carries one event off the shell widget's event bus into
// Update.
type shellEventMsg struct {
	ev shell.Event
	ok bool
}

// agentEventMsg carries one event off the agent manager's event channel
// into Update.
type agentEventMsg struct {
	ev agent.Event
	ok bool
}

// tickCmd returns a Cmd that sends a tickMsg after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg{Time: t}
	})
}

// waitShellEvent blocks on the shell widget's event channel and wraps the
// next event (or its closure) as a message. Update re-issues this command
// after every delivery, so the UI drains the channel one event per frame
// rather than batching.
func waitShellEvent(w *shell.Widget) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-w.Events()
		return shellEventMsg{ev: ev, ok: ok}
	}
}

// waitAgentEvent is waitShellEvent's counterpart for the agent manager.
func waitAgentEvent(m *agent.Manager) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.Events()
		return agentEventMsg{ev: ev, ok: ok}
	}
}

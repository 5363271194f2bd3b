package app

import "github.com/Deep-ai-inc/nexus-sub000/pkg/identity"

// cycleFocus toggles keyboard focus between the command input and the
// agent's question input, the two text-entry surfaces Nexus exposes this
// pass. Blocks themselves are not yet focus targets (see DESIGN.md).
func (m *AppModel) cycleFocus() {
	cmdID := m.commandInput.ID()
	questionID := m.agentMgr.QuestionInput.ID()

	focused, ok := m.router.Focused()
	if !ok || focused != cmdID {
		m.focusOn(cmdID)
		return
	}
	_ = questionID
	m.focusOn(questionID)
}

func (m *AppModel) focusOn(id identity.SourceId) {
	if id == m.commandInput.ID() {
		m.commandInput.Focus()
		m.agentMgr.QuestionInput.Blur()
	} else {
		m.agentMgr.QuestionInput.Focus()
		m.commandInput.Blur()
	}
	m.router.Focus(id)
}

package agent

import (
	"sync/atomic"
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/input"
)

// Manager owns every agent block for the session, the permission server,
// and the interrupt flag, mirroring
// original_source/nexus-ui/src/features/agent/mod.rs's AgentWidget.
type Manager struct {
	Blocks      []*Block
	blockIndex  map[identity.BlockId]int
	Active      *identity.BlockId
	Cwd         string

	cancelFlag atomic.Bool

	permSrv    *PermissionServer
	events     chan Event

	// QuestionInput is the free-form text input used to answer an
	// AskUserQuestion prompt that has no matching preset option.
	QuestionInput *input.State

	dirty bool
}

// NewManager creates an agent manager with no active session. The
// permission server is started lazily on first spawn (EnsurePermissionServer).
func NewManager() *Manager {
	return &Manager{
		blockIndex:    make(map[identity.BlockId]int),
		events:        make(chan Event, 64),
		QuestionInput: input.SingleLine("agent-question-input"),
	}
}

// NeedsRedraw reports whether agent-driven state changed since the last
// render tick.
func (m *Manager) NeedsRedraw() bool { return m.dirty }

// ClearRedraw resets the dirty flag after a render.
func (m *Manager) ClearRedraw() { m.dirty = false }

// EnsurePermissionServer starts the TCP permission server once, reusing
// it across agent spawns (spec §4.8 "bound once on localhost").
func (m *Manager) EnsurePermissionServer() (port int, err error) {
	if m.permSrv != nil {
		return m.permSrv.Port(), nil
	}
	srv, err := NewPermissionServer(m.events)
	if err != nil {
		return 0, err
	}
	m.permSrv = srv
	go srv.Serve() //nolint:errcheck // accept-loop error only on Close, which is deliberate shutdown
	return srv.Port(), nil
}

// Events returns the channel agent.Event values (including permission
// requests translated from the TCP server) arrive on. The UI thread
// drains this once per frame, same as the shell/PTY channels.
func (m *Manager) Events() <-chan Event { return m.events }

// StartBlock begins a new agent turn for query, making it the active
// block.
func (m *Manager) StartBlock(id identity.BlockId, query string, now time.Time) *Block {
	b := NewBlock(id, query, now)
	m.blockIndex[id] = len(m.Blocks)
	m.Blocks = append(m.Blocks, b)
	m.Active = &id
	m.cancelFlag.Store(false)
	m.dirty = true
	return b
}

// Block returns the block with the given id, or nil.
func (m *Manager) Block(id identity.BlockId) *Block {
	if i, ok := m.blockIndex[id]; ok {
		return m.Blocks[i]
	}
	return nil
}

// Dispatch applies an incoming agent.Event to the block with the given id;
// every event kind is routed the same way, and an event for an unknown id
// is dropped.
func (m *Manager) Dispatch(id identity.BlockId, ev Event, now NowFunc) {
	b := m.Block(id)
	if b == nil {
		return
	}
	b.Apply(ev, now)
	m.dirty = true
}

// Interrupt raises the shared cancel flag; the session worker observes it
// and terminates cleanly, emitting a final Interrupted event (spec §5
// "Agent interruption is a shared atomic cancel_flag").
func (m *Manager) Interrupt() {
	m.cancelFlag.Store(true)
}

// CancelRequested reports whether Interrupt has been called for the
// current session. The worker goroutine polls this at safe points.
func (m *Manager) CancelRequested() bool {
	return m.cancelFlag.Load()
}

// PermissionGrant answers a pending permission request with Allow and
// clears it from the block.
func (m *Manager) PermissionGrant(blockID identity.BlockId, permID string) {
	if b := m.Block(blockID); b != nil {
		b.ClearPermission()
		m.dirty = true
	}
	if m.permSrv != nil {
		m.permSrv.Respond(permID, Decision{Kind: DecisionAllow})
	}
}

// PermissionDeny answers a pending permission request with Deny, clears
// it, and fails the block.
func (m *Manager) PermissionDeny(blockID identity.BlockId, permID string, now time.Time) {
	if b := m.Block(blockID); b != nil {
		b.ClearPermission()
		b.Fail(now, "Permission denied")
		m.dirty = true
	}
	if m.permSrv != nil {
		m.permSrv.Respond(permID, Decision{Kind: DecisionDeny})
	}
}

// AnswerQuestion sends a free-form or preset answer back through the
// permission channel and clears the pending question from the block.
func (m *Manager) AnswerQuestion(blockID identity.BlockId, toolUseID string, answers map[string]string) {
	if b := m.Block(blockID); b != nil {
		b.PendingQuestion = nil
		b.Version++
		m.dirty = true
	}
	if m.permSrv != nil {
		m.permSrv.RespondToQuestion(toolUseID, answers)
	}
}

// Close shuts down the permission server, if running.
func (m *Manager) Close() error {
	if m.permSrv != nil {
		return m.permSrv.Close()
	}
	return nil
}

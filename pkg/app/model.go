package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/agent"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/command/builtin"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/config"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/events"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	nximage "github.com/Deep-ai-inc/nexus-sub000/pkg/image"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/input"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/pipeline"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/scroll"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/selection"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/shell"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/terminal"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/theme"
)

// AppModel is Nexus's root bubbletea model: it owns the shell widget, the
// agent manager, the two text inputs (command line and agent question
// answer), the history scrollbar, and the event router that arbitrates
// which of those owns the next key or mouse event.
type AppModel struct {
	cfg   *config.Config
	theme theme.Theme

	registry    *command.Registry
	shellWidget *shell.Widget
	agentMgr    *agent.Manager

	commandInput *input.State
	history      *scroll.State

	router *events.Router

	// pipe rasterizes each frame's layout.Snapshot into a pipeline.Grid
	// (the cell-grid adaptation of the GPU ubershader pipeline). images
	// backs the snapshot's image primitives through the real terminal
	// capability/protocol stack.
	pipe   *pipeline.Pipeline
	images *nximage.Renderer

	// snapshot, ordering, and widgets are retained from the previous
	// View() call so the following Update(tea.MouseMsg) can hit-test
	// against what was actually drawn (bubbletea's loop always runs
	// Update before the View it reacts to).
	snapshot       *layout.Snapshot
	ordering       *addressing.SourceOrdering
	widgets        []selection.WidgetBounds
	agentBlockByID map[identity.SourceId]identity.BlockId

	historySourceID identity.SourceId
	agentSourceID   identity.SourceId

	width, height int
	cwd           string
	quitting      bool
}

// NewAppModel builds the root model from a loaded config and working
// directory. The shell widget and agent manager are constructed here so
// cmd/nexus/main.go only has to deal with config loading and the
// bubbletea program itself.
func NewAppModel(cfg *config.Config, cwd string, env map[string]string) *AppModel {
	reg := command.NewRegistry()
	_ = builtin.RegisterAll(reg)

	sw := shell.New(reg, cwd, env)
	am := agent.NewManager()

	cmdInput := input.SingleLine("command-input")
	historyScroll := scroll.New(identity.NamedSourceId("history-scroll"), identity.NamedSourceId("history-scroll-thumb"))

	caps := *terminal.DetectCapabilities()
	renderer := nximage.NewRenderer(caps, cfg.Image)
	atlas := pipeline.NewImageAtlas(renderer)

	m := &AppModel{
		cfg:             cfg,
		theme:           theme.Get(cfg.Theme.Name),
		registry:        reg,
		shellWidget:     sw,
		agentMgr:        am,
		commandInput:    cmdInput,
		history:         historyScroll,
		router:          events.NewRouter(),
		pipe:            pipeline.New(atlas),
		images:          renderer,
		ordering:        addressing.NewSourceOrdering(),
		agentBlockByID:  make(map[identity.SourceId]identity.BlockId),
		historySourceID: identity.NamedSourceId("history-pane"),
		agentSourceID:   identity.NamedSourceId("agent-pane"),
		cwd:             cwd,
	}
	m.focusOn(cmdInput.ID())
	return m
}

// Width reports the last known terminal width.
func (m *AppModel) Width() int { return m.width }

// Height reports the last known terminal height.
func (m *AppModel) Height() int { return m.height }

// Init starts the redraw tick and begins draining the shell/agent event
// channels.
func (m *AppModel) Init() tea.Cmd {
	interval := m.cfg.General.TickEvery.Duration
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Batch(
		tickCmd(interval),
		waitShellEvent(m.shellWidget),
		waitAgentEvent(m.agentMgr),
	)
}

// Update implements tea.Model.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := m.height
		if rows > 1 {
			rows--
		}
		m.shellWidget.SyncTerminalSize(rows, m.width, time.Now())
		return m, nil

	case tickMsg:
		m.history.TickSpringBack()
		interval := m.cfg.General.TickEvery.Duration
		if interval <= 0 {
			interval = time.Second
		}
		return m, tickCmd(interval)

	case shellEventMsg:
		if !msg.ok {
			return m, nil
		}
		m.handleShellEvent(msg.ev)
		return m, waitShellEvent(m.shellWidget)

	case agentEventMsg:
		if !msg.ok {
			return m, nil
		}
		m.handleAgentEvent(msg.ev)
		return m, waitAgentEvent(m.agentMgr)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *AppModel) handleShellEvent(ev shell.Event) {
	switch ev.Kind {
	case shell.EventCwdChanged:
		m.cwd = ev.NewCwd
	case shell.EventCommandFinished:
		m.history.ScrollBy(1 << 20) // snap to bottom on completion
	}
}

func (m *AppModel) handleAgentEvent(ev agent.Event) {
	active := m.agentMgr.Active
	if active == nil {
		return
	}
	m.agentMgr.Dispatch(*active, ev, time.Now)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab:
		m.cycleFocus()
		return m, nil
	}

	target, _ := m.router.RouteKey(msg)
	switch target {
	case m.commandInput.ID():
		res := m.commandInput.HandleKey(msg)
		if res.Action == input.ActionSubmit && res.Text != "" {
			m.shellWidget.Execute(res.Text, m.cwd)
			m.history.ScrollBy(1 << 20)
		}
	case m.agentMgr.QuestionInput.ID():
		res := m.agentMgr.QuestionInput.HandleKey(msg)
		if res.Action == input.ActionSubmit && res.Text != "" {
			m.submitAgentAnswer(res.Text)
		}
	}
	return m, nil
}

func (m *AppModel) submitAgentAnswer(text string) {
	active := m.agentMgr.Active
	if active == nil {
		return
	}
	b := m.agentMgr.Block(*active)
	if b == nil || b.PendingQuestion == nil {
		return
	}
	m.agentMgr.AnswerQuestion(*active, b.PendingQuestion.ToolUseID, map[string]string{"answer": text})
}

func (m *AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.history.ScrollBy(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.history.ScrollBy(3)
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.handleClick(layout.Point{X: float32(msg.X), Y: float32(msg.Y)})
	}
	return m, nil
}

// handleClick hit-tests pt against the previous frame's retained snapshot
// (selection §4.7's three-tier priority), focusing whichever text input was
// clicked or making a clicked agent block the active one.
func (m *AppModel) handleClick(pt layout.Point) {
	if m.snapshot == nil || m.ordering == nil {
		return
	}
	res := selection.HitTest(pt, m.widgets, m.snapshot, m.ordering)
	switch res.Kind {
	case selection.HitWidget:
		m.focusOn(res.Widget)
	case selection.HitContent:
		if blockID, ok := m.agentBlockByID[res.Address.Source]; ok {
			m.agentMgr.Active = &blockID
		}
	}
}

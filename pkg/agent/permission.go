package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// permissionRequestWire is the line-delimited JSON request shape sent by
// the spawned agent process (spec §6.5).
type permissionRequestWire struct {
	Kind        string `json:"kind"` // "permission" | "ask_user_question"
	Tool        string `json:"tool,omitempty"`
	ToolID      string `json:"tool_id,omitempty"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
	WorkingDir  string `json:"working_dir,omitempty"`

	ToolUseID string               `json:"tool_use_id,omitempty"`
	Questions []permissionQuestion `json:"questions,omitempty"`
}

type permissionQuestion struct {
	Header  string   `json:"header"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// permissionResponseWire is the line-delimited JSON response sent back to
// the agent process (spec §6.5).
type permissionResponseWire struct {
	Decision string            `json:"decision"` // "allow" | "deny" | "answer"
	Answers  map[string]string `json:"answers,omitempty"`
}

// DecisionKind discriminates a permission Decision sent back over the
// channel.
type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionDeny
	DecisionAnswer
)

// Decision is a permission channel response, queued by the UI thread and
// consumed by the connection's writer goroutine.
type Decision struct {
	Kind    DecisionKind
	Answers map[string]string // only for DecisionAnswer
}

// PermissionServer is a TCP server bound once on localhost (ephemeral
// port), reused across agent spawns, translating line-delimited JSON
// requests into agent.Event values and decisions back into line-delimited
// JSON responses (spec §4.8 "TCP permission server", §6.5 wire format).
type PermissionServer struct {
	listener net.Listener

	mu      sync.Mutex
	pending map[string]chan Decision // request id -> waiting decision channel

	events chan Event
}

// NewPermissionServer binds a TCP listener on 127.0.0.1:0 (OS-assigned
// ephemeral port) and returns a server ready to Serve. events receives a
// translated agent.Event for every inbound request; the caller drains it
// on the UI thread the same way PTY/shell events are drained each frame.
func NewPermissionServer(events chan Event) (*PermissionServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("permission server: bind: %w", err)
	}
	return &PermissionServer{
		listener: ln,
		pending:  make(map[string]chan Decision),
		events:   events,
	}, nil
}

// Port returns the ephemeral port the server is listening on, to be
// passed to the spawned agent process.
func (s *PermissionServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve accepts connections until the listener is closed. Run this in its
// own goroutine (spec §5 "a dedicated background thread" equivalent —
// here, a goroutine draining its own accept loop, UI-side events
// delivered back through the channel each frame rather than blocking the
// UI thread).
func (s *PermissionServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close shuts down the listener, unblocking Serve.
func (s *PermissionServer) Close() error {
	return s.listener.Close()
}

func (s *PermissionServer) handleConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req permissionRequestWire
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		decisionCh := make(chan Decision, 1)
		reqID := requestID(req)
		s.mu.Lock()
		s.pending[reqID] = decisionCh
		s.mu.Unlock()

		s.events <- toEvent(req, reqID)

		decision := <-decisionCh
		s.mu.Lock()
		delete(s.pending, reqID)
		s.mu.Unlock()

		resp := toWireResponse(decision)
		data, err := json.Marshal(resp)
		if err != nil {
			continue
		}
		data = append(data, '\n')
		if _, err := conn.Write(data); err != nil {
			return
		}
	}
}

// requestID derives a stable key to correlate a request with its decision.
// The permission path is keyed by tool_id; the question path by
// tool_use_id.
func requestID(req permissionRequestWire) string {
	if req.Kind == "ask_user_question" {
		return "q:" + req.ToolUseID
	}
	return "p:" + req.ToolID
}

func toEvent(req permissionRequestWire, reqID string) Event {
	if req.Kind == "ask_user_question" {
		questions := make([]UserQuestion, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, UserQuestion{Header: q.Header, Text: q.Text, Options: q.Options})
		}
		return Event{
			Kind:              EventUserQuestionRequested,
			QuestionToolUseID: req.ToolUseID,
			Questions:         questions,
		}
	}
	return Event{
		Kind: EventPermissionRequested,
		Permission: &PermissionRequest{
			ID:          reqID,
			ToolName:    req.Tool,
			ToolID:      req.ToolID,
			Description: req.Description,
			Action:      req.Action,
			WorkingDir:  req.WorkingDir,
		},
	}
}

func toWireResponse(d Decision) permissionResponseWire {
	switch d.Kind {
	case DecisionDeny:
		return permissionResponseWire{Decision: "deny"}
	case DecisionAnswer:
		return permissionResponseWire{Decision: "answer", Answers: d.Answers}
	default:
		return permissionResponseWire{Decision: "allow"}
	}
}

// Respond delivers a decision for the given request id (the
// PermissionRequest.ID for permission prompts, or "q:"+ToolUseID for
// question prompts) back to the waiting connection handler. Returns false
// if no request with that id is pending (e.g. already answered or the
// connection closed).
func (s *PermissionServer) Respond(requestID string, d Decision) bool {
	s.mu.Lock()
	ch, ok := s.pending[requestID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	ch <- d
	return true
}

// RespondToQuestion is a convenience wrapper for Respond keyed by
// ToolUseID, matching how PendingUserQuestion identifies its request.
func (s *PermissionServer) RespondToQuestion(toolUseID string, answers map[string]string) bool {
	return s.Respond("q:"+toolUseID, Decision{Kind: DecisionAnswer, Answers: answers})
}

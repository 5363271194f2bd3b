// Package agent implements AgentBlock, the agent conversation turn state
// machine (spec §3 "AgentBlock", §4.8 "Agent widget"), and the permission
// TCP channel (spec §6.5) that lets a spawned coding-agent process ask the
// UI for tool-use permission. Ported from
// original_source/nexus-ui/src/data/agent_block.rs and
// features/agent/mod.rs.
package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
)

// ToolStatus is the lifecycle state of one tool invocation.
type ToolStatus int

const (
	ToolPending ToolStatus = iota
	ToolRunning
	ToolSuccess
	ToolError
)

// ToolInvocation is a single tool call within an agent turn. Parameters
// accumulate by name across streamed chunks (spec "Tool-call parameter
// streaming").
type ToolInvocation struct {
	ID         string
	Name       string
	Parameters map[string]string
	Output     string
	HasOutput  bool
	Status     ToolStatus
	Message    string
	Collapsed  bool
}

func newToolInvocation(id, name string) *ToolInvocation {
	return &ToolInvocation{ID: id, Name: name, Parameters: map[string]string{}}
}

// State is the AgentBlock lifecycle state (spec §3 "AgentBlock.state").
type State int

const (
	StatePending State = iota
	StateStreaming
	StateThinking
	StateExecuting
	StateCompleted
	StateFailed
	StateAwaitingPermission
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Waiting..."
	case StateStreaming:
		return "Streaming..."
	case StateThinking:
		return "Thinking..."
	case StateExecuting:
		return "Executing..."
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateAwaitingPermission:
		return "Awaiting permission..."
	case StateInterrupted:
		return "Interrupted"
	}
	return "Unknown"
}

// PermissionRequest is a pending permission prompt surfaced by the agent
// process over the TCP permission channel (spec §6.5).
type PermissionRequest struct {
	ID          string
	ToolName    string
	ToolID      string
	Description string
	Action      string
	WorkingDir  string
}

// UserQuestion is one question posed by the AskUserQuestion tool.
type UserQuestion struct {
	Header  string
	Text    string
	Options []string
}

// PendingUserQuestion is a pending question installed on the last block
// (arrives after Finished per spec §4.8).
type PendingUserQuestion struct {
	ToolUseID string
	Questions []UserQuestion
}

// Image is inline image content attached to a response.
type Image struct {
	MediaType string
	Data      string // base64-encoded
}

// Block is one agent conversation turn: query, streaming thinking/response
// text, tool invocations, and terminal state (spec §3 "AgentBlock").
type Block struct {
	ID    identity.BlockId
	Query string

	SessionID string // populated by SessionStarted; empty until then

	Thinking string
	Response string

	Tools       []*ToolInvocation
	ActiveToolID string

	Images []Image

	State     State
	FailedMsg string

	StartedAt  time.Time
	DurationMS *int64

	PendingPermission *PermissionRequest
	PendingQuestion   *PendingUserQuestion

	ThinkingCollapsed bool

	CostUSD      *float64
	InputTokens  *uint64
	OutputTokens *uint64

	Version uint64
}

// NewBlock creates a new agent block for a query; SessionID is left empty.
// started_at comes from the caller-supplied clock (mirrors the original's
// Instant::now()-based started_at while keeping this package free of
// direct time.Now() calls on the hot path — callers typically pass
// time.Now()).
func NewBlock(id identity.BlockId, query string, startedAt time.Time) *Block {
	return &Block{
		ID:        id,
		Query:     query,
		Tools:     nil,
		State:     StatePending,
		StartedAt: startedAt,
	}
}

// NewSessionID returns a fresh session id for SessionStarted, grounded on
// the teacher's use of google/uuid for any externally-visible id (the
// teacher's pkg/block doesn't need one, but the spec calls out SessionID
// as a UUID-shaped handle since it crosses a process boundary to the
// spawned agent CLI).
func NewSessionID() string {
	return uuid.NewString()
}

func (b *Block) findTool(id string) *ToolInvocation {
	for _, t := range b.Tools {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AppendResponse appends streamed response text.
func (b *Block) AppendResponse(text string) {
	b.Response += text
	b.State = StateStreaming
	b.Version++
}

// AppendThinking appends streamed thinking/reasoning text.
func (b *Block) AppendThinking(text string) {
	b.Thinking += text
	b.State = StateThinking
	b.Version++
}

// StartTool begins a new tool invocation and marks it active.
func (b *Block) StartTool(id, name string) {
	b.Tools = append(b.Tools, newToolInvocation(id, name))
	b.ActiveToolID = id
	b.State = StateExecuting
	b.Version++
}

// AddToolParameter accumulates a parameter chunk by name (streaming sends
// chunks, so repeated names for the same tool append rather than replace).
func (b *Block) AddToolParameter(toolID, name, value string) {
	t := b.findTool(toolID)
	if t == nil {
		return
	}
	t.Parameters[name] += value
	b.Version++
}

// UpdateToolStatus updates a tool's status/message/output. Success
// auto-collapses the tool's UI; Error forces it expanded.
func (b *Block) UpdateToolStatus(toolID string, status ToolStatus, message, output string, hasOutput bool) {
	if t := b.findTool(toolID); t != nil {
		switch status {
		case ToolSuccess:
			t.Collapsed = true
		case ToolError:
			t.Collapsed = false
		}
		t.Status = status
		t.Message = message
		if hasOutput {
			t.Output = output
			t.HasOutput = true
		}
		b.Version++
	}
	if b.ActiveToolID == toolID {
		b.ActiveToolID = ""
	}
}

// AppendToolOutput appends a streamed output chunk to a tool.
func (b *Block) AppendToolOutput(toolID, chunk string) {
	if t := b.findTool(toolID); t != nil {
		t.Output += chunk
		t.HasOutput = true
		b.Version++
	}
}

// AddImage attaches an image to the response.
func (b *Block) AddImage(mediaType, data string) {
	b.Images = append(b.Images, Image{MediaType: mediaType, Data: data})
	b.Version++
}

// RequestPermission installs a pending permission request and transitions
// to AwaitingPermission.
func (b *Block) RequestPermission(req PermissionRequest) {
	b.PendingPermission = &req
	b.State = StateAwaitingPermission
	b.Version++
}

// ClearPermission clears the pending permission request after the user
// decides, returning to Executing.
func (b *Block) ClearPermission() {
	b.PendingPermission = nil
	b.State = StateExecuting
	b.Version++
}

// Complete marks the block Completed and records elapsed duration.
func (b *Block) Complete(now time.Time) {
	b.State = StateCompleted
	ms := now.Sub(b.StartedAt).Milliseconds()
	b.DurationMS = &ms
	b.ActiveToolID = ""
	b.Version++
}

// Fail marks the block Failed with an error message.
func (b *Block) Fail(now time.Time, errMsg string) {
	b.State = StateFailed
	b.FailedMsg = errMsg
	ms := now.Sub(b.StartedAt).Milliseconds()
	b.DurationMS = &ms
	b.ActiveToolID = ""
	b.Version++
}

// Interrupt marks the block Interrupted, preserving partial response text.
func (b *Block) Interrupt(now time.Time) {
	b.State = StateInterrupted
	ms := now.Sub(b.StartedAt).Milliseconds()
	b.DurationMS = &ms
	b.ActiveToolID = ""
	b.Version++
}

// IsRunning reports whether the block is still actively processing.
func (b *Block) IsRunning() bool {
	switch b.State {
	case StatePending, StateStreaming, StateThinking, StateExecuting, StateAwaitingPermission:
		return true
	}
	return false
}

// ToggleThinking flips the thinking-section collapsed flag.
func (b *Block) ToggleThinking() {
	b.ThinkingCollapsed = !b.ThinkingCollapsed
	b.Version++
}

// ToggleTool flips a tool's collapsed flag.
func (b *Block) ToggleTool(toolID string) {
	if t := b.findTool(toolID); t != nil {
		t.Collapsed = !t.Collapsed
		b.Version++
	}
}

// FooterText gathers status/duration/cost/tokens for display and
// copy/selection extraction.
func (b *Block) FooterText() string {
	status := b.State.String()
	if b.State == StateFailed && b.FailedMsg != "" {
		status = b.FailedMsg
	}
	parts := []string{status}

	if b.DurationMS != nil {
		ms := *b.DurationMS
		if ms < 1000 {
			parts = append(parts, fmt.Sprintf("%dms", ms))
		} else {
			parts = append(parts, fmt.Sprintf("%.1fs", float64(ms)/1000.0))
		}
	}

	if b.CostUSD != nil {
		parts = append(parts, fmt.Sprintf("$%.4f", *b.CostUSD))
	}

	var total uint64
	if b.InputTokens != nil {
		total += *b.InputTokens
	}
	if b.OutputTokens != nil {
		total += *b.OutputTokens
	}
	if total > 0 {
		parts = append(parts, formatTokens(total))
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}

func formatTokens(total uint64) string {
	switch {
	case total >= 1_000_000:
		return fmt.Sprintf("%.1fM tokens", float64(total)/1_000_000.0)
	case total >= 1_000:
		return fmt.Sprintf("%.1fk tokens", float64(total)/1_000.0)
	default:
		return fmt.Sprintf("%d tokens", total)
	}
}

// Stale reports whether this block needs redrawing relative to other,
// mirroring the original's PartialEq (running blocks always redraw;
// otherwise compare the version counter).
func (b *Block) Stale(other *Block) bool {
	if b.ID != other.ID {
		return true
	}
	if b.IsRunning() {
		return true
	}
	return b.Version != other.Version
}

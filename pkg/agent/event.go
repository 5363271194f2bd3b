package agent

import "time"

// NowFunc supplies the current time for event-driven state transitions,
// letting tests pin a deterministic clock instead of calling time.Now.
type NowFunc func() time.Time

// EventKind discriminates the agent event channel variants (spec §4.8,
// §6.4). One logical channel per agent session; exactly the fields
// relevant to Kind are populated, matching the shell event bus's flat
// struct shape (pkg/shell/event.go).
type EventKind int

const (
	EventSessionStarted EventKind = iota
	EventStarted
	EventThinkingText
	EventResponseText
	EventToolStarted
	EventToolParameter
	EventToolOutput
	EventToolStatus
	EventPermissionRequested
	EventUserQuestionRequested
	EventUsageUpdate
	EventFinished
	EventInterrupted
	EventError
)

// Event is one message on an agent session's event channel.
type Event struct {
	Kind EventKind

	SessionID string // SessionStarted

	Text string // ThinkingText / ResponseText

	ToolID   string // ToolStarted/ToolParameter/ToolOutput/ToolStatus
	ToolName string // ToolStarted

	ParamName  string // ToolParameter
	ParamValue string // ToolParameter

	OutputChunk string // ToolOutput

	Status    ToolStatus // ToolStatus
	Message   string     // ToolStatus
	Output    string     // ToolStatus (full replace, not chunked)
	HasOutput bool       // ToolStatus: whether Output is populated

	Permission *PermissionRequest // PermissionRequested

	QuestionToolUseID string         // UserQuestionRequested
	Questions         []UserQuestion // UserQuestionRequested

	CostUSD      float64 // UsageUpdate
	InputTokens  uint64  // UsageUpdate
	OutputTokens uint64  // UsageUpdate

	Err string // Error
}

// Apply dispatches one Event into the block's state, per the effect table
// in spec §4.8. Callers must pass a monotonic clock value for Complete/
// Fail/Interrupt timestamping (see Block.Complete et al).
func (b *Block) Apply(ev Event, now NowFunc) {
	switch ev.Kind {
	case EventSessionStarted:
		b.SessionID = ev.SessionID
		b.Version++

	case EventStarted:
		b.State = StateStreaming
		b.Version++

	case EventThinkingText:
		b.AppendThinking(ev.Text)

	case EventResponseText:
		b.AppendResponse(ev.Text)

	case EventToolStarted:
		b.StartTool(ev.ToolID, ev.ToolName)

	case EventToolParameter:
		b.AddToolParameter(ev.ToolID, ev.ParamName, ev.ParamValue)

	case EventToolOutput:
		b.AppendToolOutput(ev.ToolID, ev.OutputChunk)

	case EventToolStatus:
		b.UpdateToolStatus(ev.ToolID, ev.Status, ev.Message, ev.Output, ev.HasOutput)

	case EventPermissionRequested:
		if ev.Permission != nil {
			b.RequestPermission(*ev.Permission)
		}

	case EventUserQuestionRequested:
		b.PendingQuestion = &PendingUserQuestion{
			ToolUseID: ev.QuestionToolUseID,
			Questions: ev.Questions,
		}
		b.Response = ""
		b.Version++

	case EventUsageUpdate:
		cost, in, out := ev.CostUSD, ev.InputTokens, ev.OutputTokens
		b.CostUSD = &cost
		b.InputTokens = &in
		b.OutputTokens = &out
		b.Version++

	case EventFinished:
		b.Complete(now())

	case EventInterrupted:
		b.Interrupt(now())

	case EventError:
		b.Fail(now(), ev.Err)
	}
}

package shell

import (
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// EventKind discriminates the shell event bus variants (spec §6.2).
type EventKind int

const (
	EventCommandStarted EventKind = iota
	EventStdoutChunk
	EventStderrChunk
	EventCommandOutput
	EventCommandFinished
	EventStreamingUpdate
	EventJobStateChanged
	EventCwdChanged
)

// JobState is a backgrounded job's lifecycle state.
type JobState int

const (
	JobRunning JobState = iota
	JobStopped
	JobDone
)

// Event is the broadcast shell-event-bus message (spec §6.2). Exactly the
// fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	BlockID identity.BlockId
	Command string
	Cwd     string

	Data []byte // Stdout/StderrChunk payload

	Value value.Value // CommandOutput payload

	ExitCode   int
	DurationMs int64

	Seq      uint64      // StreamingUpdate sequence
	Update   value.Value // StreamingUpdate payload
	Coalesce bool        // true: replace stream_latest; false: append to bounded log

	JobID    identity.JobId
	JobState JobState

	NewCwd string // CwdChanged payload
}

// streamLogCap is the bound on the append-mode streaming log per block
// (spec §6.2 "false appends to a bounded log (cap 1000)"); the same bound
// is applied in block.PushStreamUpdate.
const streamLogCap = 1000

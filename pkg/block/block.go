// Package block implements Block, the shell's content cell: one command
// invocation's output surface, whether a raw terminal grid or a structured
// Value, plus its interactive-viewer sub-state (spec §3, §4.3).
package block

import (
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/vtbridge"
)

// State is the block's lifecycle state. Once a block reaches Success,
// Failed, or Interrupted it never transitions further (spec §8 "Block
// monotonicity").
type State int

const (
	StateRunning State = iota
	StateSuccess
	StateFailed
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ViewerKind discriminates the interactive viewer sub-state a block may
// install when its native_output/stream_latest carries an Interactive value.
type ViewerKind int

const (
	ViewerNone ViewerKind = iota
	ViewerPager
	ViewerProcessMonitor
	ViewerTreeBrowser
	ViewerDiffViewer
)

// PagerView is the Pager/ManPage interactive viewer sub-state.
type PagerView struct {
	ScrollLine   int
	Search       string
	CurrentMatch int
	Matches      []int
}

// ProcessMonitorView is the ProcessMonitor interactive viewer sub-state.
type ProcessMonitorView struct {
	SortColumn int
	Descending bool
	Interval   time.Duration
}

// TreeBrowserView is the TreeBrowser interactive viewer sub-state.
type TreeBrowserView struct {
	Collapsed map[string]bool
	Selected  string
}

// NewTreeBrowserView returns a TreeBrowserView with an empty Collapsed set,
// so no directory starts out collapsed.
func NewTreeBrowserView() *TreeBrowserView {
	return &TreeBrowserView{Collapsed: make(map[string]bool)}
}

// DiffViewerView is the DiffViewer interactive viewer sub-state.
type DiffViewerView struct {
	ScrollLine       int
	CurrentFile      int
	CollapsedIndices map[int]bool
}

// NewDiffViewerView returns a DiffViewerView with no hunks collapsed.
func NewDiffViewerView() *DiffViewerView {
	return &DiffViewerView{CollapsedIndices: make(map[int]bool)}
}

// ViewState is the block's optional interactive viewer sub-state. Exactly
// one of the typed fields is populated, selected by Kind.
type ViewState struct {
	Kind           ViewerKind
	Pager          *PagerView
	ProcessMonitor *ProcessMonitorView
	TreeBrowser    *TreeBrowserView
	DiffViewer     *DiffViewerView
}

// TableSort records the last sort applied to a block's tabular output, so
// sort_table can toggle ascending/descending on repeat invocation against
// the same column (spec §4.1 "sort_table(id, col)").
type TableSort struct {
	Column     int
	Descending bool
}

// Block is the shell's content cell: one command invocation's output
// surface, whether raw terminal bytes (via a VT parser) or a structured
// Value (spec §3 "Block").
type Block struct {
	ID      identity.BlockId
	Command string
	State   State
	ExitCode int

	// Parser is populated only for external (PTY-backed) invocations; kernel
	// commands never touch a VT emulator.
	Parser *vtbridge.Terminal

	NativeOutput *value.Value

	StreamLatest *value.Value
	StreamLog    []value.Value
	StreamSeq    uint64

	ViewState *ViewState
	TableSort *TableSort

	StartedAt  time.Time
	FinishedAt time.Time
	DurationMs int64
	OSCTitle   string

	// Version is bumped on any observable mutation; the renderer uses it for
	// lazy-equality invalidation (spec §3 "version: u64").
	Version uint64
}

// New creates a Running block for the given command invocation.
func New(id identity.BlockId, command string) *Block {
	return &Block{
		ID:        id,
		Command:   command,
		State:     StateRunning,
		StartedAt: time.Now(),
		Version:   1,
	}
}

// bump increments Version; every mutating method below calls this exactly
// once so Version counts observable mutations, not internal steps.
func (b *Block) bump() {
	b.Version++
}

// finished reports whether the block has reached a terminal state (spec §8
// "Block monotonicity": once terminal, a block never transitions further).
func (b *Block) finished() bool {
	return b.State == StateSuccess || b.State == StateFailed || b.State == StateInterrupted
}

// Succeed transitions a Running block to Success. No-op if already terminal.
func (b *Block) Succeed() {
	if b.finished() {
		return
	}
	b.State = StateSuccess
	b.FinishedAt = time.Now()
	b.DurationMs = b.FinishedAt.Sub(b.StartedAt).Milliseconds()
	b.bump()
}

// Fail transitions a Running block to Failed with the given exit code.
// No-op if already terminal.
func (b *Block) Fail(exitCode int) {
	if b.finished() {
		return
	}
	b.State = StateFailed
	b.ExitCode = exitCode
	b.FinishedAt = time.Now()
	b.DurationMs = b.FinishedAt.Sub(b.StartedAt).Milliseconds()
	b.bump()
}

// Interrupt transitions a Running block to Interrupted. No-op if already
// terminal.
func (b *Block) Interrupt() {
	if b.finished() {
		return
	}
	b.State = StateInterrupted
	b.FinishedAt = time.Now()
	b.DurationMs = b.FinishedAt.Sub(b.StartedAt).Milliseconds()
	b.bump()
}

// SetNativeOutput installs a one-shot structured result (as opposed to a
// streaming update) and bumps Version.
func (b *Block) SetNativeOutput(v value.Value) {
	b.NativeOutput = &v
	b.bump()
	b.installViewer(v)
}

// PushStreamUpdate applies a streaming-update Value in coalescing mode
// (stream_latest is replaced) and, independently, appends it to the history
// log (stream_log), which keeps only the newest 1000 entries, per spec §3
// "stream_latest + stream_log + stream_seq".
func (b *Block) PushStreamUpdate(v value.Value) {
	b.StreamSeq++
	b.StreamLatest = &v
	b.StreamLog = append(b.StreamLog, v)
	if len(b.StreamLog) > 1000 {
		b.StreamLog = b.StreamLog[len(b.StreamLog)-1000:]
	}
	b.bump()
	b.installViewer(v)
}

// installViewer inspects an incoming Value and, if it is Interactive,
// installs the matching ViewState sub-state (spec §4.3: "interactive viewer
// substates are installed when an Interactive value arrives").
func (b *Block) installViewer(v value.Value) {
	if v.Kind != value.KindInteractive || v.Interactive == nil {
		return
	}
	switch v.Interactive.Viewer {
	case "pager":
		b.ViewState = &ViewState{Kind: ViewerPager, Pager: &PagerView{}}
	case "process_monitor":
		b.ViewState = &ViewState{Kind: ViewerProcessMonitor, ProcessMonitor: &ProcessMonitorView{Interval: time.Second}}
	case "tree_browser":
		b.ViewState = &ViewState{Kind: ViewerTreeBrowser, TreeBrowser: NewTreeBrowserView()}
	case "diff_viewer":
		b.ViewState = &ViewState{Kind: ViewerDiffViewer, DiffViewer: NewDiffViewerView()}
	}
}

// SortableTable returns whichever of NativeOutput or StreamLatest currently
// carries a Table, preferring NativeOutput, plus a pointer through which the
// caller can write the re-sorted replacement back (spec §4.1 "sort_table").
func (b *Block) SortableTable() (*value.Value, bool) {
	if b.NativeOutput != nil && b.NativeOutput.Kind == value.KindTable {
		return b.NativeOutput, true
	}
	if b.StreamLatest != nil && b.StreamLatest.Kind == value.KindTable {
		return b.StreamLatest, true
	}
	return nil, false
}

// SortTable toggles ascending/descending against col if it was the
// last-sorted column, else sorts ascending, reorders rows in place on the
// carrying Value, and bumps Version (spec §4.1 "sort_table(id, col)").
func (b *Block) SortTable(col int) {
	target, ok := b.SortableTable()
	if !ok {
		return
	}
	descending := false
	if b.TableSort != nil && b.TableSort.Column == col {
		descending = !b.TableSort.Descending
	}
	value.SortTable(target.Rows, col, descending)
	b.TableSort = &TableSort{Column: col, Descending: descending}
	b.bump()
}

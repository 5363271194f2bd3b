// Package shell implements the Shell Widget: execution dispatch, block
// lifecycle, PTY I/O coalescing, and terminal size propagation (spec §4.1).
// It is grounded on the teacher's pkg/collectors registry pattern for
// command classification and on the corpus's creack/pty wrapping pattern
// for external process spawning.
package shell

import (
	"fmt"
	"sync"
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/ast"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/block"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/pty"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/vtbridge"
)

// columnDownsizeStabilityWindow is the debounce window before a column
// downsize is committed to every block's parser (spec §4.1 "Terminal size
// propagation": "32 ms stability timer").
const columnDownsizeStabilityWindow = 32 * time.Millisecond

// size is a terminal dimension in character cells.
type size struct {
	Rows, Cols int
}

// pendingDownsize records an in-flight column-downsize debounce.
type pendingDownsize struct {
	target size
	at     time.Time
}

// Widget owns the set of live blocks, their PTY handles, and the kernel
// command registry, and implements the operations in spec §4.1.
type Widget struct {
	mu sync.Mutex

	registry *command.Registry
	state    command.State

	blocks    map[identity.BlockId]*block.Block
	order     []identity.BlockId
	ptyByID   map[identity.BlockId]*pty.Handle

	lastParserSize size
	lastPtySize    size
	pendingDown    *pendingDownsize

	events chan Event
}

// New creates an empty Widget backed by the given command registry and
// initial shell state (cwd/env).
func New(registry *command.Registry, initialCwd string, env map[string]string) *Widget {
	return &Widget{
		registry: registry,
		state:    command.State{Cwd: initialCwd, Env: env},
		blocks:   make(map[identity.BlockId]*block.Block),
		ptyByID:  make(map[identity.BlockId]*pty.Handle),
		events:   make(chan Event, 256),
	}
}

// Events returns the shell event bus consumers drain each frame.
func (w *Widget) Events() <-chan Event { return w.events }

func (w *Widget) emit(e Event) {
	select {
	case w.events <- e:
	default:
		// Bus is a bounded SPSC channel drained once per frame; a full
		// buffer means the consumer has fallen multiple frames behind, in
		// which case this event is dropped rather than blocking the
		// widget.
	}
}

// Block returns the block with the given id, if still live.
func (w *Widget) Block(id identity.BlockId) (*block.Block, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.blocks[id]
	return b, ok
}

// Blocks returns all live blocks in creation order.
func (w *Widget) Blocks() []*block.Block {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*block.Block, 0, len(w.order))
	for _, id := range w.order {
		if b, ok := w.blocks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// classify reports whether name identifies a registered kernel command
// (spec §4.1 "Classification").
func (w *Widget) classify(name string) bool {
	return w.registry.IsKernel(name)
}

// Execute classifies command, dispatches it, and returns the new block's id.
// A Kernel pipeline (both pipeline endpoints registered) runs in-process
// with Value streaming between stages; anything else becomes a single PTY
// invocation of the raw command line (spec §4.1 "execute").
func (w *Widget) Execute(commandLine, cwd string) identity.BlockId {
	id := identity.NextBlockId()
	b := block.New(id, commandLine)

	w.mu.Lock()
	w.blocks[id] = b
	w.order = append(w.order, id)
	w.mu.Unlock()

	w.emit(Event{Kind: EventCommandStarted, BlockID: id, Command: commandLine, Cwd: cwd})

	parsed, err := ast.Parse(commandLine)
	if err != nil || !w.isFullyKernel(parsed) {
		w.spawnExternal(b, commandLine, cwd)
		return id
	}

	go w.runKernelPipeline(b, parsed)
	return id
}

// isFullyKernel reports whether every simple-command name reachable in the
// parsed line is a registered kernel command (spec §4.1 "Pipelines of the
// form A | B with both endpoints kernel are executed as a single kernel
// pipeline ... otherwise the entire pipeline becomes a PTY invocation").
func (w *Widget) isFullyKernel(a *ast.Ast) bool {
	for _, cmd := range a.Commands {
		if !w.commandIsFullyKernel(cmd) {
			return false
		}
	}
	return true
}

func (w *Widget) commandIsFullyKernel(cmd ast.Command) bool {
	switch cmd.Kind {
	case ast.KindSimple:
		return w.classify(cmd.Simple.Name)
	case ast.KindPipeline:
		for _, stage := range cmd.Pipeline.Stages {
			if !w.commandIsFullyKernel(stage) {
				return false
			}
		}
		return true
	case ast.KindList:
		for _, sub := range cmd.List.Commands {
			if !w.commandIsFullyKernel(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// runKernelPipeline executes every stage of a fully-kernel AST in-process,
// threading each kernel command's return Value into the next stage's
// CommandContext.stdin (spec §4.4 "If both sides of | are kernel commands,
// the left command's return Value becomes the right command's
// context.stdin").
func (w *Widget) runKernelPipeline(b *block.Block, a *ast.Ast) {
	defer func() {
		if r := recover(); r != nil {
			w.emit(Event{Kind: EventStderrChunk, BlockID: b.ID, Data: []byte(fmt.Sprintf("panic: %v", r))})
			w.finishKernel(b, 1)
		}
	}()

	var exitCode int
	for _, cmd := range a.Commands {
		code := w.runCommandNode(b, cmd, nil)
		exitCode = code
		if code != 0 {
			break
		}
	}
	w.finishKernel(b, exitCode)
}

// runCommandNode executes one AST node against an optional piped stdin
// Value, returning an exit code (0 on success, 1 on command error).
func (w *Widget) runCommandNode(b *block.Block, cmd ast.Command, stdin *value.Value) int {
	switch cmd.Kind {
	case ast.KindSimple:
		return w.runSimple(b, cmd.Simple, stdin)
	case ast.KindPipeline:
		var in *value.Value
		var code int
		for _, stage := range cmd.Pipeline.Stages {
			out, stageCode := w.runStageCapture(b, stage, in)
			code = stageCode
			if stageCode != 0 {
				return stageCode
			}
			in = out
		}
		if in != nil {
			b.SetNativeOutput(*in)
			w.emit(Event{Kind: EventCommandOutput, BlockID: b.ID, Value: *in})
		}
		return code
	case ast.KindList:
		return w.runList(b, cmd.List, stdin)
	case ast.KindIf:
		return w.runIf(b, cmd.If, stdin)
	default:
		return 1
	}
}

func (w *Widget) runList(b *block.Block, l *ast.List, stdin *value.Value) int {
	code := w.runCommandNode(b, l.Commands[0], stdin)
	for i, op := range l.Operators {
		next := l.Commands[i+1]
		switch op {
		case ast.OpAnd:
			if code != 0 {
				continue
			}
		case ast.OpOr:
			if code == 0 {
				continue
			}
		}
		code = w.runCommandNode(b, next, stdin)
	}
	return code
}

func (w *Widget) runIf(b *block.Block, s *ast.IfStatement, stdin *value.Value) int {
	condCode := 0
	for _, c := range s.Condition {
		condCode = w.runCommandNode(b, c, stdin)
	}
	if condCode == 0 {
		code := 0
		for _, c := range s.Then {
			code = w.runCommandNode(b, c, stdin)
		}
		return code
	}
	code := 0
	for _, c := range s.ElseBranch {
		code = w.runCommandNode(b, c, stdin)
	}
	return code
}

// runStageCapture runs one pipeline stage and returns its output Value for
// the next stage, without emitting it as the block's final CommandOutput
// (only the pipeline's last stage's output is user-visible).
func (w *Widget) runStageCapture(b *block.Block, cmd ast.Command, stdin *value.Value) (*value.Value, int) {
	if cmd.Kind != ast.KindSimple {
		code := w.runCommandNode(b, cmd, stdin)
		return b.NativeOutput, code
	}
	out, err := w.invoke(cmd.Simple, stdin)
	if err != nil {
		w.emit(Event{Kind: EventStderrChunk, BlockID: b.ID, Data: []byte(err.Error())})
		return nil, 1
	}
	return &out, 0
}

func (w *Widget) runSimple(b *block.Block, s *ast.SimpleCommand, stdin *value.Value) int {
	out, err := w.invoke(s, stdin)
	if err != nil {
		w.emit(Event{Kind: EventStderrChunk, BlockID: b.ID, Data: []byte(err.Error())})
		return 1
	}
	b.SetNativeOutput(out)
	w.emit(Event{Kind: EventCommandOutput, BlockID: b.ID, Value: out})
	return 0
}

func (w *Widget) invoke(s *ast.SimpleCommand, stdin *value.Value) (value.Value, error) {
	switch s.Name {
	case "cd":
		return w.builtinCd(s.Args)
	case "clear":
		w.Clear()
		return value.Unit(), nil
	}

	cmd, ok := w.registry.Get(s.Name)
	if !ok {
		return value.Value{}, fmt.Errorf("%s: command not found", s.Name)
	}
	w.mu.Lock()
	ctx := &command.CommandContext{State: w.state, Stdin: stdin}
	w.mu.Unlock()
	return cmd.Execute(s.Args, ctx)
}

func (w *Widget) builtinCd(args []string) (value.Value, error) {
	dir := w.state.Cwd
	if len(args) > 0 {
		dir = args[0]
	}
	w.mu.Lock()
	w.state.Cwd = dir
	w.mu.Unlock()
	w.emit(Event{Kind: EventCwdChanged, NewCwd: dir})
	return value.Unit(), nil
}

func (w *Widget) finishKernel(b *block.Block, exitCode int) {
	if exitCode == 0 {
		b.Succeed()
	} else {
		b.Fail(exitCode)
	}
	w.emit(Event{Kind: EventCommandFinished, BlockID: b.ID, ExitCode: exitCode, DurationMs: b.DurationMs})
}

// spawnExternal runs commandLine under a PTY at the current terminal size.
// Spawn failure becomes a one-line Failed(1) block with no PTY retained
// (spec §4.1 "Failure semantics").
func (w *Widget) spawnExternal(b *block.Block, commandLine, cwd string) {
	shellPath := "/bin/sh"
	handle, events, err := pty.Spawn(b.ID, shellPath, []string{"-c", commandLine}, cwd, nil,
		uint16(w.lastPtySize.Rows), uint16(w.lastPtySize.Cols))
	if err != nil {
		b.Fail(1)
		w.emit(Event{Kind: EventStderrChunk, BlockID: b.ID, Data: []byte(err.Error())})
		w.emit(Event{Kind: EventCommandFinished, BlockID: b.ID, ExitCode: 1})
		return
	}

	b.Parser = vtbridge.New(w.lastParserSize.Rows, w.lastParserSize.Cols)

	w.mu.Lock()
	w.ptyByID[b.ID] = handle
	w.mu.Unlock()

	go w.pumpPty(b.ID, events)
}

// pumpPty relays one PTY handle's event channel into HandlePtyBatch one
// event at a time. Real batching (multiple blocks' events coalesced in one
// call) happens when consumers collect several ready channels per frame and
// call HandlePtyBatch with the union.
func (w *Widget) pumpPty(id identity.BlockId, events <-chan pty.Event) {
	for e := range events {
		switch e.Kind {
		case pty.EventOutput:
			w.HandlePtyBatch([]PtyBatchEntry{{BlockID: id, Output: e.Output}})
		case pty.EventExited:
			w.HandlePtyBatch([]PtyBatchEntry{{BlockID: id, Exited: true, ExitCode: e.ExitCode}})
		}
	}
}

// PtyBatchEntry is one (BlockId, PtyEvent) pair as it arrives on the
// multiplexed channel (spec §6.3).
type PtyBatchEntry struct {
	BlockID  identity.BlockId
	Output   []byte
	Exited   bool
	ExitCode int
}

// HandlePtyBatch coalesces consecutive Output events per block into one
// parser feed call, flushing on a block-id change or an Exited event (spec
// §4.1 "PTY event coalescing").
func (w *Widget) HandlePtyBatch(batch []PtyBatchEntry) {
	var currentID identity.BlockId
	var acc []byte
	hasCurrent := false

	flush := func() {
		if !hasCurrent || len(acc) == 0 {
			return
		}
		w.feedParser(currentID, acc)
		acc = nil
	}

	for _, e := range batch {
		if e.Exited {
			flush()
			w.handleExit(e.BlockID, e.ExitCode)
			hasCurrent = false
			continue
		}

		if hasCurrent && e.BlockID != currentID {
			flush()
		}
		currentID = e.BlockID
		hasCurrent = true
		acc = append(acc, e.Output...)
	}
	flush()
}

func (w *Widget) feedParser(id identity.BlockId, data []byte) {
	b, ok := w.Block(id)
	if !ok || b.Parser == nil {
		return
	}
	b.Parser.Feed(data)
	if title, ok := b.Parser.TakeOSCTitle(); ok {
		b.OSCTitle = title
	}
	w.mu.Lock()
	b.Version++
	w.mu.Unlock()
}

func (w *Widget) handleExit(id identity.BlockId, code int) {
	b, ok := w.Block(id)
	if !ok {
		return
	}
	if code == 0 {
		b.Succeed()
	} else {
		b.Fail(code)
	}
	w.mu.Lock()
	delete(w.ptyByID, id)
	w.mu.Unlock()
	w.emit(Event{Kind: EventCommandFinished, BlockID: id, ExitCode: code, DurationMs: b.DurationMs})
}

// SendInterruptTo sends SIGINT to the PTY backing id, if any.
func (w *Widget) SendInterruptTo(id identity.BlockId) error {
	w.mu.Lock()
	h, ok := w.ptyByID[id]
	w.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Interrupt()
}

// Kill forcibly terminates the PTY backing id, if any.
func (w *Widget) Kill(id identity.BlockId) error {
	w.mu.Lock()
	h, ok := w.ptyByID[id]
	w.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Kill()
}

// ForwardKey writes raw bytes (already encoded for the block's current
// app-cursor mode) to the PTY backing id.
func (w *Widget) ForwardKey(id identity.BlockId, data []byte) error {
	w.mu.Lock()
	h, ok := w.ptyByID[id]
	w.mu.Unlock()
	if !ok {
		return nil
	}
	_, err := h.Write(data)
	return err
}

// Paste writes text to the PTY backing id, honouring bracketed-paste mode
// when the block's VT parser reports it active (spec §4.1).
func (w *Widget) Paste(id identity.BlockId, text string) error {
	w.mu.Lock()
	h, hasPty := w.ptyByID[id]
	w.mu.Unlock()
	if !hasPty {
		return nil
	}

	bracketed := false
	if b, ok := w.Block(id); ok && b.Parser != nil {
		bracketed = b.Parser.BracketedPasteEnabled()
	}
	return h.Paste(text, bracketed)
}

// SortTable toggles ascending/descending for block id's table output and
// reorders rows in place (spec §4.1 "sort_table(id, col)").
func (w *Widget) SortTable(id identity.BlockId, col int) {
	if b, ok := w.Block(id); ok {
		b.SortTable(col)
	}
}

// SyncTerminalSize applies a new logical terminal size to all blocks' VT
// parsers, per the debounced-downsize rule in spec §4.1 "Terminal size
// propagation". Call on every frame; most calls are no-ops.
func (w *Widget) SyncTerminalSize(rows, cols int, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	newSize := size{Rows: rows, Cols: cols}
	// Height-only changes and any column upsize apply immediately; only a
	// strict column decrease is debounced (spec §4.1 "Terminal size
	// propagation").
	if newSize.Cols >= w.lastParserSize.Cols {
		w.applyParserSizeLocked(newSize)
		w.pendingDown = nil
		return
	}

	// Column downsize: apply the row change immediately, but debounce the
	// column reflow behind a stability timer.
	if newSize.Rows != w.lastParserSize.Rows {
		w.applyParserSizeLocked(size{Rows: newSize.Rows, Cols: w.lastParserSize.Cols})
	}
	if w.pendingDown == nil || w.pendingDown.target != newSize {
		w.pendingDown = &pendingDownsize{target: newSize, at: now}
	}
	if now.Sub(w.pendingDown.at) >= columnDownsizeStabilityWindow {
		w.applyParserSizeLocked(newSize)
		w.pendingDown = nil
	}
}

func (w *Widget) applyParserSizeLocked(s size) {
	w.lastParserSize = s
	for _, id := range w.order {
		if b, ok := w.blocks[id]; ok && b.Parser != nil {
			b.Parser.Resize(s.Rows, s.Cols)
		}
	}
}

// SyncPtySizes sends a resize to every live PTY, but only when the size
// differs from the last one sent (spec §4.1 "PTY resize ... is emitted only
// when the current size differs from the last sent size").
func (w *Widget) SyncPtySizes(rows, cols int) {
	w.mu.Lock()
	newSize := size{Rows: rows, Cols: cols}
	if newSize == w.lastPtySize {
		w.mu.Unlock()
		return
	}
	w.lastPtySize = newSize
	handles := make([]*pty.Handle, 0, len(w.ptyByID))
	for _, h := range w.ptyByID {
		handles = append(handles, h)
	}
	w.mu.Unlock()

	for _, h := range handles {
		_ = h.Resize(uint16(rows), uint16(cols))
	}
}

// Clear interrupts and kills every PTY and drops all blocks (spec §4.1
// "clear()"). Kernel commands already running are not cancelled: their
// goroutines run to completion against blocks that are no longer tracked.
// The widget keeps no job table, so there are no jobs to drop.
func (w *Widget) Clear() {
	w.mu.Lock()
	handles := make([]*pty.Handle, 0, len(w.ptyByID))
	for _, h := range w.ptyByID {
		handles = append(handles, h)
	}
	w.blocks = make(map[identity.BlockId]*block.Block)
	w.order = nil
	w.ptyByID = make(map[identity.BlockId]*pty.Handle)
	w.mu.Unlock()

	for _, h := range handles {
		_ = h.Interrupt()
		_ = h.Kill()
	}
}

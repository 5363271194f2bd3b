// Package input implements TextInputState: single-line and multi-line text
// editing state shared by every prompt/editor widget (spec §4.9
// "TextInputState"). Ported from
// nexus-ui/src/strata/text_input_state.rs, adapted to bubbletea's
// tea.KeyMsg/tea.MouseMsg instead of the original's own Key/MouseEvent enums
// — this backend already has a real input event source in bubbletea, so
// there is no reason to reinvent one.
package input

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
)

// charWidth and lineHeight are the monospace cell metrics this package
// assumes (containers.rs CHAR_WIDTH/LINE_HEIGHT in the original).
const (
	charWidth  = 8.4
	lineHeight = 18.0
)

// Action is the result of a key interaction.
type Action int

const (
	ActionNoop Action = iota
	ActionChanged
	ActionSubmit
	ActionBlur
)

// KeyResult is the outcome of HandleKey. When Action is ActionSubmit, Text
// holds the text that was submitted (the input has already been cleared).
type KeyResult struct {
	Action Action
	Text   string
}

// MouseActionKind discriminates MouseAction.
type MouseActionKind int

const (
	MouseClick1D MouseActionKind = iota
	MouseClick2D
	MouseDrag1D
	MouseDrag2D
)

// MouseAction is a relative mouse position to apply via ApplyMouse.
type MouseAction struct {
	Kind MouseActionKind
	X, Y float32
}

// State holds all text-editing state for one input widget: text, cursor,
// selection, scroll offset and focus. Use one per prompt box or editor
// instead of separate fields threaded through app state.
type State struct {
	Text          string
	Cursor        int // character index, not byte index
	hasSelection  bool
	selAnchor     int
	selCursor     int
	ScrollOffset  float32
	Focused       bool

	id        identity.SourceId
	bounds    layout.Rect
	padding   float32
	multiline bool
}

// New returns an empty single-line input with an auto-generated id.
func New() *State {
	return &State{id: identity.NewSourceId(), padding: 6.0}
}

// WithText returns an empty single-line input pre-populated with text.
func WithText(text string) *State {
	s := New()
	s.Text = text
	return s
}

// SingleLine returns a single-line input with a stable, named id.
func SingleLine(name string) *State {
	return &State{id: identity.NamedSourceId(name), padding: 6.0}
}

// MultiLine returns a multi-line editor with a stable, named id.
func MultiLine(name string) *State {
	return &State{id: identity.NamedSourceId(name), padding: 6.0, multiline: true}
}

// MultiLineWithText returns a multi-line editor pre-populated with text.
func MultiLineWithText(name, text string) *State {
	s := MultiLine(name)
	s.Text = text
	return s
}

// ID returns the widget's SourceId, used for hit-testing and capture.
func (s *State) ID() identity.SourceId { return s.id }

// IsMultiline reports whether this is a multi-line editor.
func (s *State) IsMultiline() bool { return s.multiline }

// Bounds returns the widget's bounds as synced from the last layout pass.
func (s *State) Bounds() layout.Rect { return s.bounds }

// SyncFromSnapshot refreshes bounds from the current frame's layout
// snapshot. Call after layout, in View.
func (s *State) SyncFromSnapshot(snapshot *layout.Snapshot) {
	if b, ok := snapshot.WidgetBounds[s.id]; ok {
		s.bounds = b
	}
}

// Focus gives this input keyboard focus.
func (s *State) Focus() { s.Focused = true }

// Blur removes focus and clears any active selection.
func (s *State) Blur() {
	s.Focused = false
	s.hasSelection = false
}

// Selection returns the current selection range (lo, hi) in character
// offsets, and whether a selection exists.
func (s *State) Selection() (lo, hi int, ok bool) {
	if !s.hasSelection {
		return 0, 0, false
	}
	lo, hi = s.selAnchor, s.selCursor
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// ---------------------------------------------------------------------
// Editing operations
// ---------------------------------------------------------------------

// DeleteSelection removes the active selection, if any, placing the cursor
// at its start. Returns true if a selection existed.
func (s *State) DeleteSelection() bool {
	lo, hi, ok := s.Selection()
	if !ok {
		return false
	}
	s.hasSelection = false
	loB, hiB := charToByte(s.Text, lo), charToByte(s.Text, hi)
	s.Text = s.Text[:loB] + s.Text[hiB:]
	s.Cursor = lo
	return true
}

// InsertStr inserts text at the cursor, deleting any active selection first.
func (s *State) InsertStr(text string) {
	s.DeleteSelection()
	b := charToByte(s.Text, s.Cursor)
	s.Text = s.Text[:b] + text + s.Text[b:]
	s.Cursor += len([]rune(text))
}

// InsertNewline inserts a newline at the cursor (multiline editors).
func (s *State) InsertNewline() {
	s.InsertStr("\n")
}

// Backspace deletes the character before the cursor.
func (s *State) Backspace() {
	if s.DeleteSelection() {
		return
	}
	if s.Cursor > 0 {
		s.Cursor--
		loB, hiB := charToByte(s.Text, s.Cursor), charToByte(s.Text, s.Cursor+1)
		s.Text = s.Text[:loB] + s.Text[hiB:]
	}
}

// Delete deletes the character at the cursor.
func (s *State) Delete() {
	if s.DeleteSelection() {
		return
	}
	count := charCount(s.Text)
	if s.Cursor < count {
		loB, hiB := charToByte(s.Text, s.Cursor), charToByte(s.Text, s.Cursor+1)
		s.Text = s.Text[:loB] + s.Text[hiB:]
	}
}

// ---------------------------------------------------------------------
// Cursor movement
// ---------------------------------------------------------------------

// MoveLeft moves the cursor left one character, clearing selection.
func (s *State) MoveLeft() {
	s.hasSelection = false
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// MoveRight moves the cursor right one character, clearing selection.
func (s *State) MoveRight() {
	s.hasSelection = false
	if s.Cursor < charCount(s.Text) {
		s.Cursor++
	}
}

// MoveUp moves the cursor up one line (multiline), clearing selection.
func (s *State) MoveUp() {
	s.hasSelection = false
	line, col := lineCol(s.Text, s.Cursor)
	if line > 0 {
		s.Cursor = lineColToOffset(s.Text, line-1, col)
	}
}

// MoveDown moves the cursor down one line (multiline), clearing selection.
func (s *State) MoveDown() {
	s.hasSelection = false
	line, col := lineCol(s.Text, s.Cursor)
	lineCount := strings.Count(s.Text, "\n") + 1
	if line+1 < lineCount {
		s.Cursor = lineColToOffset(s.Text, line+1, col)
	}
}

// MoveHome moves the cursor to the start of the current line.
func (s *State) MoveHome() {
	s.hasSelection = false
	offset := 0
	for i, ch := range []rune(s.Text) {
		if i == s.Cursor {
			break
		}
		if ch == '\n' {
			offset = i + 1
		}
	}
	s.Cursor = offset
}

// MoveEnd moves the cursor to the end of the current line.
func (s *State) MoveEnd() {
	s.hasSelection = false
	runes := []rune(s.Text)
	pos := s.Cursor
	for _, ch := range runes[min(s.Cursor, len(runes)):] {
		if ch == '\n' {
			break
		}
		pos++
	}
	s.Cursor = pos
}

// ---------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------

func (s *State) anchor() int {
	if s.hasSelection {
		return s.selAnchor
	}
	return s.Cursor
}

// SelectLeft extends the selection one character to the left.
func (s *State) SelectLeft() {
	anchor := s.anchor()
	if s.Cursor > 0 {
		s.Cursor--
		s.hasSelection, s.selAnchor, s.selCursor = true, anchor, s.Cursor
	}
}

// SelectRight extends the selection one character to the right.
func (s *State) SelectRight() {
	anchor := s.anchor()
	if s.Cursor < charCount(s.Text) {
		s.Cursor++
		s.hasSelection, s.selAnchor, s.selCursor = true, anchor, s.Cursor
	}
}

// SelectAll selects the entire text.
func (s *State) SelectAll() {
	n := charCount(s.Text)
	s.hasSelection, s.selAnchor, s.selCursor = true, 0, n
	s.Cursor = n
}

// ---------------------------------------------------------------------
// Mouse interaction
// ---------------------------------------------------------------------

// ClickAt places the cursor at the character nearest relative x (single line).
func (s *State) ClickAt(relX float32) {
	pos := posFromX(relX)
	s.Cursor = minInt(pos, charCount(s.Text))
	s.hasSelection = false
}

// ClickAt2D places the cursor at the character nearest relative (x, y).
func (s *State) ClickAt2D(relX, relY float32) {
	line := lineFromY(relY, s.ScrollOffset)
	col := posFromX(relX)
	s.Cursor = lineColToOffset(s.Text, line, col)
	s.hasSelection = false
}

// DragTo extends the selection to the character nearest relative x.
func (s *State) DragTo(relX float32) {
	n := charCount(s.Text)
	pos := minInt(posFromX(relX), n)
	anchor := s.anchor()
	if pos != anchor {
		s.hasSelection, s.selAnchor, s.selCursor = true, anchor, pos
		s.Cursor = pos
	}
}

// DragTo2D extends the selection to the character nearest relative (x, y).
func (s *State) DragTo2D(relX, relY float32) {
	line := lineFromY(relY, s.ScrollOffset)
	col := posFromX(relX)
	pos := lineColToOffset(s.Text, line, col)
	anchor := s.anchor()
	if pos != anchor {
		s.hasSelection, s.selAnchor, s.selCursor = true, anchor, pos
		s.Cursor = pos
	}
}

// ScrollBy scrolls a multi-line editor's content by delta (positive scrolls
// content up), clamped to [0, maxScroll] derived from the line count.
func (s *State) ScrollBy(delta float32) {
	s.ScrollOffset -= delta
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
	lineCount := float32(strings.Count(s.Text, "\n") + 1)
	maxScroll := lineCount*lineHeight - 80.0
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.ScrollOffset > maxScroll {
		s.ScrollOffset = maxScroll
	}
}

// HandleMouse translates a bubbletea mouse message hitting this widget into
// a MouseAction, or false if the event doesn't concern this widget.
// hitID is the SourceId the hit-test resolved for this event (if any), and
// captured is the SourceId currently holding mouse capture (if any).
func (s *State) HandleMouse(msg tea.MouseMsg, hitID *identity.SourceId, captured *identity.SourceId) (MouseAction, bool) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || hitID == nil || *hitID != s.id {
			return MouseAction{}, false
		}
		relX := maxf32(float32(msg.X)-float32(s.bounds.X)-s.padding, 0)
		if s.multiline {
			relY := maxf32(float32(msg.Y)-float32(s.bounds.Y)-s.padding, 0)
			return MouseAction{Kind: MouseClick2D, X: relX, Y: relY}, true
		}
		return MouseAction{Kind: MouseClick1D, X: relX}, true

	case tea.MouseActionMotion:
		if captured == nil || *captured != s.id {
			return MouseAction{}, false
		}
		relX := maxf32(float32(msg.X)-float32(s.bounds.X)-s.padding, 0)
		if s.multiline {
			relY := maxf32(float32(msg.Y)-float32(s.bounds.Y)-s.padding, 0)
			return MouseAction{Kind: MouseDrag2D, X: relX, Y: relY}, true
		}
		return MouseAction{Kind: MouseDrag1D, X: relX}, true
	}
	return MouseAction{}, false
}

// ApplyMouse applies a MouseAction produced by HandleMouse, focusing the
// input and dispatching to the matching click/drag method.
func (s *State) ApplyMouse(a MouseAction) {
	s.Focus()
	switch a.Kind {
	case MouseClick1D:
		s.ClickAt(a.X)
	case MouseClick2D:
		s.ClickAt2D(a.X, a.Y)
	case MouseDrag1D:
		s.DragTo(a.X)
	case MouseDrag2D:
		s.DragTo2D(a.X, a.Y)
	}
}

// ---------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------

// HandleKey performs the edit/navigation implied by a bubbletea key
// message and returns what happened. Call from Update, not a read-only
// key inspector, since this mutates state.
//
// Enter submits in single-line mode and inserts a newline in multiline
// mode; Up/Down navigate lines only in multiline mode.
func (s *State) HandleKey(msg tea.KeyMsg) KeyResult {
	switch msg.Type {
	case tea.KeyEsc:
		s.Blur()
		return KeyResult{Action: ActionBlur}

	case tea.KeyEnter:
		if s.multiline {
			s.InsertNewline()
			return KeyResult{Action: ActionChanged}
		}
		text := s.Text
		s.Text = ""
		s.Cursor = 0
		s.hasSelection = false
		return KeyResult{Action: ActionSubmit, Text: text}

	case tea.KeyBackspace:
		s.Backspace()
		return KeyResult{Action: ActionChanged}

	case tea.KeyDelete:
		s.Delete()
		return KeyResult{Action: ActionChanged}

	case tea.KeyShiftLeft:
		s.SelectLeft()
		return KeyResult{Action: ActionChanged}

	case tea.KeyShiftRight:
		s.SelectRight()
		return KeyResult{Action: ActionChanged}

	case tea.KeyLeft:
		s.MoveLeft()
		return KeyResult{Action: ActionChanged}

	case tea.KeyRight:
		s.MoveRight()
		return KeyResult{Action: ActionChanged}

	case tea.KeyUp:
		if s.multiline {
			s.MoveUp()
			return KeyResult{Action: ActionChanged}
		}

	case tea.KeyDown:
		if s.multiline {
			s.MoveDown()
			return KeyResult{Action: ActionChanged}
		}

	case tea.KeyHome:
		s.MoveHome()
		return KeyResult{Action: ActionChanged}

	case tea.KeyEnd:
		s.MoveEnd()
		return KeyResult{Action: ActionChanged}

	case tea.KeyCtrlA:
		s.SelectAll()
		return KeyResult{Action: ActionChanged}

	case tea.KeySpace:
		s.InsertStr(" ")
		return KeyResult{Action: ActionChanged}

	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			s.InsertStr(string(msg.Runes))
			return KeyResult{Action: ActionChanged}
		}
	}
	return KeyResult{Action: ActionNoop}
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

func posFromX(relX float32) int {
	pos := round(relX / charWidth)
	if pos < 0 {
		pos = 0
	}
	return pos
}

func lineFromY(relY, scrollOffset float32) int {
	line := int((relY + scrollOffset) / lineHeight)
	if line < 0 {
		line = 0
	}
	return line
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func charCount(s string) int { return len([]rune(s)) }

func charToByte(s string, charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	i := 0
	for b := range s {
		if i == charIdx {
			return b
		}
		i++
	}
	return len(s)
}

func lineCol(s string, charIdx int) (line, col int) {
	i := 0
	for _, ch := range s {
		if i == charIdx {
			return line, col
		}
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		i++
	}
	return line, col
}

func lineColToOffset(s string, targetLine, targetCol int) int {
	line, col := 0, 0
	i := 0
	for _, ch := range s {
		if line == targetLine && col == targetCol {
			return i
		}
		if ch == '\n' {
			if line == targetLine {
				return i
			}
			line++
			col = 0
		} else {
			col++
		}
		i++
	}
	return i
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

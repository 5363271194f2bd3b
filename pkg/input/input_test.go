package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInsertAndBackspace(t *testing.T) {
	s := New()
	s.InsertStr("hello")
	if s.Text != "hello" || s.Cursor != 5 {
		t.Fatalf("text=%q cursor=%d, want hello/5", s.Text, s.Cursor)
	}
	s.Backspace()
	if s.Text != "hell" || s.Cursor != 4 {
		t.Fatalf("text=%q cursor=%d, want hell/4", s.Text, s.Cursor)
	}
}

func TestDeleteSelectionThenInsert(t *testing.T) {
	s := WithText("hello world")
	s.hasSelection, s.selAnchor, s.selCursor = true, 0, 5
	s.Cursor = 5
	s.InsertStr("goodbye")
	if s.Text != "goodbye world" {
		t.Fatalf("text = %q, want %q", s.Text, "goodbye world")
	}
	if s.hasSelection {
		t.Fatalf("expected selection cleared after insert")
	}
}

func TestMoveLeftRightClampsAtEdges(t *testing.T) {
	s := WithText("ab")
	s.MoveLeft()
	if s.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0 (clamped)", s.Cursor)
	}
	s.MoveRight()
	s.MoveRight()
	s.MoveRight()
	if s.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped)", s.Cursor)
	}
}

func TestMultilineUpDownNavigation(t *testing.T) {
	s := MultiLineWithText("editor", "ab\ncd\nef")
	s.Cursor = 7 // 'f' on line 2, col 1
	s.MoveUp()
	line, col := lineCol(s.Text, s.Cursor)
	if line != 1 || col != 1 {
		t.Fatalf("after MoveUp: line=%d col=%d, want 1/1", line, col)
	}
	s.MoveDown()
	line, col = lineCol(s.Text, s.Cursor)
	if line != 2 || col != 1 {
		t.Fatalf("after MoveDown: line=%d col=%d, want 2/1", line, col)
	}
}

func TestMoveHomeAndEnd(t *testing.T) {
	s := MultiLineWithText("editor", "ab\ncdef")
	s.Cursor = 5 // 'e' on second line
	s.MoveHome()
	if s.Cursor != 3 {
		t.Fatalf("MoveHome cursor = %d, want 3", s.Cursor)
	}
	s.MoveEnd()
	if s.Cursor != 7 {
		t.Fatalf("MoveEnd cursor = %d, want 7", s.Cursor)
	}
}

func TestSelectAll(t *testing.T) {
	s := WithText("hello")
	s.SelectAll()
	lo, hi, ok := s.Selection()
	if !ok || lo != 0 || hi != 5 {
		t.Fatalf("selection = (%d,%d,%v), want (0,5,true)", lo, hi, ok)
	}
}

func TestHandleKeySubmitSingleLine(t *testing.T) {
	s := SingleLine("prompt")
	s.InsertStr("run tests")
	res := s.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if res.Action != ActionSubmit || res.Text != "run tests" {
		t.Fatalf("result = %+v, want Submit(run tests)", res)
	}
	if s.Text != "" {
		t.Fatalf("expected text cleared after submit, got %q", s.Text)
	}
}

func TestHandleKeyEnterInsertsNewlineMultiline(t *testing.T) {
	s := MultiLine("editor")
	s.InsertStr("line1")
	res := s.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if res.Action != ActionChanged {
		t.Fatalf("expected Changed, got %v", res.Action)
	}
	if s.Text != "line1\n" {
		t.Fatalf("text = %q, want %q", s.Text, "line1\n")
	}
}

func TestHandleKeyEscBlurs(t *testing.T) {
	s := New()
	s.Focus()
	res := s.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if res.Action != ActionBlur || s.Focused {
		t.Fatalf("expected blur, got action=%v focused=%v", res.Action, s.Focused)
	}
}

func TestHandleKeyRunesInsertsText(t *testing.T) {
	s := New()
	res := s.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h', 'i'}})
	if res.Action != ActionChanged || s.Text != "hi" {
		t.Fatalf("text = %q action=%v, want hi/Changed", s.Text, res.Action)
	}
}

func TestClickAtPlacesCursor(t *testing.T) {
	s := WithText("hello world")
	s.ClickAt(charWidth * 3)
	if s.Cursor != 3 {
		t.Fatalf("cursor = %d, want 3", s.Cursor)
	}
}

func TestScrollByClampsToLineCount(t *testing.T) {
	s := MultiLineWithText("editor", "one\ntwo\nthree")
	s.ScrollBy(1000)
	if s.ScrollOffset != 0 {
		t.Fatalf("scroll offset = %v, want 0 (only 3 short lines)", s.ScrollOffset)
	}
}

func TestApplyMouseFocusesAndClicks(t *testing.T) {
	s := WithText("hello")
	s.ApplyMouse(MouseAction{Kind: MouseClick1D, X: charWidth * 2})
	if !s.Focused {
		t.Fatalf("expected ApplyMouse to focus the input")
	}
	if s.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2", s.Cursor)
	}
}

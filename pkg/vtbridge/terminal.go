// Package vtbridge adapts github.com/danielgatis/go-headless-term into the
// VT parser contract a Block's Parser needs: feed bytes, read back a cell
// grid, title, and mode bits (spec §4.2). The headless-term library already
// implements a full VT220-compatible emulator with scrollback, Sixel, and
// Kitty graphics, so Nexus wraps it rather than hand-rolling a parser.
package vtbridge

import (
	headlessterm "github.com/danielgatis/go-headless-term"
)

// Cell is the renderer-facing projection of one terminal cell.
type Cell struct {
	Char rune
	Fg   *[3]uint8
	Bg   *[3]uint8
	Bold bool
	Italic bool
	Underline bool
}

// Terminal wraps a headless-term emulator with the title-tracking and
// dirty-region bookkeeping the Shell Widget's PTY coalescing loop needs
// (spec §4.1 "Flush feeds the parser once, extracts any pending OSC
// title, bumps version").
type Terminal struct {
	inner        *headlessterm.Terminal
	pendingTitle string
}

// titleSink implements headlessterm.TitleProvider, capturing OSC 0/1/2
// title changes so the Shell Widget can read and clear them per flush.
type titleSink struct {
	t *Terminal
}

func (s *titleSink) SetTitle(title string) { s.t.pendingTitle = title }
func (s *titleSink) PushTitle()             {}
func (s *titleSink) PopTitle()              {}

// New creates a Terminal sized rows x cols.
func New(rows, cols int) *Terminal {
	t := &Terminal{}
	t.inner = headlessterm.New()
	t.inner.SetTitleProvider(&titleSink{t: t})
	t.inner.Resize(rows, cols)
	return t
}

// Feed writes raw PTY output bytes into the emulator, advancing its state
// machine. It is called at most once per coalesced batch per block (spec
// §4.1 "PTY event coalescing").
func (t *Terminal) Feed(data []byte) {
	_, _ = t.inner.Write(data)
}

// Resize changes the emulator's grid dimensions. The Shell Widget is
// responsible for debouncing column downsizes before calling this (spec
// §4.1 "Terminal size propagation").
func (t *Terminal) Resize(rows, cols int) {
	t.inner.Resize(rows, cols)
}

// Rows and Cols report the current grid dimensions.
func (t *Terminal) Rows() int { return t.inner.Rows() }
func (t *Terminal) Cols() int { return t.inner.Cols() }

// Cell returns the renderer-facing projection of the cell at (row, col), or
// nil if out of bounds.
func (t *Terminal) Cell(row, col int) *Cell {
	c := t.inner.Cell(row, col)
	if c == nil {
		return nil
	}
	out := &Cell{
		Char:      c.Char,
		Bold:      c.HasFlag(headlessterm.CellFlagBold),
		Italic:    c.HasFlag(headlessterm.CellFlagItalic),
		Underline: c.HasFlag(headlessterm.CellFlagUnderline),
	}
	if c.Fg != nil {
		r, g, b, _ := c.Fg.RGBA()
		out.Fg = &[3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	if c.Bg != nil {
		r, g, b, _ := c.Bg.RGBA()
		out.Bg = &[3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	return out
}

// CursorPos returns the 0-based cursor position.
func (t *Terminal) CursorPos() (row, col int) { return t.inner.CursorPos() }

// CursorVisible reports whether the cursor should be drawn.
func (t *Terminal) CursorVisible() bool { return t.inner.CursorVisible() }

// Title returns the most recently captured OSC title text.
func (t *Terminal) Title() string { return t.inner.Title() }

// TakeOSCTitle returns the pending title set since the last call and clears
// it, matching the "extracts any pending OSC title" flush semantics.
func (t *Terminal) TakeOSCTitle() (string, bool) {
	if t.pendingTitle == "" {
		return "", false
	}
	title := t.pendingTitle
	t.pendingTitle = ""
	return title, true
}

// BracketedPasteEnabled reports whether the application has requested
// bracketed-paste mode, which Paste() must honour by wrapping text in the
// ESC[200~ / ESC[201~ markers (spec §4.1 "honouring bracketed-paste mode").
func (t *Terminal) BracketedPasteEnabled() bool {
	return t.inner.HasMode(headlessterm.ModeBracketedPaste)
}

// ApplicationCursorKeys reports whether arrow keys should be encoded in
// application mode (ESC O x) rather than normal mode (ESC [ x).
func (t *Terminal) ApplicationCursorKeys() bool {
	return t.inner.HasMode(headlessterm.ModeCursorKeys)
}

// HasDirty reports whether any cells changed since the last ClearDirty.
func (t *Terminal) HasDirty() bool { return t.inner.HasDirty() }

// ClearDirty resets the dirty-cell tracking after a render.
func (t *Terminal) ClearDirty() { t.inner.ClearDirty() }

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/addressing"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/agent"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/block"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/config"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/identity"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/layout"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/selection"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/vtbridge"
)

// View implements tea.Model. It splits the frame into the history and agent
// panes per the configured preset, lays each pane's content into a
// layout.Snapshot — panes and blocks registered as sources, lines lowered to
// TextRun primitives — and drives the snapshot through the pipeline
// rasterizer (Prepare/Render) to produce the frame body. The last row is
// reserved for whichever text input currently has focus, rendered directly
// with lipgloss: a single-line prompt has no selection surface worth
// routing through the pipeline.
func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	bodyHeight := m.height - 1
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	preset := config.Preset(m.cfg.Layout.Preset)
	rects := layout.NewLayout(preset.Direction, preset.Constraints...).
		Split(layout.Rect{X: 0, Y: 0, Width: m.width, Height: bodyHeight})

	snapshot := layout.NewSnapshot()
	snapshot.Viewport = layout.Rect{X: 0, Y: 0, Width: m.width, Height: bodyHeight}
	ordering := addressing.NewSourceOrdering()
	agentBlocks := make(map[identity.SourceId]identity.BlockId)

	for i, name := range preset.Panes {
		if i >= len(rects) {
			break
		}
		m.renderPaneInto(snapshot, ordering, agentBlocks, name, rects[i])
	}

	m.pipe.Prepare(snapshot)
	grid := m.pipe.Render(bodyHeight, m.width)

	m.snapshot = snapshot
	m.ordering = ordering
	m.agentBlockByID = agentBlocks
	m.widgets = m.inputWidgetBounds(bodyHeight)

	return grid.Render() + "\n" + m.renderInputBar()
}

func (m *AppModel) renderPaneInto(snapshot *layout.Snapshot, ordering *addressing.SourceOrdering, agentBlocks map[identity.SourceId]identity.BlockId, name string, r layout.Rect) {
	switch name {
	case "agent":
		m.renderAgentPaneInto(snapshot, ordering, agentBlocks, r)
	default:
		m.renderHistoryPaneInto(snapshot, ordering, r)
	}
}

// sourcedLine pairs one rendered text row with the block-derived SourceId it
// belongs to, so a hit-test on that row resolves back to its owning block.
type sourcedLine struct {
	sourceID identity.SourceId
	text     string
}

func (m *AppModel) renderHistoryPaneInto(snapshot *layout.Snapshot, ordering *addressing.SourceOrdering, r layout.Rect) {
	addPaneBorder(snapshot.Primitives, r, m.paneColor(m.focusedOnHistory()))
	ordering.Register(m.historySourceID)

	interior := r.Inner(1)
	if interior.Empty() {
		return
	}

	var flat []sourcedLine
	for _, b := range m.shellWidget.Blocks() {
		child := m.historySourceID.Child(uint64(b.ID))
		for _, ln := range renderBlockLines(b, interior.Width) {
			flat = append(flat, sourcedLine{child, ln})
		}
	}

	m.emitLines(snapshot, ordering, interior, visibleTailSourced(flat, interior.Height))
}

func (m *AppModel) renderAgentPaneInto(snapshot *layout.Snapshot, ordering *addressing.SourceOrdering, agentBlocks map[identity.SourceId]identity.BlockId, r layout.Rect) {
	addPaneBorder(snapshot.Primitives, r, m.paneColor(!m.focusedOnHistory()))
	ordering.Register(m.agentSourceID)

	interior := r.Inner(1)
	if interior.Empty() {
		return
	}

	var flat []sourcedLine
	for _, b := range m.agentMgr.Blocks {
		child := m.agentSourceID.Child(uint64(b.ID))
		agentBlocks[child] = b.ID
		for _, ln := range renderAgentBlockLines(b) {
			flat = append(flat, sourcedLine{child, ln})
		}
	}

	m.emitLines(snapshot, ordering, interior, visibleTailSourced(flat, interior.Height))
}

// emitLines lowers a pane's visible lines into TextRun primitives clipped to
// interior, and registers each line's block source with a single-line
// TextLayout so selection.HitTest/TextHit can resolve clicks within it.
func (m *AppModel) emitLines(snapshot *layout.Snapshot, ordering *addressing.SourceOrdering, interior layout.Rect, lines []sourcedLine) {
	batch := snapshot.Primitives
	batch.PushClip(interior)
	defer batch.PopClip()

	fg := parseHexColor(m.theme.Foreground)
	for i, sl := range lines {
		text := truncateToWidth(sl.text, interior.Width)
		y := interior.Y + i
		pos := layout.Point{X: float32(interior.X), Y: float32(y)}
		batch.AddTextRun(text, pos, fg, 1, nil, false, false)

		lineRect := layout.Rect{X: interior.X, Y: y, Width: interior.Width, Height: 1}
		snapshot.RegisterSource(sl.sourceID, lineRect, layout.Item{
			Kind: layout.ItemText,
			Text: makeTextLayout(text, lineRect),
		})
		ordering.Register(sl.sourceID)
	}
}

func (m *AppModel) renderInputBar() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Foreground))
	prompt := m.cwd + " $ "
	text := m.commandInput.Text
	if focused, ok := m.router.Focused(); ok && focused == m.agentMgr.QuestionInput.ID() {
		prompt = "agent> "
		text = m.agentMgr.QuestionInput.Text
	}
	return style.Render(prompt + text)
}

// inputWidgetBounds returns the small-widget hit-test candidate for
// whichever text input currently has focus, pinned to row (the input bar).
func (m *AppModel) inputWidgetBounds(row int) []selection.WidgetBounds {
	bounds := layout.Rect{X: 0, Y: row, Width: m.width, Height: 1}
	id := m.commandInput.ID()
	if !m.focusedOnHistory() {
		id = m.agentMgr.QuestionInput.ID()
	}
	return []selection.WidgetBounds{{Source: id, Bounds: bounds}}
}

// focusedOnHistory reports whether the command input (rather than the
// agent question input) currently holds keyboard focus.
func (m *AppModel) focusedOnHistory() bool {
	focused, ok := m.router.Focused()
	return !ok || focused == m.commandInput.ID()
}

func (m *AppModel) paneColor(focused bool) layout.Color {
	if focused {
		return parseHexColor(m.theme.BorderFocus)
	}
	return parseHexColor(m.theme.Border)
}

// addPaneBorder draws a one-cell outline around r using box-drawing
// characters via AddTextRun, not AddBorder: the pipeline composites a
// Border primitive as a filled rectangle covering the whole instance, which
// would paint over a pane's content rather than outline it. Box-drawing
// runes lower to solid-cell instances in the gather pass, so the outline
// still reaches the grid as a colored ring, not glyphs.
func addPaneBorder(batch *layout.PrimitiveBatch, r layout.Rect, color layout.Color) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	horiz := strings.Repeat("─", r.Width-2)
	batch.AddTextRun("┌"+horiz+"┐", layout.Point{X: float32(r.X), Y: float32(r.Y)}, color, 1, nil, false, false)
	batch.AddTextRun("└"+horiz+"┘", layout.Point{X: float32(r.X), Y: float32(r.Bottom() - 1)}, color, 1, nil, false, false)
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		batch.AddTextRun("│", layout.Point{X: float32(r.X), Y: float32(y)}, color, 1, nil, false, false)
		batch.AddTextRun("│", layout.Point{X: float32(r.Right() - 1), Y: float32(y)}, color, 1, nil, false, false)
	}
}

// makeTextLayout builds a single-line TextLayout: one character per cell,
// so CharEdges is simply 1..n and LineBreaks stays empty (selection.TextHit
// falls back to treating the whole item as one line when LineBreaks is
// empty).
func makeTextLayout(text string, bounds layout.Rect) *layout.TextLayout {
	n := len([]rune(text))
	edges := make([]float32, n)
	for i := range edges {
		edges[i] = float32(i + 1)
	}
	return &layout.TextLayout{
		Bounds:     bounds,
		Text:       text,
		CharEdges:  edges,
		LineHeight: 1,
		CharCount:  n,
	}
}

// parseHexColor parses a "#rrggbb" string (pkg/theme's palette format) into
// a layout.Color with A=1. Malformed input renders as opaque black rather
// than erroring, since a bad theme string should degrade, not crash the
// frame.
func parseHexColor(hex string) layout.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return layout.Color{A: 1}
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return layout.Color{A: 1}
	}
	return layout.Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

// visibleTailSourced returns the last height lines of lines, or all of them
// if there are fewer.
func visibleTailSourced(lines []sourcedLine, height int) []sourcedLine {
	if height <= 0 {
		return nil
	}
	if len(lines) <= height {
		return lines
	}
	return lines[len(lines)-height:]
}

func renderBlockLines(b *block.Block, width int) []string {
	var lines []string
	lines = append(lines, b.Command)
	switch {
	case b.Parser != nil:
		lines = append(lines, vtLines(b.Parser)...)
	case b.NativeOutput != nil:
		lines = append(lines, strings.Split(b.NativeOutput.ToText(), "\n")...)
	case b.StreamLatest != nil:
		lines = append(lines, strings.Split(b.StreamLatest.ToText(), "\n")...)
	}
	if b.State != block.StateRunning {
		lines = append(lines, "")
	}
	return lines
}

// vtLines flattens a block's VT parser grid into plain text rows, one
// string per terminal row, trailing blanks included so row count stays
// stable across redraws.
func vtLines(t *vtbridge.Terminal) []string {
	rows := t.Rows()
	cols := t.Cols()
	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		for col := 0; col < cols; col++ {
			cell := t.Cell(row, col)
			if cell == nil || cell.Char == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(cell.Char)
		}
		lines[row] = b.String()
	}
	return lines
}

func renderAgentBlockLines(b *agent.Block) []string {
	var lines []string
	lines = append(lines, "> "+b.Query)
	if b.Thinking != "" && !b.ThinkingCollapsed {
		lines = append(lines, strings.Split(b.Thinking, "\n")...)
	}
	if b.Response != "" {
		lines = append(lines, strings.Split(b.Response, "\n")...)
	}
	if b.FailedMsg != "" {
		lines = append(lines, "error: "+b.FailedMsg)
	}
	lines = append(lines, b.FooterText())
	return lines
}

package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/gapedit/internal/buffer"
	"github.com/kobzarvs/gapedit/internal/config"
	"github.com/kobzarvs/gapedit/internal/highlight"
)

type styles struct {
	main             tcell.Style
	status           tcell.Style
	command          tcell.Style
	lineNumber       tcell.Style
	lineNumberActive tcell.Style
	selection        tcell.Style
	syntax           map[string]tcell.Style
}

func newStyles(t config.Theme) styles {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	statusFg := parseColor(t.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(t.StatuslineBackground, tcell.ColorGray)
	fg := func(c tcell.Color) tcell.Style {
		return tcell.StyleDefault.Foreground(c).Background(mainBg)
	}
	syntax := map[string]string{
		"keyword":     t.SyntaxKeyword,
		"string":      t.SyntaxString,
		"comment":     t.SyntaxComment,
		"type":        t.SyntaxType,
		"function":    t.SyntaxFunction,
		"number":      t.SyntaxNumber,
		"constant":    t.SyntaxConstant,
		"operator":    t.SyntaxOperator,
		"punctuation": t.SyntaxPunctuation,
		"field":       t.SyntaxField,
		"builtin":     t.SyntaxBuiltin,
		"variable":    t.SyntaxVariable,
		"parameter":   t.SyntaxParameter,
	}
	st := styles{
		main:             fg(mainFg),
		status:           tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		command:          tcell.StyleDefault.Foreground(parseColor(t.CommandlineForeground, mainFg)).Background(parseColor(t.CommandlineBackground, mainBg)),
		lineNumber:       fg(parseColor(t.LineNumberForeground, tcell.ColorGray)),
		lineNumberActive: fg(parseColor(t.LineNumberActiveForeground, mainFg)),
		selection:        tcell.StyleDefault.Foreground(parseColor(t.SelectionForeground, mainFg)).Background(parseColor(t.SelectionBackground, tcell.ColorNavy)),
		syntax:           make(map[string]tcell.Style, len(syntax)),
	}
	for kind, color := range syntax {
		st.syntax[kind] = fg(parseColor(color, mainFg))
	}
	return st
}

func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = -1
		viewHeight = 0
	}
	e.viewHeight = viewHeight

	var lines [][]rune
	var cur buffer.Position
	if e.debug {
		lines = e.buf.RawLines()
		cur = e.buf.RawPosition()
	} else {
		lines = e.buf.TextLines()
		pos, err := e.buf.CursorPosition()
		if err != nil {
			e.apply(err, false)
		}
		cur = pos
	}
	row := cur.Line - 1
	e.ensureCursorVisible(row, viewHeight)
	sel := e.resolveSelection(cur)

	s.SetStyle(e.styles.main)
	s.Clear()

	gutterWidth := e.gutterWidth(len(lines))
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= len(lines) {
			clearLine(s, y, w, e.styles.main)
			continue
		}
		e.drawGutter(s, y, w, gutterWidth, lineIdx, row)
		if gutterWidth >= w {
			continue
		}
		e.drawLine(s, y, w, gutterWidth, lines[lineIdx], lineIdx, sel)
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY, cur)
	}
	promptX := e.renderCommandline(s, w, cmdY)

	if e.mode == ModePrompt {
		s.ShowCursor(promptX, cmdY)
		s.Show()
		return
	}
	cy := row - e.scroll
	if cy < 0 || cy >= viewHeight || row >= len(lines) {
		s.HideCursor()
		s.Show()
		return
	}
	cx := gutterWidth + visualCol(lines[row], cur.Column-1, e.tabWidth)
	if cx >= w {
		cx = w - 1
	}
	s.ShowCursor(cx, cy)
	s.Show()
}

// ensureCursorVisible recentres the view by half a window whenever the
// cursor leaves it.
func (e *Editor) ensureCursorVisible(row, viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	if row >= e.scroll && row < e.scroll+viewHeight {
		return
	}
	e.scroll = row - viewHeight/2
	if e.scroll < 0 {
		e.scroll = 0
	}
}

// selection is the ordered mark/cursor range for one frame.
type selection struct {
	start, end buffer.Position
	ok         bool
}

// resolveSelection orders the mark against the frame's cursor position.
func (e *Editor) resolveSelection(cur buffer.Position) selection {
	if e.debug {
		return selection{}
	}
	mark, ok := e.buf.Mark()
	if !ok {
		return selection{}
	}
	if cur.Less(mark) {
		return selection{start: cur, end: mark, ok: true}
	}
	return selection{start: mark, end: cur, ok: true}
}

// selectionColumns returns the 0-based selected cells [start, end) of a
// 0-based line. Lines fully inside the selection include their newline
// cell.
func selectionColumns(sel selection, lineIdx, lineLen int) (int, int, bool) {
	if !sel.ok {
		return 0, 0, false
	}
	start, end := sel.start, sel.end
	line := lineIdx + 1
	if line < start.Line || line > end.Line {
		return 0, 0, false
	}
	from, to := 0, lineLen+1
	if line == start.Line {
		from = start.Column - 1
	}
	if line == end.Line {
		to = end.Column - 1
	}
	if to <= from {
		return 0, 0, false
	}
	return from, to, true
}

func (e *Editor) drawLine(s tcell.Screen, y, w, startX int, line []rune, lineIdx int, sel selection) {
	selStart, selEnd, selected := selectionColumns(sel, lineIdx, len(line))
	var spans []highlight.Span
	if !e.debug && e.highlightStart >= 0 && lineIdx >= e.highlightStart && lineIdx <= e.highlightEnd {
		spans = e.highlights[lineIdx]
	}
	_, selBg, _ := e.styles.selection.Decompose()

	x := startX
	col := 0
	for idx, r := range line {
		if x >= w {
			break
		}
		style := e.styles.main
		if kind, ok := highlight.KindAt(spans, idx); ok {
			if st, ok := e.styles.syntax[kind]; ok {
				style = st
			}
		}
		if selected && idx >= selStart && idx < selEnd {
			style = style.Background(selBg)
		}
		if r == '\t' {
			spaces := e.tabWidth - (col % e.tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
				col++
			}
			continue
		}
		width := cellWidth(r)
		if x+width > w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += width
		col += width
	}
	if selected && selEnd > len(line) && x < w {
		s.SetContent(x, y, ' ', nil, e.styles.main.Background(selBg))
		x++
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styles.main)
		x++
	}
}

// displayName is the buffer path relative to the repository root, or its
// base name outside a repository.
func (e *Editor) displayName() string {
	path := e.buf.Path()
	if path == "" {
		return "[No Name]"
	}
	if e.gitRoot != "" {
		if abs, err := filepath.Abs(path); err == nil {
			rel, err := filepath.Rel(e.gitRoot, abs)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return rel
			}
		}
	}
	return filepath.Base(path)
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int, cur buffer.Position) {
	name := e.displayName()
	if e.buf.Modified() {
		name += "[+]"
	}
	left := " " + name + " "
	if e.debug {
		left += "DEBUG "
	}
	right := fmt.Sprintf(" Ln %d, Col %d ", cur.Line, cur.Column)
	if e.gitBranch != "" {
		right = fmt.Sprintf(" Ln %d, Col %d | %s ", cur.Line, cur.Column, formatGitBranch(e.gitBranchSymbol, e.gitBranch))
	}
	drawCells(s, 0, y, w, composeStatusLine(left, right, w), e.styles.status)
}

// renderCommandline draws the prompt, the status message or, in debug mode,
// the storage counters. It returns the prompt cursor column.
func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	clearLine(s, y, w, e.styles.command)
	var text []rune
	cursorX := 0
	switch {
	case e.mode == ModePrompt && e.prompt != nil:
		label := []rune(e.promptLabel)
		text = append(label, e.prompt.Text()...)
		cursorX = runesWidth(label) + runesWidth(e.prompt.Text()[:e.prompt.CursorOffset()])
	case e.statusMessage != "":
		text = []rune(e.statusMessage)
	case e.debug:
		text = []rune(e.buf.Stats())
	}
	drawCells(s, 0, y, w, text, e.styles.command)
	if cursorX >= w {
		cursorX = w - 1
	}
	return cursorX
}

func drawCells(s tcell.Screen, x, y, w int, text []rune, style tcell.Style) {
	for _, r := range text {
		width := cellWidth(r)
		if x+width > w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += width
	}
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// cellWidth is the number of screen columns r takes. Zero-width runes still
// get a column of their own; cells are never merged into clusters.
func cellWidth(r rune) int {
	if w := uniseg.StringWidth(string(r)); w > 1 {
		return w
	}
	return 1
}

func runesWidth(text []rune) int {
	n := 0
	for _, r := range text {
		n += cellWidth(r)
	}
	return n
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") {
		return symbol + branch
	}
	return symbol + " " + branch
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// visualCol is the screen column of cell col, expanding tabs.
func visualCol(line []rune, col int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	x := 0
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			x += tabWidth - (x % tabWidth)
			continue
		}
		x += cellWidth(line[i])
	}
	return x
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

func (e *Editor) gutterWidth(lineCount int) int {
	if e.lineNumberMode == LineNumberOff {
		return 0
	}
	digits := len(strconv.Itoa(lineCount))
	if digits < 2 {
		digits = 2
	}
	// " " + number + " "
	return digits + 2
}

func (e *Editor) drawGutter(s tcell.Screen, y, w, gutterWidth, lineIdx, cursorRow int) {
	if gutterWidth == 0 {
		return
	}
	num := lineIdx + 1
	if e.lineNumberMode == LineNumberRelative && lineIdx != cursorRow {
		num = lineIdx - cursorRow
		if num < 0 {
			num = -num
		}
	}
	style := e.styles.lineNumber
	if lineIdx == cursorRow {
		style = e.styles.lineNumberActive
	}
	text := []rune(fmt.Sprintf(" %*d ", gutterWidth-2, num))
	drawCells(s, 0, y, w, text, style)
}

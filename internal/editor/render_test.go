package editor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gapedit/internal/buffer"
	"github.com/kobzarvs/gapedit/internal/config"
	"github.com/kobzarvs/gapedit/internal/highlight"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	return s
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func noGutter() config.Config {
	cfg := config.Default()
	cfg.Editor.LineNumbers = "off"
	return cfg
}

func TestRenderGutterAndText(t *testing.T) {
	e := newTestEditor("abc\ndef")
	s := newScreen(t, 20, 5)
	defer s.Fini()

	e.Render(s)
	if got := rowText(s, 0); !strings.HasPrefix(got, "  1 abc ") {
		t.Fatalf("row 0 = %q", got)
	}
	if got := rowText(s, 1); !strings.HasPrefix(got, "  2 def ") {
		t.Fatalf("row 1 = %q", got)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 4 || y != 0 {
		t.Fatalf("cursor = (%d,%d,%v), want (4,0,true)", x, y, visible)
	}
}

func TestRenderStatusLine(t *testing.T) {
	e := New(config.Default())
	e.buf = buffer.FromRunes([]rune("abc"), buffer.WithPath("/tmp/notes.txt"))
	e.buf.SetModified(true)
	e.SetGitBranch("main")
	s := newScreen(t, 50, 5)
	defer s.Fini()

	e.Render(s)
	status := rowText(s, 3)
	if !strings.HasPrefix(status, " notes.txt[+] ") {
		t.Fatalf("status left = %q", status)
	}
	if !strings.HasSuffix(status, " Ln 1, Col 1 | git:main ") {
		t.Fatalf("status right = %q", status)
	}
}

func TestStatusLineNameRelativeToGitRoot(t *testing.T) {
	e := New(config.Default())
	root := filepath.Join(string(filepath.Separator), "src", "repo")
	e.buf = buffer.FromRunes(nil, buffer.WithPath(filepath.Join(root, "internal", "a.go")))
	if got := e.displayName(); got != "a.go" {
		t.Fatalf("name without root = %q", got)
	}
	e.SetGitRoot(root)
	if got, want := e.displayName(), filepath.Join("internal", "a.go"); got != want {
		t.Fatalf("name = %q, want %q", got, want)
	}
	e.buf.SetPath(filepath.Join(string(filepath.Separator), "elsewhere", "b.go"))
	if got := e.displayName(); got != "b.go" {
		t.Fatalf("name outside root = %q", got)
	}
}

func TestRenderStatusLineNoName(t *testing.T) {
	e := newTestEditor("")
	s := newScreen(t, 30, 4)
	defer s.Fini()

	e.Render(s)
	if got := rowText(s, 2); !strings.HasPrefix(got, " [No Name] ") {
		t.Fatalf("status = %q", got)
	}
}

func TestRenderCursorWithTab(t *testing.T) {
	e := New(noGutter())
	e.buf = buffer.FromRunes([]rune("a\tb"))
	press(t, e, plainKey(tcell.KeyRight), plainKey(tcell.KeyRight))
	s := newScreen(t, 20, 5)
	defer s.Fini()

	e.Render(s)
	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatalf("cursor not visible")
	}
	if x != 4 || y != 0 {
		t.Fatalf("cursor = (%d,%d), want (4,0)", x, y)
	}
	if got := rowText(s, 0); !strings.HasPrefix(got, "a   b") {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestRenderWideRuneCursor(t *testing.T) {
	e := New(noGutter())
	e.buf = buffer.FromRunes([]rune("世a"))
	press(t, e, ctrlKey(tcell.KeyCtrlE))
	s := newScreen(t, 20, 5)
	defer s.Fini()

	e.Render(s)
	x, _, _ := s.GetCursor()
	if x != 3 {
		t.Fatalf("cursor x = %d, want 3", x)
	}
}

func TestRenderSelectionStyle(t *testing.T) {
	e := New(noGutter())
	e.buf = buffer.FromRunes([]rune("abc"))
	press(t, e, ctrlKey(tcell.KeyCtrlSpace), plainKey(tcell.KeyRight), plainKey(tcell.KeyRight))
	s := newScreen(t, 10, 3)
	defer s.Fini()

	e.Render(s)
	cells, w, _ := s.GetContents()
	_, bgSelected, _ := cells[0*w+1].Style.Decompose()
	_, bgNormal, _ := cells[0*w+2].Style.Decompose()
	if bgSelected == bgNormal {
		t.Fatalf("selection background not applied")
	}
}

func TestRenderSelectionAcrossLines(t *testing.T) {
	e := New(noGutter())
	e.buf = buffer.FromRunes([]rune("ab\ncd"))
	press(t, e, plainKey(tcell.KeyRight), ctrlKey(tcell.KeyCtrlSpace), plainKey(tcell.KeyDown))
	s := newScreen(t, 10, 4)
	defer s.Fini()

	e.Render(s)
	cells, w, _ := s.GetContents()
	bgAt := func(x, y int) tcell.Color {
		_, bg, _ := cells[y*w+x].Style.Decompose()
		return bg
	}
	plain := bgAt(0, 0)
	for _, c := range []struct{ x, y int }{{1, 0}, {2, 0}, {0, 1}} {
		if bgAt(c.x, c.y) == plain {
			t.Fatalf("cell (%d,%d) not selected", c.x, c.y)
		}
	}
	if bgAt(1, 1) != plain {
		t.Fatalf("cell under the cursor rendered as selected")
	}
}

func TestResolveSelectionOrdersMarkAndCursor(t *testing.T) {
	e := newTestEditor("abc\ndef")
	if got := e.resolveSelection(buffer.Position{Line: 1, Column: 1}); got.ok {
		t.Fatalf("selection without a mark: %+v", got)
	}
	if err := e.buf.MoveTo(buffer.Position{Line: 2, Column: 3}); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	press(t, e, ctrlKey(tcell.KeyCtrlSpace))
	got := e.resolveSelection(buffer.Position{Line: 1, Column: 2})
	want := selection{start: buffer.Position{Line: 1, Column: 2}, end: buffer.Position{Line: 2, Column: 3}, ok: true}
	if got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}
	e.SetDebug(true)
	if got := e.resolveSelection(buffer.Position{Line: 1, Column: 2}); got.ok {
		t.Fatalf("debug view resolved a selection")
	}
}

func TestRenderSyntaxHighlightStyle(t *testing.T) {
	e := New(noGutter())
	e.buf = buffer.FromRunes([]rune("abc"))
	e.SetHighlights(0, 0, map[int][]highlight.Span{
		0: {{StartCol: 0, EndCol: 1, Kind: "keyword"}},
	})
	s := newScreen(t, 10, 3)
	defer s.Fini()

	e.Render(s)
	cells, w, _ := s.GetContents()
	fgHl, _, _ := cells[0*w+0].Style.Decompose()
	fgPlain, _, _ := cells[0*w+1].Style.Decompose()
	if fgHl == fgPlain {
		t.Fatalf("highlight foreground not applied")
	}
}

func TestRenderPrompt(t *testing.T) {
	e := newTestEditor("x")
	press(t, e, ctrlKey(tcell.KeyCtrlX))
	typeText(t, e, "a.go")
	s := newScreen(t, 30, 4)
	defer s.Fini()

	e.Render(s)
	if got := rowText(s, 3); !strings.HasPrefix(got, "Save as: a.go") {
		t.Fatalf("command line = %q", got)
	}
	x, y, _ := s.GetCursor()
	if x != len("Save as: a.go") || y != 3 {
		t.Fatalf("cursor = (%d,%d), want (%d,3)", x, y, len("Save as: a.go"))
	}
}

func TestRenderStatusMessage(t *testing.T) {
	e := newTestEditor("x")
	e.SetStatusMessage("hello there")
	s := newScreen(t, 30, 4)
	defer s.Fini()

	e.Render(s)
	if got := rowText(s, 3); !strings.HasPrefix(got, "hello there") {
		t.Fatalf("command line = %q", got)
	}
}

func TestRenderScrollsByHalfWindow(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	e := newTestEditor(strings.Join(lines, "\n"))
	if err := e.buf.MoveTo(buffer.Position{Line: 10, Column: 1}); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	s := newScreen(t, 20, 7)
	defer s.Fini()

	e.Render(s)
	start, end := e.VisibleLines()
	if start != 7 || end != 11 {
		t.Fatalf("visible = %d..%d, want 7..11", start, end)
	}
	_, y, _ := s.GetCursor()
	if y != 2 {
		t.Fatalf("cursor y = %d, want 2", y)
	}

	// Moving within the window does not scroll.
	press(t, e, plainKey(tcell.KeyDown))
	e.Render(s)
	if start, _ := e.VisibleLines(); start != 7 {
		t.Fatalf("scrolled to %d inside the window", start)
	}
}

func TestRenderDebugView(t *testing.T) {
	cfg := noGutter()
	cfg.Editor.InitialCapacity = 4
	e := New(cfg)
	e.SetDebug(true)
	typeText(t, e, "ab")
	s := newScreen(t, 30, 4)
	defer s.Fini()

	e.Render(s)
	if got := rowText(s, 0); !strings.HasPrefix(got, "ab__ ") {
		t.Fatalf("raw row = %q", got)
	}
	if got := rowText(s, 3); !strings.HasPrefix(got, "cap=4 cursor=2 gap=2+2") {
		t.Fatalf("command line = %q", got)
	}
	if got := rowText(s, 2); !strings.Contains(got, "DEBUG") {
		t.Fatalf("status = %q", got)
	}
	x, _, _ := s.GetCursor()
	if x != 2 {
		t.Fatalf("cursor x = %d, want 2", x)
	}
}

func TestComposeStatusLine(t *testing.T) {
	if got := string(composeStatusLine("ab", "cd", 6)); got != "ab  cd" {
		t.Fatalf("compose = %q", got)
	}
	if got := string(composeStatusLine("abcdef", "xy", 5)); got != "abcxy" {
		t.Fatalf("compose truncated = %q", got)
	}
	if got := string(composeStatusLine("ab", "wxyz", 3)); got != "xyz" {
		t.Fatalf("compose right only = %q", got)
	}
}

func TestFormatGitBranch(t *testing.T) {
	if got := formatGitBranch("", "main"); got != "git:main" {
		t.Fatalf("default symbol = %q", got)
	}
	if got := formatGitBranch("branch", "dev"); got != "branch dev" {
		t.Fatalf("custom symbol = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	if got := parseColor("#ff0000", tcell.ColorBlack); got != tcell.NewHexColor(0xff0000) {
		t.Fatalf("hex color = %v", got)
	}
	if got := parseColor("nonsense", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("fallback = %v", got)
	}
	if got := parseColor("", tcell.ColorGreen); got != tcell.ColorGreen {
		t.Fatalf("empty = %v", got)
	}
}

package buffer

import (
	"errors"
	"testing"
)

func cursorPos(t *testing.T, b *Buffer) Position {
	t.Helper()
	pos, err := b.CursorPosition()
	if err != nil {
		t.Fatalf("CursorPosition: %v", err)
	}
	return pos
}

func TestCursorPositionCountsLinesAndColumns(t *testing.T) {
	b := New()
	if err := b.InsertString("ab\ncde\n"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := cursorPos(t, b); got != (Position{Line: 3, Column: 1}) {
		t.Fatalf("end position = %v, want 3:1", got)
	}
	for i := 0; i < 2; i++ {
		if err := b.Go(Char, Left); err != nil {
			t.Fatalf("go: %v", err)
		}
	}
	if got := cursorPos(t, b); got != (Position{Line: 2, Column: 3}) {
		t.Fatalf("position = %v, want 2:3", got)
	}
	if err := b.MoveTo(Position{Line: 1, Column: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := cursorPos(t, b); got != (Position{Line: 1, Column: 1}) {
		t.Fatalf("position = %v, want 1:1", got)
	}
}

func TestCursorPositionRequiresAlignedGap(t *testing.T) {
	b := newTestBuffer("abc")
	_, err := b.cursorPosition()
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("err = %v, want ErrInvariant", err)
	}
	if _, err := b.CursorPosition(); err != nil {
		t.Fatalf("CursorPosition after align: %v", err)
	}
}

func TestLogicalPhysicalMapping(t *testing.T) {
	b := New()
	if err := b.InsertString("abcd"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.MoveTo(Position{Line: 1, Column: 3}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := b.alignGap(); err != nil {
		t.Fatalf("align: %v", err)
	}
	// gap now at 2 with 6 cells.
	if got := b.logical(2); got != 2 {
		t.Fatalf("logical(2) = %d, want 2", got)
	}
	if got := b.logical(8); got != 2 {
		t.Fatalf("logical(8) = %d, want 2", got)
	}
	if got := b.physical(3); got != 9 {
		t.Fatalf("physical(3) = %d, want 9", got)
	}
	if got := b.physical(2); got != 2 {
		t.Fatalf("physical(2) = %d, want 2", got)
	}
	if b.at(2) != 'c' || b.at(1) != 'b' {
		t.Fatalf("at mismatch: %q %q", b.at(1), b.at(2))
	}
}

func TestLineCountAndTextLines(t *testing.T) {
	b := newTestBuffer("one\ntwo\n\nfour")
	if got := b.LineCount(); got != 4 {
		t.Fatalf("LineCount = %d, want 4", got)
	}
	lines := b.TextLines()
	want := []string{"one", "two", "", "four"}
	if len(lines) != len(want) {
		t.Fatalf("TextLines len = %d, want %d", len(lines), len(want))
	}
	for i, line := range lines {
		if string(line) != want[i] {
			t.Fatalf("line %d = %q, want %q", i, string(line), want[i])
		}
	}

	empty := New()
	if empty.LineCount() != 1 || len(empty.TextLines()) != 1 {
		t.Fatalf("empty buffer lines = %d/%d, want 1/1", empty.LineCount(), len(empty.TextLines()))
	}
}

func TestLineStartAndLength(t *testing.T) {
	b := newTestBuffer("abcdef\nxy\nabcdef")
	cases := []struct {
		line, start, length int
	}{
		{1, 0, 6},
		{2, 7, 2},
		{3, 10, 6},
		{4, 16, 0},
	}
	for _, c := range cases {
		if got := b.lineStart(c.line); got != c.start {
			t.Fatalf("lineStart(%d) = %d, want %d", c.line, got, c.start)
		}
		if got := b.lineLen(c.line); got != c.length {
			t.Fatalf("lineLen(%d) = %d, want %d", c.line, got, c.length)
		}
	}
}

func TestMoveToClamps(t *testing.T) {
	b := newTestBuffer("abcdef\nxy")
	if err := b.MoveTo(Position{Line: 2, Column: 40}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := cursorPos(t, b); got != (Position{Line: 2, Column: 3}) {
		t.Fatalf("position = %v, want 2:3", got)
	}
	if err := b.MoveTo(Position{Line: 9, Column: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := cursorPos(t, b); got != (Position{Line: 2, Column: 1}) {
		t.Fatalf("position = %v, want 2:1", got)
	}
	if err := b.MoveTo(Position{Line: 0, Column: 0}); err != nil {
		t.Fatalf("move: %v", err)
	}
	assertOffset(t, b, 0)
}

func TestOffsetOfClampsLikeMoveTo(t *testing.T) {
	b := newTestBuffer("abcdef\nxy")
	for _, p := range []Position{{Line: 9, Column: 1}, {Line: 2, Column: 40}, {Line: 0, Column: 0}} {
		if err := b.MoveTo(p); err != nil {
			t.Fatalf("move: %v", err)
		}
		if got, want := b.offsetOf(p), b.CursorOffset(); got != want {
			t.Fatalf("offsetOf(%v) = %d, MoveTo landed on %d", p, got, want)
		}
	}
}

func TestPositionLess(t *testing.T) {
	if !(Position{1, 5}).Less(Position{2, 1}) {
		t.Fatalf("1:5 should sort before 2:1")
	}
	if !(Position{1, 2}).Less(Position{1, 5}) {
		t.Fatalf("1:2 should sort before 1:5")
	}
	if (Position{1, 5}).Less(Position{1, 5}) {
		t.Fatalf("equal positions are not less")
	}
}

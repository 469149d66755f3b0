package buffer

import "fmt"

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Less orders positions by line, then column.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// logical maps a physical offset to the gap-free text.
func (b *Buffer) logical(p int) int {
	if p <= b.gapStart {
		return p
	}
	return p - b.gapLen
}

// physical maps a logical offset to storage. The boundary offset maps to
// gapStart, never to the trailing edge of the gap.
func (b *Buffer) physical(l int) int {
	if l <= b.gapStart {
		return l
	}
	return l + b.gapLen
}

// at returns the cell at logical offset l.
func (b *Buffer) at(l int) rune {
	if l < b.gapStart {
		return b.data[l]
	}
	return b.data[l+b.gapLen]
}

// CursorOffset is the cursor as a logical offset.
func (b *Buffer) CursorOffset() int {
	return b.logical(b.cursor)
}

// CursorPosition aligns the gap with the cursor and returns the cursor's
// line and column. Aligning never changes the logical text.
func (b *Buffer) CursorPosition() (Position, error) {
	if err := b.alignGap(); err != nil {
		return Position{}, err
	}
	return b.cursorPosition()
}

// cursorPosition counts newlines up to the cursor. The gap must already be
// aligned with the cursor.
func (b *Buffer) cursorPosition() (Position, error) {
	if b.cursor != b.gapStart {
		return Position{}, b.violation("position", "gap not aligned with cursor")
	}
	off := b.logical(b.cursor)
	line, lastNewline := 1, -1
	for i := 0; i < off; i++ {
		if b.at(i) == '\n' {
			line++
			lastNewline = i
		}
	}
	return Position{Line: line, Column: off - lastNewline}, nil
}

// lineStart is the logical offset of the first cell of a 1-based line.
// Lines past the end map to the end of the text.
func (b *Buffer) lineStart(line int) int {
	if line <= 1 {
		return 0
	}
	n := b.Len()
	for i := 0; i < n; i++ {
		if b.at(i) == '\n' {
			line--
			if line == 1 {
				return i + 1
			}
		}
	}
	return n
}

// lineLen is the number of cells on a line, newline excluded.
func (b *Buffer) lineLen(line int) int {
	start := b.lineStart(line)
	n := b.Len()
	end := start
	for end < n && b.at(end) != '\n' {
		end++
	}
	return end - start
}

// offsetOf resolves a position to a logical offset, clamping the line to the
// existing lines and the column to the line's end.
func (b *Buffer) offsetOf(p Position) int {
	if n := b.LineCount(); p.Line > n {
		p.Line = n
	}
	col := p.Column
	if col < 1 {
		col = 1
	}
	if limit := b.lineLen(p.Line) + 1; col > limit {
		col = limit
	}
	return b.lineStart(p.Line) + col - 1
}

// MoveTo places the cursor at p, clamped to the existing lines and columns.
func (b *Buffer) MoveTo(p Position) error {
	b.cursor = b.physical(b.offsetOf(p))
	return b.check("move")
}

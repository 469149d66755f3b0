package buffer

import (
	"fmt"
	"strings"
)

// TextObject is the unit a motion or deletion operates on.
type TextObject int

const (
	Char TextObject = iota
	Word
	Line
)

func (o TextObject) String() string {
	switch o {
	case Char:
		return "char"
	case Word:
		return "word"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("TextObject(%d)", int(o))
	}
}

// Direction of a motion or deletion.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseTextObject accepts the names produced by TextObject.String.
func ParseTextObject(s string) (TextObject, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "char":
		return Char, nil
	case "word":
		return Word, nil
	case "line":
		return Line, nil
	}
	return Char, fmt.Errorf("unknown text object %q", s)
}

// ParseDirection accepts the names produced by Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return Left, fmt.Errorf("unknown direction %q", s)
}

const wordBoundaries = " \t\n\r`~!@#$%^&*()-=+[{]}\\|;:'\",.<>/?"

func isBoundary(r rune) bool {
	return strings.ContainsRune(wordBoundaries, r)
}

// objectOffset returns the signed logical distance from the cursor to where
// obj in direction dir ends. It aligns the gap first.
func (b *Buffer) objectOffset(obj TextObject, dir Direction) (int, error) {
	if err := b.alignGap(); err != nil {
		return 0, err
	}
	switch obj {
	case Char:
		switch dir {
		case Left:
			return -1, nil
		case Right:
			return 1, nil
		}
		return b.lineOffset(dir)
	case Word:
		return b.wordOffset(dir), nil
	case Line:
		return b.lineOffset(dir)
	}
	return 0, b.violation("offset", "unknown text object %d", int(obj))
}

// wordOffset moves right to the start of the next word and left to the start
// of the current or previous word.
func (b *Buffer) wordOffset(dir Direction) int {
	cur := b.logical(b.cursor)
	n := b.Len()
	switch dir {
	case Right:
		if cur >= n {
			return 0
		}
		i := cur
		for i < n && !isBoundary(b.at(i)) {
			i++
		}
		for i < n && isBoundary(b.at(i)) {
			i++
		}
		return i - cur
	case Left:
		if cur == 0 {
			return 0
		}
		// Scan the cells before the cursor; at the end of the text the first
		// candidate is n-1.
		i := cur - 1
		for i >= 0 && isBoundary(b.at(i)) {
			i--
		}
		for i >= 0 && !isBoundary(b.at(i)) {
			i--
		}
		return i + 1 - cur
	}
	return 0
}

// lineOffset handles line starts, line ends and vertical moves. Vertical
// moves keep the current column, clamped to the target line's end.
func (b *Buffer) lineOffset(dir Direction) (int, error) {
	pos, err := b.cursorPosition()
	if err != nil {
		return 0, err
	}
	cur := b.logical(b.cursor)
	switch dir {
	case Left:
		return -(pos.Column - 1), nil
	case Right:
		return b.lineLen(pos.Line) + 1 - pos.Column, nil
	case Up:
		if pos.Line == 1 {
			return 0, nil
		}
		return b.offsetOf(Position{Line: pos.Line - 1, Column: pos.Column}) - cur, nil
	case Down:
		if pos.Line == b.LineCount() {
			return 0, nil
		}
		return b.offsetOf(Position{Line: pos.Line + 1, Column: pos.Column}) - cur, nil
	}
	return 0, b.violation("offset", "unknown direction %d", int(dir))
}

// Go moves the cursor by obj in direction dir. Moves past either end of the
// text stop at the end.
func (b *Buffer) Go(obj TextObject, dir Direction) error {
	delta, err := b.objectOffset(obj, dir)
	if err != nil {
		return err
	}
	if delta == 0 {
		return nil
	}
	target := b.logical(b.cursor) + delta
	if target < 0 {
		target = 0
	}
	if target > b.Len() {
		target = b.Len()
	}
	next := b.physical(target)
	if next > len(b.data) {
		next = len(b.data)
	}
	// The cursor never rests on the trailing edge of the gap or inside it.
	if b.gapLen > 0 && next == b.gapStart+b.gapLen {
		next = b.gapStart
	}
	if b.inGap(next) {
		return b.violation("go", "target %d inside gap", next)
	}
	b.cursor = next
	return b.check("go")
}

// Delete removes the text between the cursor and where obj in direction dir
// ends, one cell at a time.
func (b *Buffer) Delete(obj TextObject, dir Direction) error {
	delta, err := b.objectOffset(obj, dir)
	if err != nil {
		return err
	}
	cur := b.logical(b.cursor)
	if cur+delta < 0 {
		delta = -cur
	}
	if cur+delta > b.Len() {
		delta = b.Len() - cur
	}
	if err := b.deleteCells(delta); err != nil {
		return err
	}
	return b.check("delete")
}

// deleteCells deletes |n| cells, forward for n > 0 and backward for n < 0.
func (b *Buffer) deleteCells(n int) error {
	for ; n > 0; n-- {
		if err := b.deleteForward(); err != nil {
			return err
		}
	}
	for ; n < 0; n++ {
		if err := b.deleteBackward(); err != nil {
			return err
		}
	}
	return nil
}

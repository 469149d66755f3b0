package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// InitialCapacity is the storage size of an empty buffer.
	InitialCapacity = 10
	// GrowthIncrement is how many cells grow adds when the gap runs out.
	GrowthIncrement = InitialCapacity
)

const (
	gapCell    = '_'
	cursorCell = '|'
)

// Buffer is a gap buffer with a single cursor, an optional selection mark
// and a private clipboard.
type Buffer struct {
	data     []rune
	gapStart int
	gapLen   int
	cursor   int // physical; never strictly inside the gap
	capacity int
	growth   int

	modified  bool
	path      string
	mark      *Position
	clipboard []rune
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithCapacity sets the storage size of an empty buffer.
func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithGrowth sets the number of cells added whenever the gap is exhausted.
func WithGrowth(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.growth = n
		}
	}
}

// WithPath records where the buffer content came from or goes to.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

func newBuffer(opts []Option) *Buffer {
	b := &Buffer{
		capacity: InitialCapacity,
		growth:   GrowthIncrement,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New returns an empty buffer whose gap spans the whole storage.
func New(opts ...Option) *Buffer {
	b := newBuffer(opts)
	b.reset()
	return b
}

// FromRunes returns a buffer holding text verbatim with an empty gap and the
// cursor at the start.
func FromRunes(text []rune, opts ...Option) *Buffer {
	b := newBuffer(opts)
	b.data = make([]rune, len(text))
	copy(b.data, text)
	b.gapStart = len(text)
	b.gapLen = 0
	b.cursor = 0
	return b
}

// FromBytes decodes data as UTF-8, one cell per code point. Invalid bytes
// decode to utf8.RuneError.
func FromBytes(data []byte, opts ...Option) *Buffer {
	text := make([]rune, 0, utf8.RuneCount(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		text = append(text, r)
		data = data[size:]
	}
	return FromRunes(text, opts...)
}

func (b *Buffer) reset() {
	b.data = make([]rune, b.capacity)
	b.gapStart = 0
	b.gapLen = b.capacity
	b.cursor = 0
	b.mark = nil
}

// Clear drops all text and the selection and marks the buffer modified.
// The path and clipboard survive.
func (b *Buffer) Clear() {
	b.reset()
	b.modified = true
}

// Len is the number of cells of logical text.
func (b *Buffer) Len() int {
	return len(b.data) - b.gapLen
}

// Cap is the storage size, gap included.
func (b *Buffer) Cap() int {
	return len(b.data)
}

func (b *Buffer) Modified() bool {
	return b.modified
}

func (b *Buffer) SetModified(modified bool) {
	b.modified = modified
}

// Path is empty when the buffer has never been loaded or saved.
func (b *Buffer) Path() string {
	return b.path
}

func (b *Buffer) SetPath(path string) {
	b.path = path
}

// Text returns a copy of the logical text.
func (b *Buffer) Text() []rune {
	text := make([]rune, 0, b.Len())
	text = append(text, b.data[:b.gapStart]...)
	text = append(text, b.data[b.gapStart+b.gapLen:]...)
	return text
}

func (b *Buffer) String() string {
	return string(b.Text())
}

// Bytes returns the logical text encoded as UTF-8.
func (b *Buffer) Bytes() []byte {
	return []byte(b.String())
}

// TextLines splits the logical text on '\n'. A trailing newline yields a
// final empty line, so len(TextLines()) == LineCount().
func (b *Buffer) TextLines() [][]rune {
	return splitCells(b.Text())
}

// LineCount is the number of newline cells plus one.
func (b *Buffer) LineCount() int {
	n := 1
	for i := 0; i < b.Len(); i++ {
		if b.at(i) == '\n' {
			n++
		}
	}
	return n
}

// RawLines splits the physical storage on '\n', showing gap cells as '_'.
func (b *Buffer) RawLines() [][]rune {
	raw := make([]rune, len(b.data))
	for i, r := range b.data {
		if b.gapLen > 0 && i >= b.gapStart && i < b.gapStart+b.gapLen {
			r = gapCell
		}
		raw[i] = r
	}
	return splitCells(raw)
}

// RawPosition is the cursor in RawLines coordinates: physical cells,
// gap included, 1-based.
func (b *Buffer) RawPosition() Position {
	line, col := 1, 1
	for i := 0; i < b.cursor && i < len(b.data); i++ {
		inGap := b.gapLen > 0 && i >= b.gapStart && i < b.gapStart+b.gapLen
		if !inGap && b.data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Position{Line: line, Column: col}
}

// Debug renders the storage with gap cells as '_' and the cursor as '|',
// followed by the gap counters.
func (b *Buffer) Debug() string {
	var sb strings.Builder
	for i, r := range b.data {
		if i == b.cursor {
			sb.WriteRune(cursorCell)
		}
		if b.gapLen > 0 && i >= b.gapStart && i < b.gapStart+b.gapLen {
			sb.WriteRune(gapCell)
			continue
		}
		if r == '\n' {
			sb.WriteString(`\n`)
			continue
		}
		sb.WriteRune(r)
	}
	if b.cursor == len(b.data) {
		sb.WriteRune(cursorCell)
	}
	sb.WriteString(" ")
	sb.WriteString(b.Stats())
	return sb.String()
}

// Stats summarises the storage counters in one line.
func (b *Buffer) Stats() string {
	return fmt.Sprintf("cap=%d cursor=%d gap=%d+%d", len(b.data), b.cursor, b.gapStart, b.gapLen)
}

func splitCells(text []rune) [][]rune {
	lines := make([][]rune, 0, 1)
	start := 0
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

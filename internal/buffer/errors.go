package buffer

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/gapedit/internal/logger"
)

// ErrInvariant is matched (errors.Is) by every internal consistency failure.
// Reaching the ends of the text is never reported as an error.
var ErrInvariant = errors.New("buffer invariant violated")

// InvariantError describes a broken storage invariant together with a
// snapshot of the gap state at the moment it was detected.
type InvariantError struct {
	Op       string
	Detail   string
	Capacity int
	GapStart int
	GapLen   int
	Cursor   int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s (cap=%d gap=%d+%d cursor=%d)",
		ErrInvariant, e.Op, e.Detail, e.Capacity, e.GapStart, e.GapLen, e.Cursor)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// violation builds an InvariantError for op and logs it.
func (b *Buffer) violation(op, format string, args ...any) error {
	err := &InvariantError{
		Op:       op,
		Detail:   fmt.Sprintf(format, args...),
		Capacity: len(b.data),
		GapStart: b.gapStart,
		GapLen:   b.gapLen,
		Cursor:   b.cursor,
	}
	logger.Error("buffer invariant violated",
		"op", op,
		"detail", err.Detail,
		"cap", err.Capacity,
		"gapStart", err.GapStart,
		"gapLen", err.GapLen,
		"cursor", err.Cursor,
		"storage", b.Debug(),
	)
	return err
}

// check verifies the invariants every public operation must leave behind.
func (b *Buffer) check(op string) error {
	if b.gapStart < 0 || b.gapLen < 0 || b.gapStart+b.gapLen > len(b.data) {
		return b.violation(op, "gap outside storage")
	}
	if b.cursor < 0 || b.cursor > len(b.data) {
		return b.violation(op, "cursor outside storage")
	}
	if b.inGap(b.cursor) {
		return b.violation(op, "cursor inside gap")
	}
	return nil
}

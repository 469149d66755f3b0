package buffer

// inGap reports whether physical offset p lies strictly inside the gap.
func (b *Buffer) inGap(p int) bool {
	return p > b.gapStart && p < b.gapStart+b.gapLen
}

// alignGap moves the gap so that it starts at the cursor. Only the text
// between the cursor and the gap is shifted; copy has memmove semantics so
// the overlapping ranges are safe.
func (b *Buffer) alignGap() error {
	if b.cursor < 0 || b.cursor > len(b.data) {
		return b.violation("align", "cursor out of bounds")
	}
	gapEnd := b.gapStart + b.gapLen
	switch {
	case b.cursor == b.gapStart:
		return nil
	case b.cursor < b.gapStart:
		// [ab|cd____ef] -> [ab|____cdef]
		copy(b.data[b.cursor+b.gapLen:], b.data[b.cursor:b.gapStart])
		b.gapStart = b.cursor
	case b.cursor >= gapEnd:
		// [ab____cd|ef] -> [abcd|____ef]
		copy(b.data[b.gapStart:], b.data[gapEnd:b.cursor])
		b.gapStart = b.cursor - b.gapLen
		b.cursor = b.gapStart
	default:
		return b.violation("align", "cursor inside gap")
	}
	if b.cursor != b.gapStart {
		return b.violation("align", "cursor not aligned after move")
	}
	return nil
}

// grow enlarges the storage by the growth increment. The text right of the
// gap moves to the new end so the gap reopens at the same gapStart.
func (b *Buffer) grow() error {
	if b.gapLen != 0 {
		return b.violation("grow", "gap not exhausted")
	}
	if b.cursor != b.gapStart {
		return b.violation("grow", "gap not aligned with cursor")
	}
	oldCap := len(b.data)
	right := oldCap - b.gapStart
	data := make([]rune, oldCap+b.growth)
	copy(data, b.data)
	copy(data[len(data)-right:], data[b.gapStart:oldCap])
	b.data = data
	b.gapLen = b.growth
	return nil
}

// Insert writes r at the cursor and advances the cursor past it.
func (b *Buffer) Insert(r rune) error {
	if err := b.alignGap(); err != nil {
		return err
	}
	if b.gapLen == 0 {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.data[b.gapStart] = r
	b.gapStart++
	b.gapLen--
	b.cursor++
	b.modified = true
	return b.check("insert")
}

// InsertString inserts every rune of s in order.
func (b *Buffer) InsertString(s string) error {
	for _, r := range s {
		if err := b.Insert(r); err != nil {
			return err
		}
	}
	return nil
}

// InsertRunes inserts every cell of text in order.
func (b *Buffer) InsertRunes(text []rune) error {
	for _, r := range text {
		if err := b.Insert(r); err != nil {
			return err
		}
	}
	return nil
}

// deleteForward absorbs the cell right after the cursor into the gap.
func (b *Buffer) deleteForward() error {
	if err := b.alignGap(); err != nil {
		return err
	}
	if b.gapStart+b.gapLen == len(b.data) {
		return nil
	}
	b.gapLen++
	b.modified = true
	return nil
}

// deleteBackward absorbs the cell right before the cursor into the gap.
func (b *Buffer) deleteBackward() error {
	if err := b.alignGap(); err != nil {
		return err
	}
	if b.gapStart == 0 {
		return nil
	}
	b.cursor--
	b.gapStart--
	b.gapLen++
	b.modified = true
	return nil
}

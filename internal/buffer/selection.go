package buffer

// ToggleSelection starts a selection anchored at the cursor, or drops the
// current one.
func (b *Buffer) ToggleSelection() error {
	if b.mark != nil {
		b.mark = nil
		return nil
	}
	pos, err := b.CursorPosition()
	if err != nil {
		return err
	}
	b.mark = &pos
	return nil
}

// Selecting reports whether a mark is set.
func (b *Buffer) Selecting() bool {
	return b.mark != nil
}

// Mark returns the selection anchor.
func (b *Buffer) Mark() (Position, bool) {
	if b.mark == nil {
		return Position{}, false
	}
	return *b.mark, true
}

// Selection returns the mark and the cursor position ordered by line, then
// column. ok is false when nothing is selected.
func (b *Buffer) Selection() (start, end Position, ok bool, err error) {
	if b.mark == nil {
		return Position{}, Position{}, false, nil
	}
	cur, err := b.CursorPosition()
	if err != nil {
		return Position{}, Position{}, false, err
	}
	if cur.Less(*b.mark) {
		return cur, *b.mark, true, nil
	}
	return *b.mark, cur, true, nil
}

// selectionRange resolves the mark and the cursor to ordered logical
// offsets.
func (b *Buffer) selectionRange() (from, to, markOff int) {
	markOff = b.offsetOf(*b.mark)
	cur := b.logical(b.cursor)
	if markOff < cur {
		return markOff, cur, markOff
	}
	return cur, markOff, markOff
}

func (b *Buffer) slice(from, to int) []rune {
	out := make([]rune, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, b.at(i))
	}
	return out
}

// CopyToClipboard copies the selected text and ends the selection. A single
// leading newline is not copied. Without a selection it does nothing.
func (b *Buffer) CopyToClipboard() error {
	if b.mark == nil {
		return nil
	}
	from, to, _ := b.selectionRange()
	clip := b.slice(from, to)
	if len(clip) > 0 && clip[0] == '\n' {
		clip = clip[1:]
	}
	b.clipboard = clip
	b.mark = nil
	return nil
}

// Clipboard returns the last copied text, or nil.
func (b *Buffer) Clipboard() []rune {
	return b.clipboard
}

func (b *Buffer) SetClipboard(text []rune) {
	b.clipboard = append([]rune(nil), text...)
}

// PasteFromClipboard inserts the clipboard at the cursor.
func (b *Buffer) PasteFromClipboard() error {
	if b.clipboard == nil {
		return nil
	}
	return b.InsertRunes(b.clipboard)
}

// DeleteSelection removes the text between the mark and the cursor and ends
// the selection.
func (b *Buffer) DeleteSelection() error {
	if b.mark == nil {
		return nil
	}
	_, _, markOff := b.selectionRange()
	b.mark = nil
	if err := b.deleteCells(markOff - b.logical(b.cursor)); err != nil {
		return err
	}
	return b.check("delete selection")
}

// CutSelection copies the selection to the clipboard, then deletes it.
func (b *Buffer) CutSelection() error {
	if b.mark == nil {
		return nil
	}
	mark := *b.mark
	if err := b.CopyToClipboard(); err != nil {
		return err
	}
	b.mark = &mark
	return b.DeleteSelection()
}

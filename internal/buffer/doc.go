// Package buffer implements the text store behind the editor: a gap buffer
// addressed by a single cursor.
//
// The storage is one rune slice with a movable hole (the gap). Text before
// the gap and text after it together form the logical text; the gap cells
// are never read. Edits happen at the gap, so the gap is first moved
// ("aligned") to the cursor and then consumed by inserts or widened by
// deletes.
//
// Offsets come in two flavours:
//
//   - physical: an index into the storage slice, gap included
//   - logical: an index into the text the user sees, gap excluded
//
// Navigation (Go) and deletion (Delete) are expressed in text objects
// (Char, Word, Line) and directions. Both compute a signed logical delta
// and translate it to storage.
//
// Basic usage:
//
//	b := buffer.New()
//	_ = b.InsertString("foo bar")
//	_ = b.Go(buffer.Word, buffer.Left)     // cursor before "bar"
//	_ = b.Delete(buffer.Word, buffer.Right) // "foo "
//
// A Buffer is not safe for concurrent use.
package buffer

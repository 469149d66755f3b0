package editor

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gapedit/internal/buffer"
)

const (
	actionToggleSelection   = "toggle_selection"
	actionCopy              = "copy"
	actionCut               = "cut"
	actionDeleteSelection   = "delete_selection"
	actionPaste             = "paste"
	actionSave              = "save"
	actionSaveAs            = "save_as"
	actionClear             = "clear"
	actionToggleLineNumbers = "toggle_line_numbers"
	actionNewline           = "newline"
	actionTab               = "tab"
	actionQuit              = "quit"
)

// motion is a keymap action of the form "go:<object>:<direction>" or
// "delete:<object>:<direction>".
type motion struct {
	delete bool
	obj    buffer.TextObject
	dir    buffer.Direction
}

func parseMotion(action string) (motion, bool, error) {
	parts := strings.Split(action, ":")
	if len(parts) != 3 {
		return motion{}, false, nil
	}
	var m motion
	switch parts[0] {
	case "go":
	case "delete":
		m.delete = true
	default:
		return motion{}, false, nil
	}
	obj, err := buffer.ParseTextObject(parts[1])
	if err != nil {
		return motion{}, true, err
	}
	dir, err := buffer.ParseDirection(parts[2])
	if err != nil {
		return motion{}, true, err
	}
	m.obj, m.dir = obj, dir
	return m, true, nil
}

func (e *Editor) execAction(action string) bool {
	if m, ok, err := parseMotion(action); ok {
		if err != nil {
			e.setStatus(fmt.Sprintf("bad binding %q: %v", action, err))
			return false
		}
		if m.delete {
			e.apply(e.buf.Delete(m.obj, m.dir), true)
		} else {
			e.apply(e.buf.Go(m.obj, m.dir), false)
		}
		return e.err != nil
	}

	switch action {
	case actionToggleSelection:
		e.apply(e.buf.ToggleSelection(), false)
		if e.buf.Selecting() {
			e.setStatus("mark set")
		} else {
			e.setStatus("mark cleared")
		}
	case actionCopy:
		e.apply(e.buf.CopyToClipboard(), false)
	case actionCut:
		e.apply(e.buf.CutSelection(), true)
	case actionDeleteSelection:
		e.apply(e.buf.DeleteSelection(), true)
	case actionPaste:
		if e.buf.Clipboard() == nil {
			e.setStatus("clipboard empty")
			break
		}
		e.apply(e.buf.PasteFromClipboard(), true)
	case actionSave:
		if err := e.Save(); err != nil {
			e.setStatus(err.Error())
		}
	case actionSaveAs:
		e.openPrompt("Save as: ", e.buf.Path())
	case actionClear:
		e.buf.Clear()
		e.textChanged = true
	case actionToggleLineNumbers:
		e.toggleLineNumbers()
	case actionNewline:
		e.apply(e.buf.Insert('\n'), true)
	case actionTab:
		e.apply(e.buf.Insert('\t'), true)
	case actionQuit:
		if e.buf.Modified() && !e.quitArmed {
			e.quitArmed = true
			e.setStatus("unsaved changes, quit again to discard")
			return false
		}
		return true
	default:
		e.setStatus(fmt.Sprintf("unknown action %q", action))
	}
	return e.err != nil
}

func (e *Editor) toggleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
		e.setStatus("line numbers relative")
	case LineNumberRelative:
		e.lineNumberMode = LineNumberOff
		e.setStatus("line numbers off")
	default:
		e.lineNumberMode = LineNumberAbsolute
		e.setStatus("line numbers absolute")
	}
}

// openPrompt switches to the minibuffer, itself a gap buffer, seeded with
// initial.
func (e *Editor) openPrompt(label, initial string) {
	e.prompt = buffer.New()
	e.promptLabel = label
	if initial != "" {
		e.apply(e.prompt.InsertString(initial), false)
	}
	e.mode = ModePrompt
}

func (e *Editor) closePrompt() {
	e.prompt = nil
	e.promptLabel = ""
	e.mode = ModeEditing
}

func (e *Editor) handlePrompt(ev *tcell.EventKey) {
	switch keyString(ev) {
	case "enter":
		path := strings.TrimSpace(e.prompt.String())
		e.closePrompt()
		if path == "" {
			e.setStatus("save cancelled")
			return
		}
		if err := e.saveTo(path); err != nil {
			e.setStatus(err.Error())
		}
	case "esc", "ctrl+g":
		e.closePrompt()
		e.setStatus("save cancelled")
	case "backspace":
		e.apply(e.prompt.Delete(buffer.Char, buffer.Left), false)
	case "del", "ctrl+d":
		e.apply(e.prompt.Delete(buffer.Char, buffer.Right), false)
	case "left", "ctrl+b":
		e.apply(e.prompt.Go(buffer.Char, buffer.Left), false)
	case "right", "ctrl+f":
		e.apply(e.prompt.Go(buffer.Char, buffer.Right), false)
	case "home", "ctrl+a":
		e.apply(e.prompt.Go(buffer.Line, buffer.Left), false)
	case "end", "ctrl+e":
		e.apply(e.prompt.Go(buffer.Line, buffer.Right), false)
	case "ctrl+k":
		e.apply(e.prompt.Delete(buffer.Line, buffer.Right), false)
	default:
		if r, ok := insertable(ev); ok {
			e.apply(e.prompt.Insert(r), false)
		}
	}
}

package editor

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// keyString names a key event the way keymap entries do, e.g. "ctrl+k",
// "alt+b", "alt+backspace", "left".
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	alt := ""
	if mods&tcell.ModAlt != 0 {
		alt = "alt+"
	}
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if mods&tcell.ModCtrl != 0 {
			if r == ' ' {
				return "ctrl+space"
			}
			return "ctrl+" + string(unicode.ToLower(r))
		}
		if r == ' ' {
			return alt + "space"
		}
		return alt + string(r)
	case tcell.KeyCtrlSpace:
		return "ctrl+space"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return alt + "backspace"
	case tcell.KeyEnter:
		return alt + "enter"
	// KeyTab == KeyCtrlI, so it is matched before ctrlKeyName.
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return alt + "up"
	case tcell.KeyDown:
		return alt + "down"
	case tcell.KeyLeft:
		return alt + "left"
	case tcell.KeyRight:
		return alt + "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return alt + "del"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}

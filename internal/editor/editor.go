package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gapedit/internal/buffer"
	"github.com/kobzarvs/gapedit/internal/config"
	"github.com/kobzarvs/gapedit/internal/highlight"
	"github.com/kobzarvs/gapedit/internal/logger"
)

type Mode int

const (
	ModeEditing Mode = iota
	ModePrompt
)

type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

type Editor struct {
	buf             *buffer.Buffer
	opts            []buffer.Option
	mode            Mode
	keymap          map[string]string
	prompt          *buffer.Buffer
	promptLabel     string
	statusMessage   string
	quitArmed       bool
	textChanged     bool
	err             error
	debug           bool
	scroll          int
	viewHeight      int
	tabWidth        int
	lineNumberMode  LineNumberMode
	gitBranch       string
	gitRoot         string
	gitBranchSymbol string
	highlights      map[int][]highlight.Span
	highlightStart  int
	highlightEnd    int
	styles          styles
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	var opts []buffer.Option
	if cfg.Editor.InitialCapacity > 0 {
		opts = append(opts, buffer.WithCapacity(cfg.Editor.InitialCapacity))
	}
	if cfg.Editor.GrowthIncrement > 0 {
		opts = append(opts, buffer.WithGrowth(cfg.Editor.GrowthIncrement))
	}
	return &Editor{
		buf:             buffer.New(opts...),
		opts:            opts,
		mode:            ModeEditing,
		keymap:          keymap,
		tabWidth:        tabWidth,
		lineNumberMode:  parseLineNumberMode(cfg.Editor.LineNumbers),
		gitBranchSymbol: strings.TrimSpace(cfg.Editor.GitBranchSymbol),
		highlightStart:  -1,
		highlightEnd:    -1,
		styles:          newStyles(cfg.Theme),
	}
}

// SetDebug switches the renderer to the raw storage view.
func (e *Editor) SetDebug(on bool) {
	e.debug = on
}

func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

func (e *Editor) Mode() Mode {
	return e.mode
}

// Err returns the invariant violation that stopped the editor, if any.
func (e *Editor) Err() error {
	return e.err
}

// OpenFile loads path into a fresh buffer. A missing file opens as an
// empty buffer that will be created on save. The clipboard survives.
func (e *Editor) OpenFile(path string) error {
	clip := e.buf.Clipboard()
	opts := append([]buffer.Option{buffer.WithPath(path)}, e.opts...)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		e.buf = buffer.FromBytes(data, opts...)
	case errors.Is(err, os.ErrNotExist):
		e.buf = buffer.New(opts...)
		e.setStatus(fmt.Sprintf("new file %s", filepath.Base(path)))
	default:
		return err
	}
	if clip != nil {
		e.buf.SetClipboard(clip)
	}
	e.mode = ModeEditing
	e.scroll = 0
	e.quitArmed = false
	e.textChanged = true
	e.SetHighlights(0, 0, nil)
	logger.Info("opened file", "path", path, "cells", e.buf.Len())
	return nil
}

// Save writes the buffer to its path. Without a path it opens the
// "Save as" prompt instead.
func (e *Editor) Save() error {
	if e.buf.Path() == "" {
		e.openPrompt("Save as: ", "")
		return nil
	}
	return e.saveTo(e.buf.Path())
}

func (e *Editor) saveTo(path string) error {
	data := e.buf.Bytes()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	e.buf.SetPath(path)
	e.buf.SetModified(false)
	e.quitArmed = false
	e.setStatus(fmt.Sprintf("wrote %d bytes to %s", len(data), filepath.Base(path)))
	logger.Info("saved file", "path", path, "bytes", len(data))
	return nil
}

// HandleKey applies one key event and reports whether the editor should
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.err != nil {
		return true
	}
	if e.mode == ModePrompt {
		e.handlePrompt(ev)
		return e.err != nil
	}
	e.statusMessage = ""
	key := keyString(ev)
	if action, ok := e.keymap[key]; ok {
		if action != actionQuit {
			e.quitArmed = false
		}
		return e.execAction(action)
	}
	e.quitArmed = false
	if r, ok := insertable(ev); ok {
		e.apply(e.buf.Insert(r), true)
	}
	return e.err != nil
}

func insertable(ev *tcell.EventKey) (rune, bool) {
	if ev.Key() != tcell.KeyRune {
		return 0, false
	}
	if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
		return 0, false
	}
	return ev.Rune(), true
}

// apply records the outcome of a buffer operation. Invariant violations
// are fatal; anything else ends up in the status line.
func (e *Editor) apply(err error, changed bool) {
	if err == nil {
		if changed {
			e.textChanged = true
		}
		return
	}
	if errors.Is(err, buffer.ErrInvariant) {
		e.err = err
		return
	}
	e.setStatus(err.Error())
}

// ConsumeTextChange reports whether the text changed since the last call.
func (e *Editor) ConsumeTextChange() bool {
	changed := e.textChanged
	e.textChanged = false
	return changed
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

func (e *Editor) SetStatusMessage(msg string) {
	e.setStatus(msg)
}

func (e *Editor) SetGitBranch(name string) {
	e.gitBranch = strings.TrimSpace(name)
}

// SetGitRoot makes the status line show paths relative to root.
func (e *Editor) SetGitRoot(root string) {
	e.gitRoot = root
}

func (e *Editor) SetHighlights(startLine, endLine int, spans map[int][]highlight.Span) {
	if spans == nil || startLine < 0 || endLine < startLine {
		e.highlights = nil
		e.highlightStart = -1
		e.highlightEnd = -1
		return
	}
	e.highlights = spans
	e.highlightStart = startLine
	e.highlightEnd = endLine
}

// VisibleLines is the 0-based line range the last Render showed.
func (e *Editor) VisibleLines() (int, int) {
	h := e.viewHeight
	if h < 1 {
		h = 1
	}
	return e.scroll, e.scroll + h - 1
}

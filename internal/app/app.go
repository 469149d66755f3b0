package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/gapedit/internal/buffer"
	"github.com/kobzarvs/gapedit/internal/config"
	"github.com/kobzarvs/gapedit/internal/editor"
	"github.com/kobzarvs/gapedit/internal/gitinfo"
	"github.com/kobzarvs/gapedit/internal/highlight"
	"github.com/kobzarvs/gapedit/internal/logger"
	"github.com/kobzarvs/gapedit/internal/session"
)

const (
	gitRefreshInterval = 2 * time.Second
	tickInterval       = 500 * time.Millisecond
	// Files larger than this are edited without syntax highlighting.
	maxHighlightBytes = 8 << 20
)

type Options struct {
	Path  string
	Debug bool
}

// App is the top-level runtime for gapedit.
type App struct {
	opts   Options
	screen tcell.Screen

	ed       *editor.Editor
	hl       *highlight.Engine
	sessions *session.Manager

	highlightOn   bool
	highlightPath string
	gitPath       string
	lastGitCheck  time.Time
}

func New(opts Options) *App {
	return &App{opts: opts}
}

// WithScreen runs the app on s instead of the terminal.
func (a *App) WithScreen(s tcell.Screen) *App {
	a.screen = s
	return a
}

func (a *App) Run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	langs, langErr := config.LoadLanguages()
	if langErr != nil {
		logger.Warn("languages.toml ignored", "error", langErr)
	}

	s := a.screen
	if s == nil {
		if s, err = tcell.NewScreen(); err != nil {
			return err
		}
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	a.sessions, err = session.NewManager()
	if err != nil {
		logger.Warn("session disabled", "error", err)
		a.sessions = nil
	}
	a.hl = highlight.New(langs)
	a.ed = editor.New(cfg)
	a.ed.SetDebug(a.opts.Debug)
	a.highlightOn = cfg.Editor.HighlightEnabled()
	defer func() {
		err = multierr.Append(err, a.shutdown())
	}()

	path := a.opts.Path
	if path == "" {
		path = a.lastActiveFile()
	}
	if path != "" {
		if err := a.ed.OpenFile(path); err != nil {
			return err
		}
		if info, err := os.Stat(path); err == nil && info.Size() > maxHighlightBytes {
			a.highlightOn = false
		}
		a.restoreCursor(path)
		a.gitPath = path
	} else if cwd, err := os.Getwd(); err == nil {
		a.gitPath = cwd
	}
	if langErr != nil {
		a.ed.SetStatusMessage(fmt.Sprintf("languages.toml ignored: %v", langErr))
	}
	a.refreshGit(true)

	stopTicker := make(chan struct{})
	defer close(stopTicker)
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicker:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		a.refreshHighlights()
		a.ed.Render(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if a.ed.HandleKey(ev) {
				return a.ed.Err()
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			a.refreshGit(false)
		}
	}
}

func (a *App) refreshGit(force bool) {
	if !force && time.Since(a.lastGitCheck) < gitRefreshInterval {
		return
	}
	if path := a.ed.Buffer().Path(); path != "" {
		a.gitPath = path
	}
	if a.gitPath == "" {
		return
	}
	a.lastGitCheck = time.Now()
	a.ed.SetGitBranch(gitinfo.Branch(a.gitPath))
	a.ed.SetGitRoot(gitinfo.Root(a.gitPath))
}

// refreshHighlights reparses after text changes or a rename by "Save as",
// then hands the spans around the visible lines to the editor.
func (a *App) refreshHighlights() {
	buf := a.ed.Buffer()
	changed := a.ed.ConsumeTextChange()
	path := buf.Path()
	if path != a.highlightPath {
		if a.highlightPath != "" {
			a.hl.Forget(a.highlightPath)
		}
		a.highlightPath = path
		changed = true
	}
	if !a.highlightOn || path == "" || !a.hl.Supported(path) {
		a.ed.SetHighlights(0, 0, nil)
		return
	}
	if changed && !a.hl.Update(path, buf.Bytes()) {
		a.ed.SetHighlights(0, 0, nil)
		return
	}
	start, end := a.ed.VisibleLines()
	margin := end - start + 1
	start -= margin
	if start < 0 {
		start = 0
	}
	end += margin
	a.ed.SetHighlights(start, end, a.hl.Highlights(path, start, end))
}

func sessionKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// lastActiveFile is the file edited last, if it still exists.
func (a *App) lastActiveFile() string {
	if a.sessions == nil {
		return ""
	}
	path := a.sessions.ActiveFile()
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

func (a *App) restoreCursor(path string) {
	if a.sessions == nil {
		return
	}
	state, ok := a.sessions.FileState(sessionKey(path))
	if !ok {
		return
	}
	pos := buffer.Position{Line: state.Line, Column: state.Column}
	if err := a.ed.Buffer().MoveTo(pos); err != nil {
		logger.Warn("restore cursor failed", "path", path, "error", err)
		a.ed.SetStatusMessage(fmt.Sprintf("restore cursor: %v", err))
	}
}

// shutdown stores the cursor, flushes the session and releases the parsers.
func (a *App) shutdown() error {
	var err error
	if a.sessions != nil {
		buf := a.ed.Buffer()
		if path := buf.Path(); path != "" {
			pos, posErr := buf.CursorPosition()
			if posErr == nil {
				a.sessions.SetFileState(sessionKey(path), session.FileState{Line: pos.Line, Column: pos.Column})
			}
			err = multierr.Append(err, posErr)
		}
		err = multierr.Append(err, a.sessions.Stop())
	}
	if a.hl != nil {
		err = multierr.Append(err, a.hl.Close())
	}
	return err
}

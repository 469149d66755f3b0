package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/gapedit/internal/logger"
)

const autosaveInterval = 15 * time.Second

// FileState is the last known cursor of a file, 1-based like buffer.Position.
type FileState struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager loads the session from the XDG state directory and starts autosave.
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(path, autosaveInterval), nil
}

// NewManagerAt is NewManager with an explicit file. interval <= 0 disables autosave.
func NewManagerAt(path string, interval time.Duration) *Manager {
	m := &Manager{
		session: Session{
			Files: make(map[string]FileState),
		},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	if interval > 0 {
		go m.autosaveLoop(interval)
	}
	return m
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "gapedit", "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("session file unreadable, starting fresh", "path", m.path, "error", err)
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	m.session = session
}

// Save persists the session if anything changed since the last save.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Files[absPath]
	return state, ok
}

func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.session.Files[absPath]; ok && prev == state && m.session.ActiveFile == absPath {
		return
	}
	m.session.Files[absPath] = state
	m.session.ActiveFile = absPath
	m.dirty = true
}

func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session autosave failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends autosave and writes the final state.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.ForceSave()
}

package rehearsal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"scenepartner/pkg/model"
	"scenepartner/pkg/scenes"
)

// Manager owns the active rehearsal session and its persistence. At most one
// session exists at a time; beginning a new one replaces it.
type Manager struct {
	repo      *scenes.Repository
	speaker   Speaker
	store     StateStore
	hintWords int

	mu      sync.Mutex
	session *Session
}

// NewManager creates the session manager.
func NewManager(repo *scenes.Repository, speaker Speaker, store StateStore, hintWords int) *Manager {
	return &Manager{
		repo:      repo,
		speaker:   speaker,
		store:     store,
		hintWords: hintWords,
	}
}

// Begin starts a new session on the given scene and role, replacing any
// current session.
func (m *Manager) Begin(ctx context.Context, sceneID, role string) (*Session, error) {
	scene := m.repo.Get(sceneID)
	if scene == nil {
		return nil, fmt.Errorf("unknown scene %q", sceneID)
	}

	session, err := NewSession(scene, role, m.speaker, m.hintWords)
	if err != nil {
		return nil, err
	}
	session.Start()

	m.mu.Lock()
	if m.session != nil && m.speaker != nil {
		m.speaker.StopSpeaking()
	}
	m.session = session
	m.mu.Unlock()

	saveSnapshot(ctx, m.store, session)
	return session, nil
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Advance moves the active session forward and persists the new position.
func (m *Manager) Advance(ctx context.Context) error {
	s := m.Current()
	if s == nil {
		return ErrNotPlaying
	}
	err := s.Advance(ctx)
	saveSnapshot(ctx, m.store, s)
	return err
}

// Hint speaks a cue for the current user line and returns its text. Speech
// failure doesn't void the hint; the text still reaches the caller.
func (m *Manager) Hint(ctx context.Context) (string, error) {
	s := m.Current()
	if s == nil {
		return "", ErrNotPlaying
	}
	hint, err := s.Hint()
	if err != nil {
		return "", err
	}
	if m.speaker != nil {
		if err := m.speaker.Speak(ctx, hint); err != nil {
			slog.Warn("rehearsal: failed to speak hint", "error", err)
		}
	}
	return hint, nil
}

// SwapRoles swaps parts on the active session.
func (m *Manager) SwapRoles(ctx context.Context) error {
	s := m.Current()
	if s == nil {
		return ErrNotPlaying
	}
	s.SwapRoles()
	saveSnapshot(ctx, m.store, s)
	return nil
}

// Restart resets the active session to the top.
func (m *Manager) Restart(ctx context.Context) error {
	s := m.Current()
	if s == nil {
		return ErrNotPlaying
	}
	s.Restart()
	saveSnapshot(ctx, m.store, s)
	return nil
}

// End discards the active session and its snapshot.
func (m *Manager) End(ctx context.Context) {
	m.mu.Lock()
	had := m.session != nil
	m.session = nil
	m.mu.Unlock()

	if had && m.speaker != nil {
		m.speaker.StopSpeaking()
	}
	if m.store != nil {
		if err := m.store.DeleteState(ctx, stateKey); err != nil {
			slog.Warn("rehearsal: failed to clear session snapshot", "error", err)
		}
	}
}

// Restore rebuilds the previous session from the snapshot store. A missing
// snapshot, corrupt data, or a deleted scene all start fresh; restore is
// never fatal.
func (m *Manager) Restore(ctx context.Context) {
	snap, ok := loadSnapshot(ctx, m.store)
	if !ok {
		return
	}

	scene := m.repo.Get(snap.SceneID)
	if scene == nil {
		slog.Info("rehearsal: snapshot references deleted scene, discarding", "scene", snap.SceneID)
		if m.store != nil {
			_ = m.store.DeleteState(ctx, stateKey)
		}
		return
	}

	session, err := RestoreSession(scene, snap, m.speaker, m.hintWords)
	if err != nil {
		slog.Warn("rehearsal: could not restore session", "error", err)
		return
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
	slog.Info("rehearsal: session restored", "scene", snap.SceneID, "line", snap.LineIndex, "state", snap.State)
}

// SceneFor returns the scene of the active session, or nil.
func (m *Manager) SceneFor() *model.Scene {
	s := m.Current()
	if s == nil {
		return nil
	}
	return s.Scene()
}

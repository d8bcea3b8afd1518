package rehearsal

import (
	"context"
	"encoding/json"
	"log/slog"

	"scenepartner/pkg/model"
)

// stateKey is the persistent_state row holding the session snapshot.
const stateKey = "rehearsal_session"

// StateStore persists the session snapshot between runs.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// Snapshot is the durable form of a session.
type Snapshot struct {
	SceneID   string `json:"scene_id"`
	Role      string `json:"role"`
	LineIndex int    `json:"line_index"`
	State     State  `json:"state"`
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SceneID:   s.scene.ID,
		Role:      s.scene.Roles[s.role],
		LineIndex: s.index,
		State:     s.state,
	}
}

// RestoreSession rebuilds a session from a snapshot. Out-of-range pointers
// and unknown states reset to a fresh session on the same scene.
func RestoreSession(scene *model.Scene, snap Snapshot, speaker Speaker, hintWords int) (*Session, error) {
	s, err := NewSession(scene, snap.Role, speaker, hintWords)
	if err != nil {
		return nil, err
	}

	switch snap.State {
	case StatePlaying, StateComplete, StateNotStarted:
		s.state = snap.State
	default:
		return s, nil
	}
	if snap.LineIndex >= 0 && snap.LineIndex < len(scene.Lines) {
		s.index = snap.LineIndex
	} else {
		s.index = 0
		s.state = StateNotStarted
	}
	return s, nil
}

// saveSnapshot persists the session best-effort; persistence failures never
// interrupt a rehearsal.
func saveSnapshot(ctx context.Context, st StateStore, s *Session) {
	if st == nil || s == nil {
		return
	}
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return
	}
	if err := st.SetState(ctx, stateKey, string(raw)); err != nil {
		slog.Warn("rehearsal: failed to persist session", "error", err)
	}
}

// loadSnapshot reads the persisted snapshot. A corrupt or absent snapshot
// reports false.
func loadSnapshot(ctx context.Context, st StateStore) (Snapshot, bool) {
	if st == nil {
		return Snapshot{}, false
	}
	raw, ok := st.GetState(ctx, stateKey)
	if !ok {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		slog.Warn("rehearsal: corrupt session snapshot, starting fresh", "error", err)
		return Snapshot{}, false
	}
	return snap, true
}

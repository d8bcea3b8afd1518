// Package store provides SQLite-backed persistence for scenes, annotations,
// settings, and session state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"scenepartner/pkg/db"
	"scenepartner/pkg/model"
)

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	SettingsStore
	StateStore
	SceneStore
	AnnotationStore
	CoachNoteStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Settings ---

const voiceSettingsKey = "voice_settings"

// GetVoiceSettings returns the persisted voice settings. A missing or
// unreadable row reports false; settings fall back to defaults.
func (s *SQLiteStore) GetVoiceSettings(ctx context.Context) (model.VoiceSettings, bool) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", voiceSettingsKey).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("store: failed to read voice settings", "error", err)
		}
		return model.VoiceSettings{}, false
	}

	var vs model.VoiceSettings
	if err := json.Unmarshal([]byte(raw), &vs); err != nil {
		slog.Warn("store: corrupt voice settings, using defaults", "error", err)
		return model.VoiceSettings{}, false
	}
	vs.Clamp()
	return vs, true
}

func (s *SQLiteStore) SaveVoiceSettings(ctx context.Context, vs model.VoiceSettings) error {
	raw, err := json.Marshal(vs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		voiceSettingsKey, string(raw))
	return err
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("store: failed to read state", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persistent_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, val)
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}

// --- Scenes ---

// ListCustomScenes returns all persisted custom scenes. Rows that no longer
// unmarshal are skipped, not fatal.
func (s *SQLiteStore) ListCustomScenes(ctx context.Context) ([]*model.Scene, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM custom_scenes ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*model.Scene
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var scene model.Scene
		if err := json.Unmarshal([]byte(data), &scene); err != nil {
			slog.Warn("store: skipping corrupt custom scene", "id", id, "error", err)
			continue
		}
		scenes = append(scenes, &scene)
	}
	return scenes, rows.Err()
}

func (s *SQLiteStore) SaveCustomScene(ctx context.Context, scene *model.Scene) error {
	data, err := json.Marshal(scene)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_scenes (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		scene.ID, string(data))
	return err
}

func (s *SQLiteStore) DeleteCustomScene(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM custom_scenes WHERE id = ?", id)
	return err
}

// --- Annotations ---

func (s *SQLiteStore) AddAnnotation(ctx context.Context, a *model.Annotation) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO annotations (scene_id, line_index, note, type) VALUES (?, ?, ?, ?)",
		a.SceneID, a.LineIndex, a.Note, string(a.Type))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListAnnotations(ctx context.Context, sceneID string) ([]model.Annotation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scene_id, line_index, note, type, created_at
		 FROM annotations WHERE scene_id = ? ORDER BY line_index, id`, sceneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Annotation
	for rows.Next() {
		var a model.Annotation
		var typ string
		if err := rows.Scan(&a.ID, &a.SceneID, &a.LineIndex, &a.Note, &typ, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = model.NoteType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteAnnotationsForScene(ctx context.Context, sceneID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM annotations WHERE scene_id = ?", sceneID)
	return err
}

// --- Coach notes ---

func (s *SQLiteStore) GetCoachNote(ctx context.Context, sceneID string, lineIndex int) (string, bool) {
	var note string
	err := s.db.QueryRowContext(ctx,
		"SELECT note FROM coach_notes WHERE scene_id = ? AND line_index = ?",
		sceneID, lineIndex).Scan(&note)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("store: failed to read coach note", "scene", sceneID, "error", err)
		}
		return "", false
	}
	return note, true
}

func (s *SQLiteStore) SaveCoachNote(ctx context.Context, sceneID string, lineIndex int, note string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO coach_notes (scene_id, line_index, note) VALUES (?, ?, ?)
		 ON CONFLICT(scene_id, line_index) DO UPDATE SET note = excluded.note`,
		sceneID, lineIndex, note)
	return err
}

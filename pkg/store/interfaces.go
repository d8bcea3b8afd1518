package store

import (
	"context"

	"scenepartner/pkg/model"
)

// SettingsStore handles user preference persistence.
type SettingsStore interface {
	GetVoiceSettings(ctx context.Context) (model.VoiceSettings, bool)
	SaveVoiceSettings(ctx context.Context, s model.VoiceSettings) error
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// SceneStore handles custom scene persistence.
type SceneStore interface {
	ListCustomScenes(ctx context.Context) ([]*model.Scene, error)
	SaveCustomScene(ctx context.Context, scene *model.Scene) error
	DeleteCustomScene(ctx context.Context, id string) error
}

// AnnotationStore handles line annotation persistence. Annotations are
// append-only; they are removed only in bulk when their scene is deleted.
type AnnotationStore interface {
	AddAnnotation(ctx context.Context, a *model.Annotation) (int64, error)
	ListAnnotations(ctx context.Context, sceneID string) ([]model.Annotation, error)
	DeleteAnnotationsForScene(ctx context.Context, sceneID string) error
}

// CoachNoteStore caches generated coaching notes per scene line.
type CoachNoteStore interface {
	GetCoachNote(ctx context.Context, sceneID string, lineIndex int) (string, bool)
	SaveCoachNote(ctx context.Context, sceneID string, lineIndex int, note string) error
}

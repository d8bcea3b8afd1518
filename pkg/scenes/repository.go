// Package scenes holds the scene catalog: a fixed set of built-in scenes
// plus custom scenes imported by the user, persisted through the store.
package scenes

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"scenepartner/pkg/model"
)

// SceneStore persists custom scenes across restarts.
type SceneStore interface {
	ListCustomScenes(ctx context.Context) ([]*model.Scene, error)
	SaveCustomScene(ctx context.Context, scene *model.Scene) error
	DeleteCustomScene(ctx context.Context, id string) error
}

// AnnotationStore is the slice of the persistence layer the repository
// needs to cascade deletes.
type AnnotationStore interface {
	DeleteAnnotationsForScene(ctx context.Context, sceneID string) error
}

// Repository serves built-in and custom scenes. Built-ins are immutable;
// custom scenes can be added and removed, and removal cascades to the
// scene's annotations.
type Repository struct {
	mu       sync.RWMutex
	builtin  []*model.Scene
	custom   map[string]*model.Scene
	byID     map[string]*model.Scene
	scenes   SceneStore
	annotate AnnotationStore
}

// NewRepository builds a repository over the built-in catalog. Either store
// may be nil, in which case custom scenes live in memory only.
func NewRepository(scenes SceneStore, annotate AnnotationStore) *Repository {
	r := &Repository{
		builtin:  BuiltIn(),
		custom:   make(map[string]*model.Scene),
		byID:     make(map[string]*model.Scene),
		scenes:   scenes,
		annotate: annotate,
	}
	for _, s := range r.builtin {
		r.byID[s.ID] = s
	}
	return r
}

// LoadCustom restores persisted custom scenes. A failed load leaves the
// repository with built-ins only; it is never fatal.
func (r *Repository) LoadCustom(ctx context.Context) {
	if r.scenes == nil {
		return
	}
	saved, err := r.scenes.ListCustomScenes(ctx)
	if err != nil {
		slog.Warn("scenes: could not load custom scenes", "error", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range saved {
		if _, exists := r.byID[s.ID]; exists {
			slog.Warn("scenes: skipping custom scene with duplicate id", "id", s.ID)
			continue
		}
		r.custom[s.ID] = s
		r.byID[s.ID] = s
	}
	slog.Info("scenes: custom scenes loaded", "count", len(r.custom))
}

// Get returns the scene with the given id, or nil if unknown.
func (r *Repository) Get(id string) *model.Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// All returns built-in scenes followed by custom scenes, custom sorted by id
// for a stable listing.
func (r *Repository) All() []*model.Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Scene, 0, len(r.builtin)+len(r.custom))
	out = append(out, r.builtin...)
	ids := make([]string, 0, len(r.custom))
	for id := range r.custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, r.custom[id])
	}
	return out
}

// Add registers a custom scene and persists it best-effort.
func (r *Repository) Add(ctx context.Context, scene *model.Scene) error {
	if scene == nil || scene.ID == "" {
		return fmt.Errorf("scene is missing an id")
	}
	if !scene.Playable() {
		return fmt.Errorf("scene %q has no lines", scene.ID)
	}

	r.mu.Lock()
	if _, exists := r.byID[scene.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("scene id %q already exists", scene.ID)
	}
	r.custom[scene.ID] = scene
	r.byID[scene.ID] = scene
	r.mu.Unlock()

	if r.scenes != nil {
		if err := r.scenes.SaveCustomScene(ctx, scene); err != nil {
			slog.Warn("scenes: could not persist custom scene", "id", scene.ID, "error", err)
		}
	}
	return nil
}

// Remove deletes a custom scene and its annotations. Built-in scenes
// cannot be removed.
func (r *Repository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.custom[id]; !ok {
		r.mu.Unlock()
		if _, builtin := r.byID[id]; builtin {
			return fmt.Errorf("scene %q is built in and cannot be removed", id)
		}
		return fmt.Errorf("unknown scene %q", id)
	}
	delete(r.custom, id)
	delete(r.byID, id)
	r.mu.Unlock()

	if r.scenes != nil {
		if err := r.scenes.DeleteCustomScene(ctx, id); err != nil {
			slog.Warn("scenes: could not delete persisted scene", "id", id, "error", err)
		}
	}
	if r.annotate != nil {
		if err := r.annotate.DeleteAnnotationsForScene(ctx, id); err != nil {
			slog.Warn("scenes: could not delete scene annotations", "id", id, "error", err)
		}
	}
	return nil
}

// Filter returns scenes matching the given genre and beat. Empty arguments
// match everything; both conditions must hold when both are set. Matching
// is case-insensitive and exact per field.
func (r *Repository) Filter(genre, beat string) []*model.Scene {
	var out []*model.Scene
	for _, s := range r.All() {
		if genre != "" && !strings.EqualFold(s.Genre, genre) {
			continue
		}
		if beat != "" && !hasBeat(s, beat) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasBeat(s *model.Scene, beat string) bool {
	for _, b := range s.Beats {
		if strings.EqualFold(b, beat) {
			return true
		}
	}
	return false
}

// Genres returns the distinct genres across the catalog, sorted.
func (r *Repository) Genres() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.All() {
		if s.Genre == "" || seen[s.Genre] {
			continue
		}
		seen[s.Genre] = true
		out = append(out, s.Genre)
	}
	sort.Strings(out)
	return out
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scenepartner/pkg/model"
	"scenepartner/pkg/scenes"
	"scenepartner/pkg/store"
)

// AnnotationHandler manages line notes. Notes are append-only; individual
// notes are never edited or deleted, only swept when their scene is removed.
type AnnotationHandler struct {
	store store.AnnotationStore
	repo  *scenes.Repository
}

// NewAnnotationHandler creates a new AnnotationHandler.
func NewAnnotationHandler(st store.AnnotationStore, repo *scenes.Repository) *AnnotationHandler {
	return &AnnotationHandler{store: st, repo: repo}
}

// AddAnnotationRequest attaches a note to one line of a scene.
type AddAnnotationRequest struct {
	LineIndex int    `json:"line_index"`
	Note      string `json:"note"`
	Type      string `json:"type"`
}

// HandleAdd handles POST /api/scenes/{id}/annotations
func (h *AnnotationHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	scene := h.repo.Get(r.PathValue("id"))
	if scene == nil {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}

	var req AddAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.LineIndex < 0 || req.LineIndex >= len(scene.Lines) {
		http.Error(w, "line index out of range", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		http.Error(w, "note must not be empty", http.StatusBadRequest)
		return
	}
	noteType := model.NoteType(req.Type)
	if req.Type == "" {
		noteType = model.NoteActor
	}
	if !noteType.Valid() {
		http.Error(w, "unknown note type", http.StatusBadRequest)
		return
	}

	a := &model.Annotation{
		SceneID:   scene.ID,
		LineIndex: req.LineIndex,
		Note:      strings.TrimSpace(req.Note),
		Type:      noteType,
		CreatedAt: time.Now(),
	}
	id, err := h.store.AddAnnotation(r.Context(), a)
	if err != nil {
		http.Error(w, "failed to save annotation", http.StatusInternalServerError)
		return
	}
	a.ID = id
	respondJSON(w, http.StatusCreated, a)
}

// HandleList handles GET /api/scenes/{id}/annotations. An optional
// ?line_index= narrows to a single line.
func (h *AnnotationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sceneID := r.PathValue("id")
	if h.repo.Get(sceneID) == nil {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}

	annotations, err := h.store.ListAnnotations(r.Context(), sceneID)
	if err != nil {
		http.Error(w, "failed to list annotations", http.StatusInternalServerError)
		return
	}

	if q := r.URL.Query().Get("line_index"); q != "" {
		idx, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "invalid line_index", http.StatusBadRequest)
			return
		}
		filtered := annotations[:0]
		for _, a := range annotations {
			if a.LineIndex == idx {
				filtered = append(filtered, a)
			}
		}
		annotations = filtered
	}

	if annotations == nil {
		annotations = []model.Annotation{}
	}
	respondJSON(w, http.StatusOK, annotations)
}

package api

import (
	"net/http"

	"scenepartner/pkg/record"
)

// TakeHandler serves recorded rehearsal takes.
type TakeHandler struct {
	recorder *record.Recorder
}

// NewTakeHandler creates a new TakeHandler.
func NewTakeHandler(rec *record.Recorder) *TakeHandler {
	return &TakeHandler{recorder: rec}
}

// HandleList handles GET /api/takes
func (h *TakeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	takes, err := h.recorder.List()
	if err != nil {
		http.Error(w, "failed to list takes", http.StatusInternalServerError)
		return
	}
	if takes == nil {
		takes = []record.Take{}
	}
	respondJSON(w, http.StatusOK, takes)
}

// HandleDelete handles DELETE /api/takes/{id}
func (h *TakeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.recorder.Delete(r.PathValue("id")); err != nil {
		http.Error(w, "failed to delete take", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"scenepartner/pkg/model"
	"scenepartner/pkg/rehearsal"
)

// SessionHandler drives the rehearsal session.
type SessionHandler struct {
	mgr   *rehearsal.Manager
	coach *rehearsal.Coach
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(mgr *rehearsal.Manager, coach *rehearsal.Coach) *SessionHandler {
	return &SessionHandler{mgr: mgr, coach: coach}
}

// BeginRequest starts a rehearsal of a scene.
type BeginRequest struct {
	SceneID string `json:"scene_id"`
	Role    string `json:"role"` // empty picks the scene's first role
}

// SessionStatus is the rehearsal state surfaced to the UI.
type SessionStatus struct {
	Active     bool            `json:"active"`
	SceneID    string          `json:"scene_id,omitempty"`
	SceneTitle string          `json:"scene_title,omitempty"`
	Role       string          `json:"role,omitempty"`
	State      rehearsal.State `json:"state,omitempty"`
	LineIndex  int             `json:"line_index"`
	TotalLines int             `json:"total_lines"`
	Line       *model.Line     `json:"line,omitempty"`
	YourLine   bool            `json:"your_line"`
}

func (h *SessionHandler) status() SessionStatus {
	s := h.mgr.Current()
	if s == nil {
		return SessionStatus{}
	}
	cur, total := s.Progress()
	line := s.CurrentLine()
	return SessionStatus{
		Active:     true,
		SceneID:    s.Scene().ID,
		SceneTitle: s.Scene().Title,
		Role:       s.Role(),
		State:      s.State(),
		LineIndex:  cur,
		TotalLines: total,
		Line:       &line,
		YourLine:   line.Speaker == s.Role(),
	}
}

// HandleBegin handles POST /api/session/begin
func (h *SessionHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	var req BeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.mgr.Begin(r.Context(), req.SceneID, req.Role); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Info("Rehearsal started", "scene", req.SceneID, "role", req.Role)
	respondJSON(w, http.StatusOK, h.status())
}

// HandleAdvance handles POST /api/session/advance
func (h *SessionHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Advance(r.Context()); err != nil {
		if errors.Is(err, rehearsal.ErrNotPlaying) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		// Speech failures still advanced the pointer; report the new
		// position along with the error message.
		slog.Warn("Advance completed with speech error", "error", err)
	}
	respondJSON(w, http.StatusOK, h.status())
}

// HandleHint handles GET /api/session/hint
func (h *SessionHandler) HandleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := h.mgr.Hint(r.Context())
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, rehearsal.ErrNotYourLine) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

// HandleSwapRoles handles POST /api/session/swap-roles
func (h *SessionHandler) HandleSwapRoles(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.SwapRoles(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, h.status())
}

// HandleRestart handles POST /api/session/restart
func (h *SessionHandler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Restart(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, h.status())
}

// HandleEnd handles POST /api/session/end
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	h.mgr.End(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStatus handles GET /api/session/status
func (h *SessionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.status())
}

// HandleCoach handles GET /api/session/coach. It returns a coaching note for
// the session's current line.
func (h *SessionHandler) HandleCoach(w http.ResponseWriter, r *http.Request) {
	s := h.mgr.Current()
	if s == nil {
		http.Error(w, "no active session", http.StatusConflict)
		return
	}
	if h.coach == nil {
		http.Error(w, "coaching is not configured", http.StatusServiceUnavailable)
		return
	}

	note, err := h.coach.Note(r.Context(), s.Scene(), s.LineIndex())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"note": note})
}

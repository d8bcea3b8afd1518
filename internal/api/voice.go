package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"scenepartner/pkg/audio"
	"scenepartner/pkg/model"
	"scenepartner/pkg/store"
	"scenepartner/pkg/voice"
)

// VoiceHandler controls the speech pipeline.
type VoiceHandler struct {
	adapter *voice.Adapter
	player  audio.Service
	store   store.SettingsStore
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(adapter *voice.Adapter, player audio.Service, st store.SettingsStore) *VoiceHandler {
	return &VoiceHandler{adapter: adapter, player: player, store: st}
}

// PlaybackRequest controls partner-line playback.
type PlaybackRequest struct {
	Action string `json:"action"` // "pause", "resume", "stop", "replay"
}

// HandlePlayback handles POST /api/voice/playback
func (h *VoiceHandler) HandlePlayback(w http.ResponseWriter, r *http.Request) {
	var req PlaybackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "pause":
		h.player.Pause()
	case "resume":
		h.player.Resume()
	case "stop":
		// Through the adapter so the voice status resets with it.
		h.adapter.StopSpeaking()
	case "replay":
		if !h.player.ReplayLast(nil) {
			respondJSON(w, http.StatusOK, map[string]string{
				"status":  "error",
				"message": "No previous line to replay",
			})
			return
		}
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	slog.Debug("Playback control", "action", req.Action)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// VoiceStatusResponse is the adapter state surfaced to the UI.
type VoiceStatusResponse struct {
	Status       model.VoiceStatus  `json:"status"`
	Capabilities model.Capabilities `json:"capabilities"`
	LastError    string             `json:"last_error,omitempty"`
}

// HandleStatus handles GET /api/voice/status
func (h *VoiceHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := VoiceStatusResponse{
		Status:       h.adapter.Status(),
		Capabilities: h.adapter.Capabilities(),
	}
	if err := h.adapter.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleVoices handles GET /api/voice/voices
func (h *VoiceHandler) HandleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.adapter.Voices(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, voices)
}

// HandleGetSettings handles GET /api/voice/settings
func (h *VoiceHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.adapter.Settings())
}

// HandleSetSettings handles POST /api/voice/settings. Applied settings are
// persisted so they survive restarts.
func (h *VoiceHandler) HandleSetSettings(w http.ResponseWriter, r *http.Request) {
	var req model.VoiceSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	applied := h.adapter.ApplySettings(req)
	if h.store != nil {
		if err := h.store.SaveVoiceSettings(r.Context(), applied); err != nil {
			slog.Error("Failed to persist voice settings", "error", err)
		}
	}
	respondJSON(w, http.StatusOK, applied)
}

// ListenRequest toggles cue-word listening.
type ListenRequest struct {
	Action string `json:"action"` // "start", "stop"
}

// HandleListen handles POST /api/voice/listen
func (h *VoiceHandler) HandleListen(w http.ResponseWriter, r *http.Request) {
	var req ListenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "start":
		// Listening outlives the request; the request context dies with it.
		if err := h.adapter.Listen(context.WithoutCancel(r.Context())); err != nil {
			http.Error(w, err.Error(), listenErrStatus(err))
			return
		}
	case "stop":
		h.adapter.StopListening()
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  h.adapter.Status(),
	})
}

// RecordRequest controls take recording.
type RecordRequest struct {
	Action  string `json:"action"` // "start", "stop"
	SceneID string `json:"scene_id,omitempty"`
}

// HandleRecord handles POST /api/voice/record
func (h *VoiceHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "start":
		if err := h.adapter.StartRecording(context.WithoutCancel(r.Context()), req.SceneID); err != nil {
			http.Error(w, err.Error(), listenErrStatus(err))
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"state":  h.adapter.Status(),
		})
	case "stop":
		take, err := h.adapter.StopRecording()
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		respondJSON(w, http.StatusOK, take)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// listenErrStatus maps adapter errors onto HTTP statuses.
func listenErrStatus(err error) int {
	switch err {
	case voice.ErrMicBusy:
		return http.StatusConflict
	case voice.ErrNoRecognition, voice.ErrNoRecording, voice.ErrNoSynthesis:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

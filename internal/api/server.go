// Package api exposes the rehearsal engine over HTTP for the local UI.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"scenepartner/pkg/version"
)

// NewServer creates and configures the HTTP server. It accepts handlers for
// all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, scenesH *SceneHandler, sessionH *SessionHandler, annoH *AnnotationHandler, voiceH *VoiceHandler, takesH *TakeHandler, events *EventHub, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health and version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Scene catalog
	mux.HandleFunc("GET /api/scenes", scenesH.HandleList)
	mux.HandleFunc("GET /api/scenes/genres", scenesH.HandleGenres)
	mux.HandleFunc("GET /api/scenes/{id}", scenesH.HandleGet)
	mux.HandleFunc("POST /api/scenes/import", scenesH.HandleImport)
	mux.HandleFunc("DELETE /api/scenes/{id}", scenesH.HandleDelete)
	mux.HandleFunc("GET /api/scenes/{id}/export", scenesH.HandleExport)
	mux.HandleFunc("GET /api/scenes/{id}/search", scenesH.HandleSearch)

	// 3. Annotations
	mux.HandleFunc("POST /api/scenes/{id}/annotations", annoH.HandleAdd)
	mux.HandleFunc("GET /api/scenes/{id}/annotations", annoH.HandleList)

	// 4. Rehearsal session
	mux.HandleFunc("POST /api/session/begin", sessionH.HandleBegin)
	mux.HandleFunc("POST /api/session/advance", sessionH.HandleAdvance)
	mux.HandleFunc("GET /api/session/hint", sessionH.HandleHint)
	mux.HandleFunc("POST /api/session/swap-roles", sessionH.HandleSwapRoles)
	mux.HandleFunc("POST /api/session/restart", sessionH.HandleRestart)
	mux.HandleFunc("POST /api/session/end", sessionH.HandleEnd)
	mux.HandleFunc("GET /api/session/status", sessionH.HandleStatus)
	mux.HandleFunc("GET /api/session/coach", sessionH.HandleCoach)

	// 5. Voice I/O
	if voiceH != nil {
		mux.HandleFunc("GET /api/voice/status", voiceH.HandleStatus)
		mux.HandleFunc("GET /api/voice/voices", voiceH.HandleVoices)
		mux.HandleFunc("GET /api/voice/settings", voiceH.HandleGetSettings)
		mux.HandleFunc("POST /api/voice/settings", voiceH.HandleSetSettings)
		mux.HandleFunc("POST /api/voice/listen", voiceH.HandleListen)
		mux.HandleFunc("POST /api/voice/record", voiceH.HandleRecord)
		mux.HandleFunc("POST /api/voice/playback", voiceH.HandlePlayback)
	}

	// 6. Recorded takes
	if takesH != nil {
		mux.HandleFunc("GET /api/takes", takesH.HandleList)
		mux.HandleFunc("DELETE /api/takes/{id}", takesH.HandleDelete)
	}

	// 7. Event stream
	if events != nil {
		mux.HandleFunc("GET /api/events", events.HandleWS)
	}

	// 8. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

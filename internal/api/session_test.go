package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scenepartner/pkg/rehearsal"
	"scenepartner/pkg/scenes"
)

func newTestSessionHandler() *SessionHandler {
	repo := scenes.NewRepository(nil, nil)
	mgr := rehearsal.NewManager(repo, nil, nil, 0)
	return NewSessionHandler(mgr, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) SessionStatus {
	t.Helper()
	var status SessionStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return status
}

func TestSessionHandler_BeginAndAdvance(t *testing.T) {
	h := newTestSessionHandler()

	w := postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"med-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("begin: got status %d: %s", w.Code, w.Body.String())
	}
	status := decodeStatus(t, w)
	if !status.Active || status.State != rehearsal.StatePlaying {
		t.Fatalf("got status %+v, want active playing", status)
	}
	if status.LineIndex != 0 {
		t.Errorf("got line index %d, want 0", status.LineIndex)
	}

	w = postJSON(t, h.HandleAdvance, "/api/session/advance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("advance: got status %d", w.Code)
	}
	status = decodeStatus(t, w)
	if status.LineIndex != 1 {
		t.Errorf("got line index %d, want 1", status.LineIndex)
	}
}

func TestSessionHandler_BeginUnknownScene(t *testing.T) {
	h := newTestSessionHandler()
	w := postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", w.Code)
	}
}

func TestSessionHandler_AdvanceWithoutSession(t *testing.T) {
	h := newTestSessionHandler()
	w := postJSON(t, h.HandleAdvance, "/api/session/advance", "")
	if w.Code != http.StatusConflict {
		t.Errorf("got status %d, want 409", w.Code)
	}
}

func TestSessionHandler_Hint(t *testing.T) {
	h := newTestSessionHandler()
	postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"med-01"}`)

	req := httptest.NewRequest("GET", "/api/session/hint", http.NoBody)
	w := httptest.NewRecorder()
	h.HandleHint(w, req)

	// The first line of med-01 belongs to the first role, so the default
	// role gets a hint.
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasSuffix(resp["hint"], "...") {
		t.Errorf("hint %q does not end with ellipsis", resp["hint"])
	}
}

func TestSessionHandler_SwapAndRestart(t *testing.T) {
	h := newTestSessionHandler()
	before := decodeStatus(t, postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"med-01"}`))

	w := postJSON(t, h.HandleSwapRoles, "/api/session/swap-roles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("swap: got status %d", w.Code)
	}
	after := decodeStatus(t, w)
	if after.Role == before.Role {
		t.Errorf("role did not change: %q", after.Role)
	}
	if after.State != rehearsal.StateNotStarted {
		t.Errorf("got state %q, want not_started after swap", after.State)
	}

	w = postJSON(t, h.HandleRestart, "/api/session/restart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("restart: got status %d", w.Code)
	}
}

func TestSessionHandler_End(t *testing.T) {
	h := newTestSessionHandler()
	postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"med-01"}`)

	w := postJSON(t, h.HandleEnd, "/api/session/end", "")
	if w.Code != http.StatusOK {
		t.Fatalf("end: got status %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/session/status", http.NoBody)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)
	status := decodeStatus(t, rec)
	if status.Active {
		t.Error("session still active after end")
	}
}

func TestSessionHandler_CoachUnconfigured(t *testing.T) {
	h := newTestSessionHandler()
	postJSON(t, h.HandleBegin, "/api/session/begin", `{"scene_id":"med-01"}`)

	req := httptest.NewRequest("GET", "/api/session/coach", http.NoBody)
	w := httptest.NewRecorder()
	h.HandleCoach(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", w.Code)
	}
}

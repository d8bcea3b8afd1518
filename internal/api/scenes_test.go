package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scenepartner/pkg/model"
	"scenepartner/pkg/scenes"
)

func newTestSceneHandler() *SceneHandler {
	return NewSceneHandler(scenes.NewRepository(nil, nil))
}

func TestSceneHandler_HandleList(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantCount int
	}{
		{name: "All", url: "/api/scenes", wantCount: 12},
		{name: "GenreFilter", url: "/api/scenes?genre=medical%20drama", wantCount: 1},
		{name: "NoMatch", url: "/api/scenes?genre=opera", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestSceneHandler()
			req := httptest.NewRequest("GET", tt.url, http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", w.Code)
			}
			var summaries []SceneSummary
			if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(summaries) != tt.wantCount {
				t.Errorf("got %d scenes, want %d", len(summaries), tt.wantCount)
			}
		})
	}
}

func TestSceneHandler_HandleGet(t *testing.T) {
	handler := newTestSceneHandler()

	req := httptest.NewRequest("GET", "/api/scenes/med-01", http.NoBody)
	req.SetPathValue("id", "med-01")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	var scene model.Scene
	if err := json.NewDecoder(w.Body).Decode(&scene); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scene.ID != "med-01" {
		t.Errorf("got scene %q, want med-01", scene.ID)
	}
	if len(scene.Lines) == 0 {
		t.Error("expected full scene with lines")
	}

	req = httptest.NewRequest("GET", "/api/scenes/nope", http.NoBody)
	req.SetPathValue("id", "nope")
	w = httptest.NewRecorder()
	handler.HandleGet(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", w.Code)
	}
}

func TestSceneHandler_HandleImport(t *testing.T) {
	handler := newTestSceneHandler()

	body := `{"title":"Checkmate","text":"ANNA: Your move.\nBEN: I know. Stop rushing me.\nANNA: We've been here an hour."}`
	req := httptest.NewRequest("POST", "/api/scenes/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.HandleImport(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", w.Code, w.Body.String())
	}
	var scene model.Scene
	if err := json.NewDecoder(w.Body).Decode(&scene); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scene.Title != "Checkmate" {
		t.Errorf("got title %q", scene.Title)
	}
	if len(scene.Lines) != 3 {
		t.Errorf("got %d lines, want 3", len(scene.Lines))
	}
	if scene.Genre != "Custom" {
		t.Errorf("got genre %q, want Custom", scene.Genre)
	}
}

func TestSceneHandler_HandleImport_NoDialogue(t *testing.T) {
	handler := newTestSceneHandler()

	req := httptest.NewRequest("POST", "/api/scenes/import", strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.HandleImport(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("got status %d, want 422", w.Code)
	}
}

func TestSceneHandler_HandleDelete_BuiltIn(t *testing.T) {
	handler := newTestSceneHandler()

	req := httptest.NewRequest("DELETE", "/api/scenes/med-01", http.NoBody)
	req.SetPathValue("id", "med-01")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400 for built-in scene", w.Code)
	}
}

func TestSceneHandler_HandleSearch(t *testing.T) {
	handler := newTestSceneHandler()

	req := httptest.NewRequest("GET", "/api/scenes/med-01/search?q=patient", http.NoBody)
	req.SetPathValue("id", "med-01")
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	var results []SearchResult
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, res := range results {
		if !strings.Contains(strings.ToLower(res.Line.Text), "patient") {
			t.Errorf("line %d does not contain query: %q", res.LineIndex, res.Line.Text)
		}
	}

	// Missing query is rejected.
	req = httptest.NewRequest("GET", "/api/scenes/med-01/search", http.NoBody)
	req.SetPathValue("id", "med-01")
	w = httptest.NewRecorder()
	handler.HandleSearch(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", w.Code)
	}
}

func TestSceneHandler_HandleExport(t *testing.T) {
	handler := newTestSceneHandler()

	req := httptest.NewRequest("GET", "/api/scenes/med-01/export", http.NoBody)
	req.SetPathValue("id", "med-01")
	w := httptest.NewRecorder()
	handler.HandleExport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("got content type %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Error("expected attachment disposition")
	}
	if w.Body.Len() == 0 {
		t.Error("expected script text in the body")
	}
}

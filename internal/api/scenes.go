package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"scenepartner/pkg/model"
	"scenepartner/pkg/scenes"
	"scenepartner/pkg/script"
)

// SceneHandler serves the scene catalog.
type SceneHandler struct {
	repo *scenes.Repository
}

// NewSceneHandler creates a new SceneHandler.
func NewSceneHandler(repo *scenes.Repository) *SceneHandler {
	return &SceneHandler{repo: repo}
}

// SceneSummary is the list form of a scene; lines are omitted.
type SceneSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Genre     string   `json:"genre"`
	Roles     []string `json:"roles"`
	LineCount int      `json:"line_count"`
	Minutes   int      `json:"minutes"`
	Beats     []string `json:"beats,omitempty"`
}

func summarize(s *model.Scene) SceneSummary {
	return SceneSummary{
		ID:        s.ID,
		Title:     s.Title,
		Genre:     s.Genre,
		Roles:     s.Roles[:],
		LineCount: len(s.Lines),
		Minutes:   script.EstimateReadingTime(s.Lines),
		Beats:     s.Beats,
	}
}

// HandleList handles GET /api/scenes. Optional ?genre= and ?beat= filters
// narrow the catalog.
func (h *SceneHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")
	beat := r.URL.Query().Get("beat")

	var all []*model.Scene
	if genre != "" || beat != "" {
		all = h.repo.Filter(genre, beat)
	} else {
		all = h.repo.All()
	}

	summaries := make([]SceneSummary, 0, len(all))
	for _, s := range all {
		summaries = append(summaries, summarize(s))
	}
	respondJSON(w, http.StatusOK, summaries)
}

// HandleGenres handles GET /api/scenes/genres
func (h *SceneHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.repo.Genres())
}

// HandleGet handles GET /api/scenes/{id}
func (h *SceneHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	scene := h.repo.Get(r.PathValue("id"))
	if scene == nil {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, scene)
}

// ImportRequest carries pasted script text. File uploads use multipart form
// data instead.
type ImportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

// HandleImport handles POST /api/scenes/import. It accepts either a JSON
// body with pasted text or a multipart upload with a "file" field.
func (h *SceneHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var (
		text  string
		title string
		desc  string
	)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()

		text, err = script.ReadImport(header.Filename, file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		title = r.FormValue("title")
		desc = r.FormValue("description")
		if title == "" {
			title = strings.TrimSuffix(header.Filename, ".txt")
		}
	} else {
		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		text = req.Text
		title = req.Title
		desc = req.Description
	}

	lines := script.Parse(text)
	if len(lines) == 0 {
		http.Error(w, "no dialogue found in script", http.StatusUnprocessableEntity)
		return
	}

	scene := script.SceneFromParsed(lines, title, desc)
	if err := h.repo.Add(r.Context(), scene); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Scene imported", "id", scene.ID, "title", scene.Title, "lines", len(scene.Lines))
	respondJSON(w, http.StatusCreated, scene)
}

// HandleDelete handles DELETE /api/scenes/{id}
func (h *SceneHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.Remove(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Info("Scene deleted", "id", id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleExport handles GET /api/scenes/{id}/export
func (h *SceneHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	scene := h.repo.Get(r.PathValue("id"))
	if scene == nil {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", script.ExportFilename(scene)))
	if _, err := w.Write([]byte(script.ExportAsText(scene))); err != nil {
		slog.Error("Failed to write export response", "error", err)
	}
}

// SearchResult is one line matched by a search query.
type SearchResult struct {
	LineIndex int        `json:"line_index"`
	Line      model.Line `json:"line"`
}

// HandleSearch handles GET /api/scenes/{id}/search?q=
func (h *SceneHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	scene := h.repo.Get(r.PathValue("id"))
	if scene == nil {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	results := make([]SearchResult, 0)
	for _, idx := range script.SearchLines(scene.Lines, query) {
		results = append(results, SearchResult{LineIndex: idx, Line: scene.Lines[idx]})
	}
	respondJSON(w, http.StatusOK, results)
}

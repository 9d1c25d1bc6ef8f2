package handlers

import (
	"net/http"
	"strings"
)

type movieDetails struct {
	Title    string  `json:"title"`
	Director string  `json:"director"`
	Poster   *string `json:"poster"`
	Plot     string  `json:"plot"`
}

type movieDetailsResponse struct {
	Success bool          `json:"success"`
	Data    *movieDetails `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// SearchAPIHandler serves autocomplete suggestions as a JSON array. It always
// answers 200 with a (possibly empty) array so the search box never breaks.
func (h *Handler) SearchAPIHandler(w http.ResponseWriter, r *http.Request) {
	suggestions := h.library.Suggest(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, suggestions)
}

// MovieDetailsAPIHandler returns provider metadata for one title so the add
// form can auto-fill. Failures become a structured not-found payload.
func (h *Handler) MovieDetailsAPIHandler(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeJSON(w, movieDetailsResponse{Success: false, Error: "Title is required"})
		return
	}

	meta, err := h.library.Details(r.Context(), title)
	if err != nil {
		writeJSON(w, movieDetailsResponse{Success: false, Error: "Movie not found"})
		return
	}

	writeJSON(w, movieDetailsResponse{
		Success: true,
		Data: &movieDetails{
			Title:    meta.Title,
			Director: meta.Director,
			Poster:   meta.Poster,
			Plot:     meta.Plot,
		},
	})
}

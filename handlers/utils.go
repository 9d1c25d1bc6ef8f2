package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorPageData struct {
	Error      string
	StatusCode int
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding JSON response", "error", err)
	}
}

func (h *Handler) renderErrorPage(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	data := ErrorPageData{Error: message, StatusCode: statusCode}
	if err := errorTmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("Error executing error template", "error", err)
	}
}

func (h *Handler) notFoundPage(w http.ResponseWriter, message string) {
	h.renderErrorPage(w, http.StatusNotFound, message)
}

// serverError is the boundary for storage and other unrecoverable failures:
// log the detail, show the user a generic page. Development keeps the real
// message visible.
func (h *Handler) serverError(w http.ResponseWriter, err error) {
	slog.Error("Unhandled error", "error", err)
	message := "An error occurred. Please try again."
	if h.devMode {
		message = err.Error()
	}
	h.renderErrorPage(w, http.StatusInternalServerError, message)
}

// NotFoundHandler renders the 404 page for unmatched paths.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.notFoundPage(w, "Page not found")
}

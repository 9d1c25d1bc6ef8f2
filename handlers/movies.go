package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"filmlog/services"
)

// Handler holds the wired application services for every route.
type Handler struct {
	library *services.Library
	flash   *services.FlashStore
	devMode bool
}

func New(library *services.Library, flash *services.FlashStore, devMode bool) *Handler {
	return &Handler{
		library: library,
		flash:   flash,
		devMode: devMode,
	}
}

type MoviesPageData struct {
	Movies          []services.MovieView
	CurrentSort     string
	IsPartialUpdate bool
	Flash           string
}

type AddPageData struct {
	Form         services.FormData
	ErrorMessage string
}

type UpdatePageData struct {
	Movie        *services.MovieView
	ErrorMessage string
}

// MoviesHandler renders the list page. A request carrying sortBy is a
// lightweight re-sort and skips the cover refresh a full page view does.
func (h *Handler) MoviesHandler(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sortBy")
	isPartialUpdate := r.URL.Query().Has("sortBy")

	movies, err := h.library.ListMovies(r.Context(), sortBy, !isPartialUpdate)
	if err != nil {
		h.serverError(w, err)
		return
	}

	currentSort := sortBy
	if currentSort == "" {
		currentSort = "title"
	}

	data := MoviesPageData{
		Movies:          movies,
		CurrentSort:     currentSort,
		IsPartialUpdate: isPartialUpdate,
		Flash:           h.flash.Pop(w, r),
	}
	if err := indexTmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("Error executing movies template", "error", err)
	}
}

// AddPageHandler renders the add form, pre-filled from provider metadata when
// a title query is present.
func (h *Handler) AddPageHandler(w http.ResponseWriter, r *http.Request) {
	form := h.library.PrefillAdd(r.Context(), r.URL.Query().Get("title"))

	data := AddPageData{Form: form}
	if err := addTmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("Error executing add template", "error", err)
	}
}

// AddMovieHandler runs the add flow. Recoverable outcomes re-render the form
// with the user's input untouched; success redirects to the list.
func (h *Handler) AddMovieHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	in := services.MovieInput{
		Title:       r.PostFormValue("newItem"),
		Director:    r.PostFormValue("director"),
		Rating:      r.PostFormValue("rating"),
		Description: r.PostFormValue("description"),
		UserComment: r.PostFormValue("userComment"),
	}

	_, err := h.library.AddMovie(r.Context(), in)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderAddForm(w, in, verr.First())
		case errors.Is(err, services.ErrDuplicate):
			h.renderAddForm(w, in, "This movie is already in your list.")
		case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUpstream):
			h.renderAddForm(w, in, "Movie not found. Please check the title and try again.")
		default:
			h.serverError(w, err)
		}
		return
	}

	h.flash.Add(w, r, "Movie added.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderAddForm(w http.ResponseWriter, in services.MovieInput, errorMessage string) {
	data := AddPageData{
		Form: services.FormData{
			Title:       in.Title,
			Director:    in.Director,
			Rating:      in.Rating,
			Description: in.Description,
			UserComment: in.UserComment,
		},
		ErrorMessage: errorMessage,
	}
	if err := addTmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("Error executing add template", "error", err)
	}
}

// UpdatePageHandler renders the edit form for one record.
func (h *Handler) UpdatePageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	movie, err := h.library.MovieForEdit(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFoundPage(w, "Movie not found")
		} else {
			h.serverError(w, err)
		}
		return
	}

	h.renderUpdateForm(w, movie, "")
}

// UpdateMovieHandler applies an edit. On validation failure the stored record
// is re-fetched so the form redisplays with the error.
func (h *Handler) UpdateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	in := services.MovieInput{
		Title:       r.PostFormValue("title"),
		Director:    r.PostFormValue("director"),
		Rating:      r.PostFormValue("rating"),
		Description: r.PostFormValue("description"),
		UserComment: r.PostFormValue("userComment"),
	}

	_, err := h.library.UpdateMovie(r.Context(), id, in)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			movie, ferr := h.library.MovieForEdit(r.Context(), id)
			if ferr != nil {
				if errors.Is(ferr, services.ErrNotFound) {
					h.notFoundPage(w, "Movie not found")
				} else {
					h.serverError(w, ferr)
				}
				return
			}
			h.renderUpdateForm(w, movie, verr.First())
		case errors.Is(err, services.ErrNotFound):
			h.notFoundPage(w, "Movie not found")
		default:
			h.serverError(w, err)
		}
		return
	}

	h.flash.Add(w, r, "Movie updated.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteMovieHandler removes a record and redirects back to the list.
func (h *Handler) DeleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.library.DeleteMovie(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFoundPage(w, "Movie not found")
		} else {
			h.serverError(w, err)
		}
		return
	}

	h.flash.Add(w, r, "Movie deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderUpdateForm(w http.ResponseWriter, movie *services.MovieView, errorMessage string) {
	data := UpdatePageData{Movie: movie, ErrorMessage: errorMessage}
	if err := updateTmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("Error executing update template", "error", err)
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.notFoundPage(w, "Movie not found")
		return 0, false
	}
	return id, true
}

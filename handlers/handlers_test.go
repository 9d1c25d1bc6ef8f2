package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmlog/models"
	"filmlog/services"
)

type memoryStore struct {
	movies []models.Movie
	nextID int
}

func (s *memoryStore) ListAll(ctx context.Context, sortKey string) ([]models.Movie, error) {
	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	for _, m := range s.movies {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindByTitle(ctx context.Context, title string) (*models.Movie, error) {
	for _, m := range s.movies {
		if strings.EqualFold(m.Title, strings.TrimSpace(title)) {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Create(ctx context.Context, data services.MovieData) (*models.Movie, error) {
	if s.nextID == 0 {
		s.nextID = 1
	}
	m := models.Movie{
		ID:       s.nextID,
		Title:    data.Title,
		Director: data.Director,
		Rating:   data.Rating,
		Comment:  data.Comment,
		CoverURL: data.CoverURL,
	}
	s.nextID++
	s.movies = append(s.movies, m)
	return &m, nil
}

func (s *memoryStore) Update(ctx context.Context, id int, data services.MovieData) (*models.Movie, error) {
	for i := range s.movies {
		if s.movies[i].ID == id {
			s.movies[i].Title = data.Title
			s.movies[i].Director = data.Director
			s.movies[i].Rating = data.Rating
			s.movies[i].Comment = data.Comment
			updated := s.movies[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Delete(ctx context.Context, id int) (*models.Movie, error) {
	for i := range s.movies {
		if s.movies[i].ID == id {
			deleted := s.movies[i]
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, nil
}

type stubMetadata struct {
	lookup func(ctx context.Context, title string) (*services.MetadataResult, error)
	search func(ctx context.Context, query string) ([]services.Suggestion, error)
}

func (s *stubMetadata) Lookup(ctx context.Context, title string) (*services.MetadataResult, error) {
	if s.lookup == nil {
		return nil, fmt.Errorf("%w: no match", services.ErrNotFound)
	}
	return s.lookup(ctx, title)
}

func (s *stubMetadata) Search(ctx context.Context, query string) ([]services.Suggestion, error) {
	if s.search == nil {
		return []services.Suggestion{}, nil
	}
	return s.search(ctx, query)
}

func newTestMux(store services.MovieRepository, metadata services.MetadataProvider) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	library := services.NewLibrary(store, metadata, logger)
	flash := services.NewFlashStore("test-secret", false)
	h := New(library, flash, true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.MoviesHandler)
	mux.HandleFunc("GET /add", h.AddPageHandler)
	mux.HandleFunc("POST /add", h.AddMovieHandler)
	mux.HandleFunc("GET /update/{id}", h.UpdatePageHandler)
	mux.HandleFunc("POST /update/{id}", h.UpdateMovieHandler)
	mux.HandleFunc("GET /delete/{id}", h.DeleteMovieHandler)
	mux.HandleFunc("GET /api/search", h.SearchAPIHandler)
	mux.HandleFunc("GET /api/movie-details", h.MovieDetailsAPIHandler)
	return mux
}

func strptr(s string) *string { return &s }

func postForm(mux *http.ServeMux, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAddMovieEndToEnd(t *testing.T) {
	store := &memoryStore{}
	metadata := &stubMetadata{
		lookup: func(ctx context.Context, title string) (*services.MetadataResult, error) {
			return &services.MetadataResult{
				Title:  "Dune",
				Poster: strptr("https://example.com/dune.jpg"),
			}, nil
		},
	}
	mux := newTestMux(store, metadata)

	rec := postForm(mux, "/add", url.Values{
		"newItem":     {"Dune"},
		"director":    {"Denis Villeneuve"},
		"rating":      {"9"},
		"description": {"Epic"},
		"userComment": {"Loved it"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	require.Len(t, store.movies, 1)
	created := store.movies[0]
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, "Epic\n\n---\nLoved it", created.Comment)
	require.NotNil(t, created.CoverURL)
	assert.Equal(t, "https://example.com/dune.jpg", *created.CoverURL)
}

func TestAddMovieDuplicateRedisplaysForm(t *testing.T) {
	store := &memoryStore{movies: []models.Movie{{ID: 1, Title: "Dune"}}, nextID: 2}
	mux := newTestMux(store, &stubMetadata{})

	rec := postForm(mux, "/add", url.Values{
		"newItem":     {"dune"},
		"director":    {"Denis Villeneuve"},
		"rating":      {"9"},
		"description": {"Epic"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This movie is already in your list.")
	// The typed input is preserved for correction.
	assert.Contains(t, rec.Body.String(), "Denis Villeneuve")
	assert.Len(t, store.movies, 1)
}

func TestAddMovieNotFoundRedisplaysForm(t *testing.T) {
	store := &memoryStore{}
	mux := newTestMux(store, &stubMetadata{})

	rec := postForm(mux, "/add", url.Values{
		"newItem":  {"No Such Movie"},
		"director": {"Nobody"},
		"rating":   {"5"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie not found. Please check the title and try again.")
	assert.Empty(t, store.movies)
}

func TestAddMovieValidationErrorRedisplaysForm(t *testing.T) {
	store := &memoryStore{}
	mux := newTestMux(store, &stubMetadata{})

	rec := postForm(mux, "/add", url.Values{
		"newItem":  {"Dune"},
		"director": {"Denis Villeneuve"},
		"rating":   {"eleven"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rating must be a number")
	assert.Empty(t, store.movies)
}

func TestDeleteMovieNotFound(t *testing.T) {
	mux := newTestMux(&memoryStore{}, &stubMetadata{})

	req := httptest.NewRequest(http.MethodGet, "/delete/42", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie not found")
}

func TestUpdatePageNotFound(t *testing.T) {
	mux := newTestMux(&memoryStore{}, &stubMetadata{})

	req := httptest.NewRequest(http.MethodGet, "/update/42", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchAPIAlwaysReturnsArray(t *testing.T) {
	metadata := &stubMetadata{
		search: func(ctx context.Context, query string) ([]services.Suggestion, error) {
			return nil, fmt.Errorf("%w: provider down", services.ErrUpstream)
		},
	}
	mux := newTestMux(&memoryStore{}, metadata)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=dune", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []services.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got)
}

func TestSearchAPIReturnsSuggestions(t *testing.T) {
	metadata := &stubMetadata{
		search: func(ctx context.Context, query string) ([]services.Suggestion, error) {
			return []services.Suggestion{
				{Title: "Dune", Year: "2021", ImdbID: "tt1160419"},
			}, nil
		},
	}
	mux := newTestMux(&memoryStore{}, metadata)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=dune", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got []services.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Nil(t, got[0].Poster)
}

func TestMovieDetailsAPI(t *testing.T) {
	metadata := &stubMetadata{
		lookup: func(ctx context.Context, title string) (*services.MetadataResult, error) {
			return &services.MetadataResult{
				Title:    "Dune",
				Director: "Denis Villeneuve",
				Plot:     "A noble family becomes embroiled in a war.",
			}, nil
		},
	}
	mux := newTestMux(&memoryStore{}, metadata)

	req := httptest.NewRequest(http.MethodGet, "/api/movie-details?title=Dune", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got movieDetailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	require.NotNil(t, got.Data)
	assert.Equal(t, "Denis Villeneuve", got.Data.Director)
}

func TestMovieDetailsAPIMissingTitle(t *testing.T) {
	mux := newTestMux(&memoryStore{}, &stubMetadata{})

	req := httptest.NewRequest(http.MethodGet, "/api/movie-details", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got movieDetailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, "Title is required", got.Error)
}

func TestMovieDetailsAPINotFound(t *testing.T) {
	mux := newTestMux(&memoryStore{}, &stubMetadata{})

	req := httptest.NewRequest(http.MethodGet, "/api/movie-details?title=zzz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got movieDetailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, "Movie not found", got.Error)
}

func TestListPage(t *testing.T) {
	store := &memoryStore{movies: []models.Movie{
		{ID: 1, Title: "Dune", Director: "Denis Villeneuve", Rating: 9, Comment: "Epic\n\n---\nLoved it"},
	}, nextID: 2}
	mux := newTestMux(store, &stubMetadata{})

	// sortBy present means a lightweight re-sort: no cover refresh, so the
	// stub's not-found lookups never run.
	req := httptest.NewRequest(http.MethodGet, "/?sortBy=rating", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dune")
	assert.Contains(t, body, "Epic")
	assert.Contains(t, body, "Loved it")
}

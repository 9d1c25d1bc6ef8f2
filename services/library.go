package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"filmlog/models"
)

// MovieRepository is the persistence surface the library needs. *MovieStore
// implements it; tests substitute an in-memory fake.
type MovieRepository interface {
	ListAll(ctx context.Context, sortKey string) ([]models.Movie, error)
	GetByID(ctx context.Context, id int) (*models.Movie, error)
	FindByTitle(ctx context.Context, title string) (*models.Movie, error)
	Create(ctx context.Context, data MovieData) (*models.Movie, error)
	Update(ctx context.Context, id int, data MovieData) (*models.Movie, error)
	Delete(ctx context.Context, id int) (*models.Movie, error)
}

// MetadataProvider is the external lookup surface. *OMDBClient implements it.
type MetadataProvider interface {
	Lookup(ctx context.Context, title string) (*MetadataResult, error)
	Search(ctx context.Context, query string) ([]Suggestion, error)
}

// MovieInput is the raw form payload for add and update. Rating stays a
// string until validation has confirmed it parses.
type MovieInput struct {
	Title       string
	Director    string
	Rating      string
	Description string
	UserComment string
}

// MovieView is a record prepared for display: the stored comment split back
// into its two logical sub-fields. Derivation only, nothing is persisted.
type MovieView struct {
	models.Movie
	Description string
	UserComment string
}

// FormData pre-fills the add form, optionally from provider metadata.
type FormData struct {
	Title       string
	Director    string
	Rating      string
	Description string
	UserComment string
	CoverURL    *string
}

const maxSuggestions = 10

// Library composes validation, metadata lookup, and the record store into the
// application's use cases.
type Library struct {
	store    MovieRepository
	metadata MetadataProvider
	logger   *slog.Logger
}

func NewLibrary(store MovieRepository, metadata MetadataProvider, logger *slog.Logger) *Library {
	return &Library{
		store:    store,
		metadata: metadata,
		logger:   logger,
	}
}

// ListMovies returns all records in the requested order. On a primary page
// view (refreshCovers) each record's poster is re-fetched best-effort; a
// failed lookup keeps whatever cover the record already had.
func (l *Library) ListMovies(ctx context.Context, sortKey string, refreshCovers bool) ([]MovieView, error) {
	movies, err := l.store.ListAll(ctx, sortKey)
	if err != nil {
		return nil, err
	}

	if refreshCovers {
		for i := range movies {
			meta, err := l.metadata.Lookup(ctx, movies[i].Title)
			if err != nil {
				l.logger.Warn("cover refresh failed", "title", movies[i].Title, "error", err)
				continue
			}
			movies[i].CoverURL = meta.Poster
		}
	}

	views := make([]MovieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, newMovieView(m))
	}
	return views, nil
}

// MovieForEdit loads one record with its comment split for the edit form.
func (l *Library) MovieForEdit(ctx context.Context, id int) (*MovieView, error) {
	movie, err := l.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, id)
	}
	view := newMovieView(*movie)
	return &view, nil
}

// AddMovie runs the full add flow: join the comment sub-fields, validate,
// reject duplicates, look the title up with the provider, and persist with
// the provider's canonical title and poster. Nothing is inserted unless the
// lookup succeeds.
func (l *Library) AddMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	comment := JoinComment(in.Description, in.UserComment)

	if verr := ValidateMovieInput(in.Title, in.Director, in.Rating, comment); verr != nil {
		return nil, verr
	}

	existing, err := l.store.FindByTitle(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, existing.Title)
	}

	meta, err := l.metadata.Lookup(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	title := meta.Title
	if title == "" {
		title = strings.TrimSpace(in.Title)
	}

	created, err := l.store.Create(ctx, MovieData{
		Title:    title,
		Director: strings.TrimSpace(in.Director),
		Rating:   mustRating(in.Rating),
		Comment:  comment,
		CoverURL: meta.Poster,
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("movie added", "title", created.Title, "id", created.ID)
	return created, nil
}

// UpdateMovie applies an edit with the same join-then-validate discipline as
// AddMovie. It never re-queries the provider; the poster stays as originally
// fetched.
func (l *Library) UpdateMovie(ctx context.Context, id int, in MovieInput) (*models.Movie, error) {
	comment := JoinComment(in.Description, in.UserComment)

	if verr := ValidateMovieInput(in.Title, in.Director, in.Rating, comment); verr != nil {
		return nil, verr
	}

	updated, err := l.store.Update(ctx, id, MovieData{
		Title:    strings.TrimSpace(in.Title),
		Director: strings.TrimSpace(in.Director),
		Rating:   mustRating(in.Rating),
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, id)
	}

	l.logger.Info("movie updated", "title", updated.Title, "id", updated.ID)
	return updated, nil
}

// DeleteMovie removes a record and returns it for confirmation.
func (l *Library) DeleteMovie(ctx context.Context, id int) (*models.Movie, error) {
	deleted, err := l.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, id)
	}

	l.logger.Info("movie deleted", "title", deleted.Title, "id", deleted.ID)
	return deleted, nil
}

// Suggest returns up to ten autocomplete suggestions. It never fails: any
// provider trouble degrades to an empty slice so the page keeps working.
func (l *Library) Suggest(ctx context.Context, query string) []Suggestion {
	suggestions, err := l.metadata.Search(ctx, query)
	if err != nil {
		l.logger.Warn("autocomplete search failed", "query", query, "error", err)
		return []Suggestion{}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// Details fetches provider metadata for one exact title, for form auto-fill.
func (l *Library) Details(ctx context.Context, title string) (*MetadataResult, error) {
	return l.metadata.Lookup(ctx, title)
}

// PrefillAdd builds the add form's initial data. When a title is given, the
// provider fills in director, plot, and poster; on any failure the form just
// carries the typed title.
func (l *Library) PrefillAdd(ctx context.Context, title string) FormData {
	form := FormData{Rating: "5"}
	if strings.TrimSpace(title) == "" {
		return form
	}

	meta, err := l.metadata.Lookup(ctx, title)
	if err != nil {
		l.logger.Warn("add form auto-fill failed", "title", title, "error", err)
		form.Title = title
		return form
	}

	form.Title = meta.Title
	form.Director = meta.Director
	form.Description = meta.Plot
	form.CoverURL = meta.Poster
	return form
}

func newMovieView(m models.Movie) MovieView {
	description, userComment := SplitComment(m.Comment)
	return MovieView{
		Movie:       m,
		Description: description,
		UserComment: userComment,
	}
}

// mustRating converts a rating that already passed validation.
func mustRating(rating string) float64 {
	value, _ := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	return value
}

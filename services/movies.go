package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"filmlog/models"
)

const movieColumns = "id, title, director, rating, comment, cover_url, created_at, updated_at"

// MovieData carries the writable fields of a record. CoverURL is only applied
// on create; edits never re-fetch the poster.
type MovieData struct {
	Title    string
	Director string
	Rating   float64
	Comment  string
	CoverURL *string
}

// MovieStore performs CRUD against the movie_info table.
type MovieStore struct {
	db *sqlx.DB
}

func NewMovieStore(db *sqlx.DB) *MovieStore {
	return &MovieStore{db: db}
}

// ListAll returns every record ordered by sortKey. Title and director sort
// ascending; rating sorts descending so the best-rated movies come first.
// Unrecognized keys fall back to title.
func (s *MovieStore) ListAll(ctx context.Context, sortKey string) ([]models.Movie, error) {
	query := fmt.Sprintf("SELECT %s FROM movie_info ORDER BY %s", movieColumns, orderByClause(sortKey))

	movies := []models.Movie{}
	if err := s.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (s *MovieStore) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	var m models.Movie
	query := fmt.Sprintf("SELECT %s FROM movie_info WHERE id = $1", movieColumns)
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return &m, nil
}

// FindByTitle matches the exact title, case-insensitively.
func (s *MovieStore) FindByTitle(ctx context.Context, title string) (*models.Movie, error) {
	var m models.Movie
	query := fmt.Sprintf("SELECT %s FROM movie_info WHERE LOWER(title) = LOWER($1)", movieColumns)
	if err := s.db.GetContext(ctx, &m, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find movie by title %q: %w", title, err)
	}
	return &m, nil
}

func (s *MovieStore) Create(ctx context.Context, data MovieData) (*models.Movie, error) {
	var m models.Movie
	query := fmt.Sprintf(`
		INSERT INTO movie_info (title, director, rating, comment, cover_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, movieColumns)
	err := s.db.GetContext(ctx, &m, query, data.Title, data.Director, data.Rating, data.Comment, data.CoverURL)
	if err != nil {
		return nil, fmt.Errorf("create movie %q: %w", data.Title, err)
	}
	return &m, nil
}

// Update applies data to the record with the given id and returns the updated
// row, or (nil, nil) when no row matched.
func (s *MovieStore) Update(ctx context.Context, id int, data MovieData) (*models.Movie, error) {
	var m models.Movie
	query := fmt.Sprintf(`
		UPDATE movie_info
		SET title = $1, director = $2, rating = $3, comment = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING %s`, movieColumns)
	err := s.db.GetContext(ctx, &m, query, data.Title, data.Director, data.Rating, data.Comment, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update movie %d: %w", id, err)
	}
	return &m, nil
}

// Delete removes the record with the given id and returns it for logging, or
// (nil, nil) when nothing matched.
func (s *MovieStore) Delete(ctx context.Context, id int) (*models.Movie, error) {
	var m models.Movie
	query := fmt.Sprintf("DELETE FROM movie_info WHERE id = $1 RETURNING %s", movieColumns)
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete movie %d: %w", id, err)
	}
	return &m, nil
}

// orderByClause maps a user-supplied sort key onto a fixed clause. User input
// never reaches the SQL directly.
func orderByClause(sortKey string) string {
	switch sortKey {
	case "director":
		return "director ASC"
	case "rating":
		return "rating DESC"
	default:
		return "title ASC"
	}
}

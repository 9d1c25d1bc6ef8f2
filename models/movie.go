package models

import "time"

type Movie struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Director  string    `db:"director" json:"director"`
	Rating    float64   `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CoverURL  *string   `db:"cover_url" json:"cover_url"` // nil when the provider had no poster
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

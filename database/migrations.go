package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	movieTableSQL := `
	CREATE TABLE IF NOT EXISTS movie_info (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		director VARCHAR(255) NOT NULL,
		rating REAL NOT NULL,
		comment TEXT DEFAULT '',
		cover_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(movieTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run movie_info migration: %w", err)
	}

	// Migration for tables created before timestamps were tracked
	alterSQL := `
	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movie_info' AND column_name='created_at') THEN
			ALTER TABLE movie_info ADD COLUMN created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movie_info' AND column_name='updated_at') THEN
			ALTER TABLE movie_info ADD COLUMN updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP;
		END IF;
	END $$;
	`
	_, err = db.Exec(alterSQL)
	if err != nil {
		return fmt.Errorf("failed to run movie_info column migration: %w", err)
	}

	return nil
}

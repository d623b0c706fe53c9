package database

import (
	"fmt"
)

func RunMigrations() error {
	moviesTableSQL := `
	CREATE TABLE IF NOT EXISTS movies (
		id SERIAL PRIMARY KEY,
		tmdb_id INTEGER UNIQUE NOT NULL,
		title VARCHAR(255) NOT NULL,
		year INTEGER,
		poster_url TEXT,
		genres TEXT,
		overview TEXT,
		seen BOOLEAN DEFAULT FALSE,
		added_by_username VARCHAR(255),
		added_by_avatar TEXT,
		source_url TEXT,
		added_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(moviesTableSQL); err != nil {
		return fmt.Errorf("failed to run movies migration: %w", err)
	}

	// Migration for tables created before the attribution columns existed.
	alterSQL := `
	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='seen') THEN
			ALTER TABLE movies ADD COLUMN seen BOOLEAN DEFAULT FALSE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='added_by_username') THEN
			ALTER TABLE movies ADD COLUMN added_by_username VARCHAR(255);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='added_by_avatar') THEN
			ALTER TABLE movies ADD COLUMN added_by_avatar TEXT;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='source_url') THEN
			ALTER TABLE movies ADD COLUMN source_url TEXT;
		END IF;
	END $$;
	`
	if _, err := DB.Exec(alterSQL); err != nil {
		return fmt.Errorf("failed to run movies column migration: %w", err)
	}

	indexSQL := `CREATE INDEX IF NOT EXISTS idx_movies_added_at ON movies (added_at DESC);`
	if _, err := DB.Exec(indexSQL); err != nil {
		return fmt.Errorf("failed to create movies index: %w", err)
	}

	return nil
}

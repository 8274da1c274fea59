package database

import (
	"context"
	"database/sql"
	"fmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(120) NOT NULL,
		state VARCHAR(120) NOT NULL,
		address VARCHAR(120) NOT NULL,
		phone VARCHAR(120) NOT NULL,
		image_link VARCHAR(500) NOT NULL,
		facebook_link VARCHAR(120) NOT NULL,
		website_link VARCHAR(120) NOT NULL,
		seeking_talent BOOLEAN NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(1200) NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_venues_identity (name, city, state, address)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS artists (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(120) NOT NULL,
		state VARCHAR(120) NOT NULL,
		phone VARCHAR(120) NOT NULL,
		image_link VARCHAR(500) NOT NULL,
		facebook_link VARCHAR(120) NULL,
		website_link VARCHAR(120) NULL,
		seeking_venues BOOLEAN NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(120) NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_artists_identity (name, city, state, phone)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		artist_id BIGINT UNSIGNED NOT NULL,
		venue_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_shows_artist_date (artist_id, date),
		KEY idx_shows_venue_date (venue_id, date),
		CONSTRAINT fk_shows_artist FOREIGN KEY (artist_id) REFERENCES artists (id),
		CONSTRAINT fk_shows_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS venue_genres (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL,
		venue_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_venue_genres (name, venue_id),
		CONSTRAINT fk_venue_genres_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS artist_genres (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL,
		artist_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_artist_genres (name, artist_id),
		CONSTRAINT fk_artist_genres_artist FOREIGN KEY (artist_id) REFERENCES artists (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		image_link TEXT NOT NULL,
		facebook_link TEXT NOT NULL,
		website_link TEXT NOT NULL,
		seeking_talent BOOLEAN NOT NULL DEFAULT 0,
		seeking_description TEXT,
		UNIQUE (name, city, state, address)
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		phone TEXT NOT NULL,
		image_link TEXT NOT NULL,
		facebook_link TEXT,
		website_link TEXT,
		seeking_venues BOOLEAN NOT NULL DEFAULT 0,
		seeking_description TEXT,
		UNIQUE (name, city, state, phone)
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		artist_id INTEGER NOT NULL REFERENCES artists (id),
		venue_id INTEGER NOT NULL REFERENCES venues (id),
		UNIQUE (artist_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shows_venue_date ON shows (venue_id, date)`,
	`CREATE TABLE IF NOT EXISTS venue_genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		venue_id INTEGER NOT NULL REFERENCES venues (id),
		UNIQUE (name, venue_id)
	)`,
	`CREATE TABLE IF NOT EXISTS artist_genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		artist_id INTEGER NOT NULL REFERENCES artists (id),
		UNIQUE (name, artist_id)
	)`,
}

// Migrate creates the directory tables when they are missing.  Statements
// run one at a time since the MySQL DSN does not enable multiStatements.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverMySQL:
		stmts = mysqlSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"sort"
)

// genreTable describes one of the genre join tables.  Both tables share
// the same shape: (id, name, <owner>_id) with UNIQUE(name, <owner>_id).
type genreTable struct {
	insert   string
	deleteBy string
	listBy   string
}

var (
	venueGenres = genreTable{
		insert:   `INSERT INTO venue_genres (name, venue_id) VALUES (?, ?)`,
		deleteBy: `DELETE FROM venue_genres WHERE venue_id = ?`,
		listBy:   `SELECT name FROM venue_genres WHERE venue_id = ?`,
	}
	artistGenres = genreTable{
		insert:   `INSERT INTO artist_genres (name, artist_id) VALUES (?, ?)`,
		deleteBy: `DELETE FROM artist_genres WHERE artist_id = ?`,
		listBy:   `SELECT name FROM artist_genres WHERE artist_id = ?`,
	}
)

// add inserts one join row per genre name for the owner.
func (g genreTable) add(ctx context.Context, tx *sql.Tx, ownerID uint64, names []string) error {
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, g.insert, name, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// replace drops every genre row of the owner and inserts names instead.
func (g genreTable) replace(ctx context.Context, tx *sql.Tx, ownerID uint64, names []string) error {
	if _, err := tx.ExecContext(ctx, g.deleteBy, ownerID); err != nil {
		return err
	}
	return g.add(ctx, tx, ownerID, names)
}

// list returns the owner's genre names sorted alphabetically.
func (g genreTable) list(ctx context.Context, q querier, ownerID uint64) ([]string, error) {
	rows, err := q.QueryContext(ctx, g.listBy, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

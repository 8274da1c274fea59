package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/venue-directory/internal/database"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction.  The transaction is rolled back
// when fn fails and committed otherwise; in both cases it is finished
// before withTx returns.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			err = classify(err)
			return
		}
		err = classify(tx.Commit())
	}()
	return fn(tx)
}

// nullable stores empty optional text as NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likeEscape is the escape character used in name searches.  '!' behaves
// the same in MySQL and SQLite string literals, unlike a backslash.
const likeEscape = "!"

// nameMatches returns the WHERE predicate comparing col, lower-cased, with
// a containsPattern argument.  MySQL lowers under its own rules and then
// compares bytes so accents are not ignored; SQLite connections use the
// fold function installed by database.OpenSQLite.
func nameMatches(db *sql.DB, col string) string {
	folded := database.FoldFunc + "(" + col + ")"
	if _, ok := db.Driver().(*mysql.MySQLDriver); ok {
		folded = "LOWER(" + col + ") COLLATE utf8mb4_bin"
	}
	return folded + " LIKE ? ESCAPE '" + likeEscape + "'"
}

// containsPattern builds a LIKE pattern matching term anywhere in a
// lower-cased column.  Wildcards in term are matched literally.
func containsPattern(term string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

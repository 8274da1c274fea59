// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// row, a write rejected by a uniqueness or foreign key constraint, or any
// other store failure (returned as is).
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrConstraint is returned when the store rejects a write because it
// would break a uniqueness or foreign key rule (duplicate venue, second
// show for an artist at the same instant, show for an unknown venue...).
// Handlers should translate this into an HTTP 409 response.
var ErrConstraint = errors.New("constraint violation")

// MySQL error numbers raised by constraint checks.
const (
	mysqlDuplicateEntry    = 1062
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlRowIsReferencedV1 = 1217
	mysqlNoReferencedRowV1 = 1216
)

// classify wraps driver constraint errors with ErrConstraint so callers
// can match them with errors.Is.  Other errors are returned untouched.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrConstraint) {
		return err
	}
	if isConstraint(err) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}

func isConstraint(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow,
			mysqlRowIsReferencedV1, mysqlNoReferencedRowV1:
			return true
		}
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}

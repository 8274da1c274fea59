package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Driver names understood by Migrate and the config layer.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// FoldFunc is the SQL function OpenSQLite registers on every connection.
// It lower-cases with Go's Unicode rules; SQLite's own LOWER only folds
// ASCII letters.
const FoldFunc = "fold"

// sqliteFoldDriver is the sqlite3 driver with FoldFunc installed.
const sqliteFoldDriver = "sqlite3_fold"

func init() {
	sql.Register(sqliteFoldDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(FoldFunc, strings.ToLower, true)
		},
	})
}

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database file with foreign key
// enforcement switched on and FoldFunc available.  It is used for local
// runs and tests.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteFoldDriver, path+"?_fk=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// a single writer avoids "database is locked" between pooled connections
	db.SetMaxOpenConns(1)

	// opening fails silently when the binary is built without CGO_ENABLED
	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

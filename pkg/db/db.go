// Package db persists grammar analyses in SQLite.
package db

import (
	"database/sql"
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations.sql
var migrationsSQL string

// Open opens the SQLite database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		conn.SetMaxOpenConns(1)
	}
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}
	return nil
}

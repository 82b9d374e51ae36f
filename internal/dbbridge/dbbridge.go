// Package dbbridge implements the thin "db" subcommand: open or create
// a SQLite file and apply a schema given as literal SQL text. There is
// deliberately no query planner or ORM layer here — the Non-goal in §1
// scopes this component to schema application only.
package dbbridge

import (
	"database/sql"

	_ "modernc.org/sqlite"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

// Bridge wraps a *sql.DB opened against a SQLite file.
type Bridge struct {
	db   *sql.DB
	path string
}

// Open creates path if it does not already exist and returns a Bridge
// bound to it.
func Open(path string) (*Bridge, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fcerrors.NewIoError("open", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fcerrors.NewIoError("ping", path, err)
	}
	return &Bridge{db: db, path: path}, nil
}

// ApplySchema runs schemaSQL verbatim against the database: string
// substitution only, no parsing or planning.
func (b *Bridge) ApplySchema(schemaSQL string) error {
	if _, err := b.db.Exec(schemaSQL); err != nil {
		return fcerrors.NewIoError("exec schema", b.path, err)
	}
	return nil
}

// Exec runs one statement and returns the number of rows affected.
func (b *Bridge) Exec(stmt string, args ...any) (int64, error) {
	res, err := b.db.Exec(stmt, args...)
	if err != nil {
		return 0, fcerrors.NewIoError("exec", b.path, err)
	}
	return res.RowsAffected()
}

// Query runs stmt and returns the raw *sql.Rows for the caller to scan;
// the caller is responsible for closing it.
func (b *Bridge) Query(stmt string, args ...any) (*sql.Rows, error) {
	rows, err := b.db.Query(stmt, args...)
	if err != nil {
		return nil, fcerrors.NewIoError("query", b.path, err)
	}
	return rows, nil
}

// Close releases the underlying connection.
func (b *Bridge) Close() error {
	return b.db.Close()
}

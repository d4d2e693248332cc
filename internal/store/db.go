// Package store owns the on-disk SQLite state: schema, the idempotent
// workflow write path, hydration of workflow documents from normalized rows,
// aggregate queries for the dashboard, and the scan ledgers.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sqlx.DB
}

// New opens (or creates) the SQLite store at path and ensures the schema
// exists. WAL keeps dashboard reads unblocked while a scan writes;
// foreign_keys enables the cascade policy declared in the schema.
func New(path string) (*DB, error) {
	// _pragma DSN params apply to every pooled connection, not just the
	// first one.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(30000)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

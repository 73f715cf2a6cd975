package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql client/*.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

// Migrate applies the server (PostgreSQL) schema.
func Migrate(db *sql.DB) error {
	return migrate(db, "pgx", ".")
}

// MigrateClient applies the client (SQLite) schema.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", "client")
}

func migrate(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// Package migrations applies the embedded schema with golang-migrate.
//
// The same SQL files serve PostgreSQL and SQLite. Every function takes a
// dedicated *sql.DB and closes it when done, because the migrate database
// drivers own the handle they are given.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// New builds a migrator for db. dialect is the data.Dialect name,
// "postgres" or "sqlite3".
func New(db *sql.DB, dialect string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: open source: %w", err)
	}

	var (
		drv  database.Driver
		name string
	)
	switch dialect {
	case "postgres":
		drv, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
		name = "pgx5"
	case "sqlite3":
		drv, err = sqlite3.WithInstance(db, &sqlite3.Config{})
		name = "sqlite3"
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations: init %s driver: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return m, nil
}

// Up applies every pending migration.
func Up(db *sql.DB, dialect string) error {
	return run(db, dialect, func(m *migrate.Migrate) error { return m.Up() })
}

// Down rolls back steps migrations, all of them when steps <= 0.
func Down(db *sql.DB, dialect string, steps int) error {
	return run(db, dialect, func(m *migrate.Migrate) error {
		if steps <= 0 {
			return m.Down()
		}
		return m.Steps(-steps)
	})
}

// Version reports the applied version and whether the last run left it dirty.
func Version(db *sql.DB, dialect string) (version uint, dirty bool, err error) {
	err = run(db, dialect, func(m *migrate.Migrate) error {
		version, dirty, err = m.Version()
		return err
	})
	return version, dirty, err
}

func run(db *sql.DB, dialect string, fn func(*migrate.Migrate) error) error {
	m, err := New(db, dialect)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	return nil
}

// Package sqlite registers the SQLite driver with the data layer. It backs
// tests and single node deployments.
//
//	import _ "github.com/ncobase/socialhub/data/sqlite"
//
// Foreign keys are switched on for every connection so cascading deletes
// behave as on PostgreSQL. SQLite serializes writers, so transactions need
// no explicit row lock.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/data/config"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type driver struct{}

func (d *driver) Name() string { return "sqlite3" }

func (d *driver) SQLDriverName() string { return "sqlite3" }

func (d *driver) Dialect() data.Dialect {
	return data.Dialect{Name: "sqlite3"}
}

// DSN adds the pragmas socialhub relies on to a file path or URI.
func DSN(source string) string {
	params := []string{}
	if !strings.Contains(source, "_foreign_keys") && !strings.Contains(source, "_fk") {
		params = append(params, "_foreign_keys=1")
	}
	if !strings.Contains(source, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + strings.Join(params, "&")
}

func (d *driver) Connect(ctx context.Context, cfg *config.DBNode) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("sqlite: connection source is empty")
	}

	db, err := sql.Open("sqlite3", DSN(cfg.Source))
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConn
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	return db, nil
}

func init() {
	data.RegisterDatabaseDriver(&driver{}, "sqlite")
}

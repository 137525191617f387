// Package postgres registers the PostgreSQL driver with the data layer.
//
//	import _ "github.com/ncobase/socialhub/data/postgres"
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/data/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

type driver struct{}

func (d *driver) Name() string { return "postgres" }

func (d *driver) SQLDriverName() string { return "pgx" }

func (d *driver) Dialect() data.Dialect {
	return data.Dialect{Name: "postgres", LockSuffix: " FOR UPDATE"}
}

func (d *driver) Connect(ctx context.Context, cfg *config.DBNode) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("postgres: connection source is empty")
	}

	db, err := sql.Open("pgx", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}

	if cfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return db, nil
}

func init() {
	data.RegisterDatabaseDriver(&driver{}, "pgx", "postgresql")
}

package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/data/migrations"
)

// openMigrationDB opens a connection the migrate driver may own and close.
func openMigrationDB(ctx context.Context, cfg *config.Config) (data.DatabaseDriver, *sql.DB, error) {
	if cfg.Data == nil || cfg.Data.Database == nil || cfg.Data.Database.Master == nil {
		return nil, nil, errors.New("data.database.master is required")
	}
	driver, err := data.GetDatabaseDriver(cfg.Data.Database.Master.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := driver.Connect(ctx, cfg.Data.Database.Master)
	if err != nil {
		return nil, nil, err
	}
	return driver, db, nil
}

// Migrate applies pending migrations on a dedicated connection.
func Migrate(ctx context.Context, cfg *config.Config) error {
	driver, db, err := openMigrationDB(ctx, cfg)
	if err != nil {
		return err
	}
	return migrations.Up(db, driver.Dialect().Name)
}

// MigrateDown rolls back steps migrations, every one when steps <= 0.
func MigrateDown(ctx context.Context, cfg *config.Config, steps int) error {
	driver, db, err := openMigrationDB(ctx, cfg)
	if err != nil {
		return err
	}
	return migrations.Down(db, driver.Dialect().Name, steps)
}

// MigrationVersion reports the applied schema version.
func MigrationVersion(ctx context.Context, cfg *config.Config) (uint, bool, error) {
	driver, db, err := openMigrationDB(ctx, cfg)
	if err != nil {
		return 0, false, err
	}
	return migrations.Version(db, driver.Dialect().Name)
}

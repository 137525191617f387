// Package data owns the database pool, the optional Redis client and
// transaction scoping for repositories.
//
// Database drivers live in sub packages and register themselves on import:
//
//	import _ "github.com/ncobase/socialhub/data/postgres"
package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/socialhub/data/config"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Data represents the data layer implementation
type Data struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Dialect Dialect
	// CacheTTL is how long cached rows live in Redis.
	CacheTTL time.Duration

	mu     sync.RWMutex
	closed bool
}

// New opens the configured database and, when an address is set, Redis.
// The returned cleanup closes both.
func New(ctx context.Context, cfg *config.Config) (*Data, func(), error) {
	if cfg == nil || cfg.Database == nil || cfg.Database.Master == nil {
		return nil, nil, errors.New("data: database config is required")
	}

	driver, err := GetDatabaseDriver(cfg.Database.Master.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := driver.Connect(ctx, cfg.Database.Master)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{
		DB:      sqlx.NewDb(db, driver.SQLDriverName()),
		Dialect: driver.Dialect(),
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		rc, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		d.Redis = rc
		d.CacheTTL = cfg.Redis.CacheTTL
	}

	cleanup := func() {
		if errs := d.Close(); len(errs) > 0 {
			fmt.Printf("data cleanup errors: %v\n", errs)
		}
	}
	return d, cleanup, nil
}

// NewWithDB wraps an already opened pool, used by tests and tools.
func NewWithDB(db *sqlx.DB, dialect Dialect) *Data {
	return &Data{DB: db, Dialect: dialect}
}

func newRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis: failed to ping %s: %w", cfg.Addr, err)
	}
	return rc, nil
}

// Close closes the database pool and Redis client.
func (d *Data) Close() (errs []error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errs
}

func (d *Data) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

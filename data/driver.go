package data

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/socialhub/data/config"
)

// Driver interfaces define contracts for relational backends.
// Following the design pattern of database/sql, drivers register themselves
// using init() functions and are looked up at runtime based on configuration.

// DatabaseDriver defines the interface for relational database drivers.
type DatabaseDriver interface {
	// Name returns the configuration identifier, e.g. "postgres" or "sqlite3".
	Name() string

	// SQLDriverName returns the database/sql driver name, used by sqlx to
	// pick the bind variable style.
	SQLDriverName() string

	// Dialect describes the SQL differences repositories care about.
	Dialect() Dialect

	// Connect opens and pings a pool configured from cfg.
	Connect(ctx context.Context, cfg *config.DBNode) (*sql.DB, error)
}

// Dialect captures the few statements that differ between backends.
type Dialect struct {
	Name string
	// LockSuffix is appended to a SELECT that must hold a row lock until
	// the surrounding transaction ends.
	LockSuffix string
}

var (
	databaseDrivers   = make(map[string]DatabaseDriver)
	databaseDriversMu sync.RWMutex
)

// RegisterDatabaseDriver registers a database driver, optionally under
// extra aliases. Panics on nil or duplicate registration.
func RegisterDatabaseDriver(driver DatabaseDriver, aliases ...string) {
	if driver == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}

	databaseDriversMu.Lock()
	defer databaseDriversMu.Unlock()

	for _, name := range append([]string{driver.Name()}, aliases...) {
		if _, dup := databaseDrivers[name]; dup {
			panic(fmt.Sprintf("data: RegisterDatabaseDriver called twice for driver %s", name))
		}
		databaseDrivers[name] = driver
	}
}

// GetDatabaseDriver retrieves a registered database driver by name.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	driver, ok := databaseDrivers[name]
	if !ok {
		return nil, fmt.Errorf("data: database driver %q not registered (forgotten import?)", name)
	}
	return driver, nil
}

// DatabaseDrivers returns the sorted list of registered driver names.
func DatabaseDrivers() []string {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	names := make([]string, 0, len(databaseDrivers))
	for name := range databaseDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

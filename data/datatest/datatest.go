// Package datatest opens throwaway migrated SQLite databases for tests.
package datatest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/data/config"
	"github.com/ncobase/socialhub/data/migrations"
	"github.com/ncobase/socialhub/data/sqlite"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Open returns a Data backed by a fresh SQLite file in t.TempDir with the
// full schema applied. It is closed when the test ends.
func Open(t testing.TB) *data.Data {
	t.Helper()

	source := "file:" + filepath.Join(t.TempDir(), "socialhub.db")

	mdb, err := sql.Open("sqlite3", sqlite.DSN(source))
	require.NoError(t, err)
	require.NoError(t, migrations.Up(mdb, "sqlite3"))

	driver, err := data.GetDatabaseDriver("sqlite3")
	require.NoError(t, err)

	db, err := driver.Connect(context.Background(), &config.DBNode{Source: source, MaxOpenConn: 1})
	require.NoError(t, err)

	d := data.NewWithDB(sqlx.NewDb(db, driver.SQLDriverName()), driver.Dialect())
	t.Cleanup(func() { d.Close() })
	return d
}

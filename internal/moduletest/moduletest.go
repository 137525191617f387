// Package moduletest assembles an App over a throwaway SQLite database and
// filesystem storage for service and handler tests.
package moduletest

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/crypto"
	"github.com/ncobase/socialhub/data/datatest"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/internal/server"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/oss"
	"github.com/ncobase/socialhub/security/jwt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Secret signs test tokens.
const Secret = "moduletest-secret"

// Password is the plain password of users made by CreateUser.
const Password = "secret123"

// Env is an assembled App plus the storage behind its uploader.
type Env struct {
	App     *module.App
	Storage *oss.FileSystem
}

// New returns an Env with no modules initialized.
func New(t testing.TB) *Env {
	t.Helper()

	d := datatest.Open(t)
	storage := oss.NewFileSystem(t.TempDir())

	return &Env{
		App: &module.App{
			Config: &config.Config{
				AppName: "socialhub",
				RunMode: "test",
				Server:  &config.Server{MaxUploadSize: 10 << 20},
				Auth: &config.Auth{
					JWT:        &config.JWT{Secret: Secret, Expire: time.Hour},
					BcryptCost: bcrypt.MinCost,
				},
				Storage: &oss.Config{Provider: "filesystem"},
			},
			Data:      d,
			Relations: relation.NewStore(d),
			Media:     media.NewUploader(storage),
			Publisher: messaging.Noop{},
			Tokens:    jwt.NewTokenManager(Secret, time.Hour),
			Logger:    logger.StdLogger(),
		},
		Storage: storage,
	}
}

// DB exposes the database for direct fixture writes.
func (e *Env) DB() *sqlx.DB {
	return e.App.Data.DB
}

// CreateUser inserts a user with Password as its password.
func (e *Env) CreateUser(t testing.TB, userName, email string) *structs.User {
	t.Helper()

	hash, err := crypto.HashPassword(context.Background(), Password, bcrypt.MinCost)
	require.NoError(t, err)

	u := structs.NewUser(uuid.NewString(), userName, email, hash, "")
	now := time.Now().UTC()
	_, err = e.DB().Exec(e.DB().Rebind(
		`INSERT INTO users (id, user_name, email, password, avatar, bio, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.UserName, u.Email, u.Password, u.Avatar, u.Bio, u.Status, now, now)
	require.NoError(t, err)
	return u
}

// SetStatus changes the visibility of a user.
func (e *Env) SetStatus(t testing.TB, userID, status string) {
	t.Helper()
	_, err := e.DB().Exec(e.DB().Rebind(`UPDATE users SET status = ? WHERE id = ?`), status, userID)
	require.NoError(t, err)
}

// Token issues an access token for u.
func (e *Env) Token(t testing.TB, u *structs.User) string {
	t.Helper()
	token, err := e.App.Tokens.GenerateAccessToken(uuid.NewString(), jwt.Payload{
		UserID:   u.ID,
		Email:    u.Email,
		UserName: u.UserName,
	})
	require.NoError(t, err)
	return token
}

// Exists reports whether the object behind a stored URL is still present.
func (e *Env) Exists(t testing.TB, url string) bool {
	t.Helper()
	ok, err := e.Storage.Exists(context.Background(), oss.KeyFromURL(url))
	require.NoError(t, err)
	return ok
}

// PNG returns the bytes of a tiny PNG image.
func PNG() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
		0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
		0x42, 0x60, 0x82,
	}
}

// Upload wraps body as an uploaded file.
func Upload(name string, body []byte) *media.File {
	return &media.File{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil },
	}
}

// Start initializes every module on the Env and returns the server.
func (e *Env) Start(t testing.TB) *server.Server {
	t.Helper()
	srv, err := server.NewWithApp(e.App, e.Storage)
	require.NoError(t, err)
	return srv
}

// Service returns the cross service published under key, failing the test
// when it is missing.
func Service[T any](t testing.TB, e *Env, key string) T {
	t.Helper()
	svc, err := module.Lookup[T](e.App, key)
	require.NoError(t, err)
	return svc
}

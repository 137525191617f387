package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/oss"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte{
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

func file(name string, body []byte) *File {
	return &File{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil },
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	storage := oss.NewFileSystem(t.TempDir())
	u := NewUploader(storage)

	stored, err := u.Store(ctx, "post", file("holiday", png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.MIME)
	assert.True(t, strings.HasSuffix(stored.Key, ".png"))
	assert.True(t, strings.HasPrefix(stored.Key, "post-holiday-"))
	assert.True(t, u.Owned(stored.URL))

	ok, err := storage.Exists(ctx, stored.Key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreRejectsUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(oss.NewFileSystem(dir))

	_, err := u.Store(context.Background(), "post", file("notes.txt", []byte("just some text")))
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
}

func TestOwned(t *testing.T) {
	u := NewUploader(oss.NewFileSystem(t.TempDir()))

	assert.True(t, u.Owned("/uploads/post-a-123.png"))
	assert.False(t, u.Owned(""))
	assert.False(t, u.Owned("https://cdn.example.com/default-avatar.png"))
}

type failingStorage struct {
	*oss.FileSystem
	deletes []string
}

func (f *failingStorage) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return errors.New("bucket offline")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	storage := oss.NewFileSystem(t.TempDir())
	u := NewUploader(storage)

	stored, err := u.Store(ctx, "avatar", file("me.png", png))
	require.NoError(t, err)

	require.NoError(t, u.Remove(ctx, "https://cdn.example.com/default-avatar.png", stored.URL, ""))
	ok, err := storage.Exists(ctx, stored.Key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, u.Remove(ctx, stored.URL))
}

func TestRemoveTriesEveryURL(t *testing.T) {
	storage := &failingStorage{FileSystem: oss.NewFileSystem(t.TempDir())}
	u := NewUploader(storage)

	err := u.Remove(context.Background(), "/uploads/a.png", "https://elsewhere.example.com/b.png", "/uploads/c.png")
	require.Error(t, err)
	assert.Equal(t, ecode.KindStorage, ecode.KindOf(err))
	assert.Equal(t, []string{"a.png", "c.png"}, storage.deletes)
}

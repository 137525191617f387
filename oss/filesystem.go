package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem stores objects as files under a root directory.
type FileSystem struct {
	root    string
	baseURL string
}

// NewFileSystem returns a filesystem storage rooted at root. baseURL
// defaults to /uploads.
func NewFileSystem(root string, baseURL ...string) *FileSystem {
	fsys := &FileSystem{root: root, baseURL: "/uploads"}
	if len(baseURL) > 0 && baseURL[0] != "" {
		fsys.baseURL = baseURL[0]
	}
	return fsys
}

// Root returns the directory objects are written to.
func (f *FileSystem) Root() string { return f.root }

func (f *FileSystem) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(f.root, key), nil
}

func (f *FileSystem) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	file, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	written, err := io.Copy(file, r)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to write object: %w", err)
	}

	return &Object{Key: key, URL: f.URL(key), Size: written, ContentType: contentType}, nil
}

func (f *FileSystem) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (f *FileSystem) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := f.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (f *FileSystem) URL(key string) string { return joinURL(f.baseURL, key) }

type filesystemDriver struct{}

func (filesystemDriver) Name() []string { return []string{"filesystem", "local"} }

func (filesystemDriver) Connect(_ context.Context, cfg *Config) (Interface, error) {
	if err := os.MkdirAll(cfg.Bucket, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return NewFileSystem(cfg.Bucket, cfg.BaseURL), nil
}

func init() {
	RegisterDriver(filesystemDriver{})
}

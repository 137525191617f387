// Package media stores and removes the images and videos attached to
// avatars, posts and stories.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/oss"
	"github.com/ncobase/socialhub/validation/validator"
)

// File is an uploaded file not yet stored.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromHeader wraps a multipart upload. It returns nil for a nil header.
func FromHeader(fh *multipart.FileHeader) *File {
	if fh == nil {
		return nil
	}
	return &File{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Stored describes a file written to object storage.
type Stored struct {
	URL  string
	Key  string
	MIME string
}

// Uploader validates and stores media in object storage.
type Uploader struct {
	storage oss.Interface
}

// NewUploader returns an Uploader writing to storage.
func NewUploader(storage oss.Interface) *Uploader {
	return &Uploader{storage: storage}
}

// Store sniffs f and uploads it under a key derived from prefix. A type
// outside the accepted set returns validator.ErrUnsupportedMedia without
// touching storage.
func (u *Uploader) Store(ctx context.Context, prefix string, f *File) (*Stored, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", f.Name, err)
	}
	defer rc.Close()

	m, r, err := validator.DetectMedia(rc)
	if err != nil {
		return nil, err
	}

	name := f.Name
	if !strings.HasSuffix(strings.ToLower(name), m.Extension) {
		name += m.Extension
	}

	obj, err := u.storage.Put(ctx, oss.ObjectKey(prefix, name), r, f.Size, m.MIME)
	if err != nil {
		return nil, ecode.Storage("Failed to upload file", err)
	}
	return &Stored{URL: obj.URL, Key: obj.Key, MIME: m.MIME}, nil
}

// Owned reports whether url points into this storage. External URLs such
// as the default avatar are never deleted.
func (u *Uploader) Owned(url string) bool {
	if url == "" {
		return false
	}
	base := strings.TrimSuffix(u.storage.URL("k"), "k")
	return strings.HasPrefix(url, base)
}

// Remove deletes the objects behind urls, skipping foreign ones. It tries
// every URL and returns the first failure.
func (u *Uploader) Remove(ctx context.Context, urls ...string) error {
	var first error
	for _, url := range urls {
		if !u.Owned(url) {
			continue
		}
		if err := u.storage.Delete(ctx, oss.KeyFromURL(url)); err != nil && first == nil {
			first = ecode.Storage("Failed to delete file", err)
		}
	}
	return first
}

// IsUnsupported reports whether err rejects the upload type.
func IsUnsupported(err error) bool {
	return errors.Is(err, validator.ErrUnsupportedMedia)
}

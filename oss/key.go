package oss

import (
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ObjectKey builds a flat, unique object key such as
// "post-holiday-photo-3k9x0a1b2c3d.png" from a prefix and the uploaded file name.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	name := slug.Make(prefix + " " + base)
	if name == "" {
		name = "object"
	}
	if len(name) > 64 {
		name = strings.Trim(name[:64], "-")
	}

	return name + "-" + gonanoid.MustGenerate(keyAlphabet, 12) + ext
}

// KeyFromURL recovers the object key from a URL returned by Interface.URL,
// taking the last path segment.
func KeyFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// Package nanoid generates the short url-safe ids used for posts, comments
// and stories.
package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	// Alphabet avoids characters that need escaping in URLs and paths.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// PrimaryKey generates a content id.
func PrimaryKey(l ...int) string {
	return gonanoid.MustGenerate(Alphabet, getSize(l...))
}

// Lower generates a lowercase alphanumeric id.
func Lower(l ...int) string {
	return gonanoid.MustGenerate(Alphabet[:36], getSize(l...))
}

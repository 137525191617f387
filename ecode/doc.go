// Package ecode defines the business codes used in API failure responses and
// the classified domain errors raised by services.
//
// Services return *Error values built with NotFound, Forbidden,
// Unauthenticated, Validation, Duplicate, Storage or Internal. The HTTP
// boundary (net/resp.FromError) maps the kind to a status code and a
// business code; only Message reaches the client.
//
//	if post == nil {
//		return ecode.NotFound("Post not found")
//	}
//	return ecode.Internal("failed to save post", err)
package ecode

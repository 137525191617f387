package oss

import (
	"context"
	"io"
	"time"

	"github.com/sony/gobreaker"
)

// Breaker guards a remote storage with a circuit breaker so a failing
// provider answers fast instead of stalling every upload and delete.
type Breaker struct {
	inner Interface
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps storage in a circuit breaker named name.
func WithBreaker(storage Interface, name string) *Breaker {
	return &Breaker{
		inner: storage,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			// a cancelled request says nothing about the provider
			IsSuccessful: func(err error) bool {
				return err == nil || err == context.Canceled
			},
		}),
	}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.Put(ctx, key, r, size, contentType)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Object), nil
}

func (b *Breaker) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return err
}

func (b *Breaker) Exists(ctx context.Context, key string) (bool, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.Exists(ctx, key)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

func (b *Breaker) URL(key string) string { return b.inner.URL(key) }

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, cfg *Config) (*Pool, *[]error) {
	t.Helper()
	var (
		mu   sync.Mutex
		errs []error
	)
	p, err := NewPool(cfg, func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	require.NoError(t, err)
	p.Start()
	return p, &errs
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxWorkers: 0, QueueSize: 1}).Validate())
	assert.Error(t, (&Config{MaxWorkers: 1, QueueSize: 0}).Validate())
	assert.Error(t, (&Config{MaxWorkers: 1, QueueSize: 1, TaskTimeout: -1}).Validate())

	_, err := NewPool(&Config{}, nil)
	assert.Error(t, err)
}

func TestPoolRunsTasks(t *testing.T) {
	p, _ := newPool(t, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	for range 2 {
		require.NoError(t, p.Submit(func(context.Context) error {
			wg.Done()
			return nil
		}))
	}
	wg.Wait()

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int64(2), p.Metrics().CompletedTasks)
	assert.True(t, p.IsIdle())
}

func TestPoolSubmitWhenFull(t *testing.T) {
	p, _ := newPool(t, &Config{MaxWorkers: 1, QueueSize: 1})
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Submit(func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, p.Submit(func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrQueueFull)
	assert.Equal(t, int64(1), p.Metrics().DroppedTasks)
	assert.True(t, p.IsBusy())

	close(release)
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int64(2), p.Metrics().CompletedTasks)
}

func TestPoolReportsFailures(t *testing.T) {
	p, errs := newPool(t, &Config{MaxWorkers: 1, QueueSize: 4, TaskTimeout: 20 * time.Millisecond})
	boom := errors.New("boom")

	require.NoError(t, p.Submit(func(context.Context) error { return boom }))
	require.NoError(t, p.Submit(func(context.Context) error { panic("bad task") }))
	require.NoError(t, p.Submit(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	require.NoError(t, p.Stop(context.Background()))

	assert.Equal(t, int64(3), p.Metrics().FailedTasks)
	require.Len(t, *errs, 3)
	assert.ErrorIs(t, (*errs)[0], boom)
	assert.Contains(t, (*errs)[1].Error(), "panicked")
	assert.ErrorIs(t, (*errs)[2], context.DeadlineExceeded)
}

func TestPoolStop(t *testing.T) {
	p, _ := newPool(t, &Config{MaxWorkers: 1, QueueSize: 1})
	require.NoError(t, p.Submit(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
	assert.NoError(t, p.Stop(context.Background()))
	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrStopped)
}

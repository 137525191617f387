package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/internal/worker"
	"github.com/ncobase/socialhub/logging/logger"
)

// closeTimeout bounds how long Close waits for queued events.
const closeTimeout = 10 * time.Second

// Dispatcher hands events to a broker publisher from a bounded worker pool.
// Publish never blocks; a full queue drops the event.
type Dispatcher struct {
	next Publisher
	pool *worker.Pool
}

// NewDispatcher starts a pool in front of next.
func NewDispatcher(next Publisher, cfg *worker.Config) (*Dispatcher, error) {
	pool, err := worker.NewPool(cfg, func(err error) {
		logger.Warnf(context.Background(), "event delivery via %s failed: %v", next.Name(), err)
	})
	if err != nil {
		return nil, fmt.Errorf("messaging: %w", err)
	}
	pool.Start()
	return &Dispatcher{next: next, pool: pool}, nil
}

// Publish queues ev. The request context only contributes its values.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) error {
	return d.pool.Submit(func(taskCtx context.Context) error {
		pctx, cancel := ctxutil.WithAsyncContext(ctx, ctxutil.DefaultAsyncTimeout)
		defer cancel()
		stop := context.AfterFunc(taskCtx, cancel)
		defer stop()
		if err := d.next.Publish(pctx, ev); err != nil {
			return fmt.Errorf("publish %s: %w", ev.Type, err)
		}
		return nil
	})
}

// Metrics reports the pool counters.
func (d *Dispatcher) Metrics() worker.Metrics { return d.pool.Metrics() }

func (d *Dispatcher) Name() string { return d.next.Name() }

// Close drains queued events and closes the broker publisher.
func (d *Dispatcher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := d.pool.Stop(ctx); err != nil {
		logger.Warnf(ctx, "messaging: %d events not delivered before close", d.pool.Metrics().PendingTasks)
	}
	return d.next.Close()
}

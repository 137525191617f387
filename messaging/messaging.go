// Package messaging publishes domain events (likes, follows, comments,
// bookmarks) to Kafka or RabbitMQ. Publishing is best effort: events are
// sent after the change has committed and a broker failure never fails
// the request.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/data/config"
	"github.com/ncobase/socialhub/internal/worker"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/google/uuid"
)

// Event types.
const (
	PostLiked         = "post.liked"
	PostUnliked       = "post.unliked"
	PostBookmarked    = "post.bookmarked"
	PostUnbookmarked  = "post.unbookmarked"
	CommentCreated    = "comment.created"
	CommentLiked      = "comment.liked"
	CommentUnliked    = "comment.unliked"
	StoryLiked        = "story.liked"
	StoryUnliked      = "story.unliked"
	UserFollowed      = "user.followed"
	UserUnfollowed    = "user.unfollowed"
	defaultProviderID = "noop"
)

// Event is the envelope every message carries.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ActorID    string         `json:"actor_id"`
	TargetID   string         `json:"target_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(typ, actorID, targetID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		ActorID:    actorID,
		TargetID:   targetID,
		OccurredAt: time.Now().UTC(),
	}
}

// Toggled picks the on or off event type for a toggle result.
func Toggled(on bool, onType, offType string) string {
	if on {
		return onType
	}
	return offType
}

func (e Event) encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("messaging: encode %s: %w", e.Type, err)
	}
	return b, nil
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Name() string
	Close() error
}

// New returns the publisher selected by cfg.Messaging.Provider behind a
// Dispatcher. An empty provider yields a publisher that drops everything.
func New(ctx context.Context, cfg *config.Config) (Publisher, error) {
	if cfg == nil || cfg.Messaging == nil {
		return Noop{}, nil
	}

	var (
		broker Publisher
		err    error
	)
	switch cfg.Messaging.Provider {
	case "", "none", defaultProviderID:
		return Noop{}, nil
	case "kafka":
		broker, err = NewKafka(cfg.Kafka)
	case "rabbitmq":
		broker, err = NewRabbitMQ(ctx, cfg.RabbitMQ, cfg.Messaging.Exchange)
	default:
		return nil, fmt.Errorf("messaging: unsupported provider %q", cfg.Messaging.Provider)
	}
	if err != nil {
		return nil, err
	}

	d, err := NewDispatcher(broker, poolConfig(cfg.Messaging))
	if err != nil {
		_ = broker.Close()
		return nil, err
	}
	return d, nil
}

func poolConfig(m *config.Messaging) *worker.Config {
	cfg := worker.DefaultConfig()
	if m.Workers > 0 {
		cfg.MaxWorkers = m.Workers
	}
	if m.QueueSize > 0 {
		cfg.QueueSize = m.QueueSize
	}
	if m.Timeout > 0 {
		cfg.TaskTimeout = m.Timeout
	}
	return cfg
}

// Emit publishes ev after the caller's change has committed, logging
// failures. A Dispatcher queues it; any other publisher runs on its own
// goroutine with a context detached from the request.
func Emit(ctx context.Context, p Publisher, ev Event) {
	switch p := p.(type) {
	case nil, Noop:
		return
	case *Dispatcher:
		if err := p.Publish(ctx, ev); err != nil {
			logger.Warnf(ctx, "queue %s for %s failed: %v", ev.Type, p.Name(), err)
		}
		return
	}
	actx, cancel := ctxutil.WithAsyncContext(ctx, ctxutil.DefaultAsyncTimeout)
	go func() {
		defer cancel()
		if err := p.Publish(actx, ev); err != nil {
			logger.Warnf(actx, "publish %s via %s failed: %v", ev.Type, p.Name(), err)
		}
	}()
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Name() string                         { return defaultProviderID }
func (Noop) Close() error                         { return nil }

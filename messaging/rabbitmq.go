package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ncobase/socialhub/data/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes events to a durable topic exchange, using the event
// type as routing key.
type RabbitMQ struct {
	conn     *amqp.Connection
	exchange string
	timeout  time.Duration

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitMQ dials the broker and declares the exchange.
func NewRabbitMQ(ctx context.Context, cfg *config.RabbitMQ, exchange string) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("messaging: rabbitmq url is required")
	}

	amqpCfg := amqp.Config{
		Vhost:     cfg.Vhost,
		Heartbeat: cfg.HeartbeatInterval,
	}
	if cfg.ConnectionTimeout > 0 {
		amqpCfg.Dial = amqp.DefaultDial(cfg.ConnectionTimeout)
	}
	if cfg.Username != "" {
		amqpCfg.SASL = []amqp.Authentication{&amqp.PlainAuth{Username: cfg.Username, Password: cfg.Password}}
	}

	conn, err := amqp.DialConfig(cfg.URL, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: dial rabbitmq %s: %w", redact(cfg.URL), err)
	}

	r := &RabbitMQ{conn: conn, exchange: exchange, timeout: cfg.PublishTimeout}
	if err := ctx.Err(); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := r.channel(); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

// channel returns the shared confirm-mode channel, reopening it after a
// channel level error. Callers hold r.mu or are the constructor.
func (r *RabbitMQ) channel() (*amqp.Channel, error) {
	if r.ch != nil && !r.ch.IsClosed() {
		return r.ch, nil
	}
	if r.conn.IsClosed() {
		return nil, errors.New("messaging: rabbitmq connection is closed")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("messaging: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(r.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("messaging: declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("messaging: confirm mode: %w", err)
	}
	r.ch = ch
	return ch, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, ev Event) error {
	body, err := ev.encode()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ch, err := r.channel()
	if err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, r.exchange, ev.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("messaging: publish: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("messaging: wait confirm: %w", err)
	}
	if !acked {
		return errors.New("messaging: broker nacked publish")
	}
	return nil
}

func (r *RabbitMQ) Name() string { return "rabbitmq" }

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn.IsClosed() {
		return nil
	}
	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("messaging: close rabbitmq: %w", err)
	}
	return nil
}

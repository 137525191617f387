package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/socialhub/data/config"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes events to one topic, keyed by actor so a user's events
// stay ordered within a partition.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka builds a Kafka publisher. Connections are opened lazily on the
// first write.
func NewKafka(cfg *config.Kafka) (*Kafka, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("messaging: kafka brokers are required")
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}
	transport := &kafka.Transport{ClientID: cfg.ClientID}
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: writeTimeout,
			Transport:    transport,
		},
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, ev Event) error {
	body, err := ev.encode()
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(ev.ActorID),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("messaging: kafka write: %w", err)
	}
	return nil
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Close() error { return k.writer.Close() }

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Messaging selects the broker used for domain events.
// Provider is one of "kafka", "rabbitmq" or empty to disable publishing.
// Workers and QueueSize size the pool that hands events to the broker.
type Messaging struct {
	Provider  string        `json:"provider" yaml:"provider"`
	Exchange  string        `json:"exchange" yaml:"exchange"`
	Workers   int           `json:"workers" yaml:"workers"`
	QueueSize int           `json:"queue_size" yaml:"queue_size"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

func getMessagingConfig(v *viper.Viper) *Messaging {
	exchange := v.GetString("data.messaging.exchange")
	if exchange == "" {
		exchange = "socialhub.events"
	}
	workers := v.GetInt("data.messaging.workers")
	if workers <= 0 {
		workers = 4
	}
	queueSize := v.GetInt("data.messaging.queue_size")
	if queueSize <= 0 {
		queueSize = 1024
	}
	timeout := v.GetDuration("data.messaging.timeout")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Messaging{
		Provider:  v.GetString("data.messaging.provider"),
		Exchange:  exchange,
		Workers:   workers,
		QueueSize: queueSize,
		Timeout:   timeout,
	}
}

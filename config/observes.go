package config

import (
	"time"

	"github.com/spf13/viper"
)

// Sentry reports panics and error logs. An empty Endpoint disables it.
type Sentry struct {
	Endpoint    string  `json:"endpoint" yaml:"endpoint"`
	Environment string  `json:"environment" yaml:"environment"`
	Release     string  `json:"release" yaml:"release"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate"`
}

func getSentryConfig(v *viper.Viper) *Sentry {
	return &Sentry{
		Endpoint:    v.GetString("observes.sentry.endpoint"),
		Environment: v.GetString("observes.sentry.environment"),
		Release:     v.GetString("observes.sentry.release"),
		SampleRate:  valueOr(v, "observes.sentry.sample_rate", v.GetFloat64, 1.0),
	}
}

// Tracer exports request spans over OTLP. An empty Endpoint disables it.
type Tracer struct {
	Endpoint           string        `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	Insecure           bool          `json:"insecure" yaml:"insecure"`
	ServiceName        string        `json:"service_name" yaml:"service_name"`
	ServiceVersion     string        `json:"service_version" yaml:"service_version"`
	Environment        string        `json:"environment" yaml:"environment"`
	SamplingRate       float64       `json:"sampling_rate" yaml:"sampling_rate"` // 0.0 to 1.0
	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

func getTracerConfig(v *viper.Viper) *Tracer {
	return &Tracer{
		Endpoint:           v.GetString("observes.tracer.endpoint"),
		Insecure:           v.GetBool("observes.tracer.insecure"),
		ServiceName:        valueOr(v, "observes.tracer.service_name", v.GetString, valueOr(v, "app_name", v.GetString, "socialhub")),
		ServiceVersion:     v.GetString("observes.tracer.service_version"),
		Environment:        v.GetString("observes.tracer.environment"),
		SamplingRate:       valueOr(v, "observes.tracer.sampling_rate", v.GetFloat64, 1.0),
		MaxExportBatchSize: valueOr(v, "observes.tracer.max_export_batch_size", v.GetInt, 512),
		BatchTimeout:       valueOr(v, "observes.tracer.batch_timeout", v.GetDuration, 5*time.Second),
		ExportTimeout:      valueOr(v, "observes.tracer.export_timeout", v.GetDuration, 30*time.Second),
	}
}

type Observes struct {
	Sentry *Sentry `json:"sentry" yaml:"sentry"`
	Tracer *Tracer `json:"tracer" yaml:"tracer"`
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Sentry: getSentryConfig(v),
		Tracer: getTracerConfig(v),
	}
}

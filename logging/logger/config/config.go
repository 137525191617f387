package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level       int          `json:"level" yaml:"level"`
	Path        string       `json:"path" yaml:"path"`
	Format      string       `json:"format" yaml:"format"`
	Output      string       `json:"output" yaml:"output"`
	OutputFile  string       `json:"output_file" yaml:"output_file"`
	IndexName   string       `json:"index_name" yaml:"index_name"`
	Version     string       `json:"version" yaml:"version"`
	Meilisearch *Meilisearch `json:"meilisearch" yaml:"meilisearch"`
	Sentry      *Sentry      `json:"sentry" yaml:"sentry"`
}

// Meilisearch log sink config
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Sentry error sink config, entries at error level and above are reported
type Sentry struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return &Config{Level: 4, Format: "text", Output: "stdout"}
	}

	indexName := strings.ToLower(v.GetString("app_name") + "-" + v.GetString("run_mode") + "-log")
	if v.IsSet("logger.index_name") && v.GetString("logger.index_name") != "" {
		indexName = v.GetString("logger.index_name")
	}

	return &Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Path:       v.GetString("logger.path"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
		IndexName:  indexName,
		Version:    v.GetString("version"),
		Meilisearch: &Meilisearch{
			Host:   v.GetString("logger.meilisearch.host"),
			APIKey: v.GetString("logger.meilisearch.api_key"),
		},
		Sentry: &Sentry{
			Endpoint: v.GetString("observes.sentry.endpoint"),
		},
	}
}

package logger

import (
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/socialhub/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// MeilisearchHook ships log entries to a Meilisearch index.
type MeilisearchHook struct {
	client meilisearch.ServiceManager
	index  string
}

// NewMeilisearchHook connects to Meilisearch and checks its health.
func NewMeilisearchHook(cfg *config.Meilisearch, index string) (*MeilisearchHook, error) {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("failed to connect to meilisearch: %w", err)
	}
	return &MeilisearchHook{client: client, index: index}, nil
}

// Levels returns all log levels
func (h *MeilisearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire sends log entry to Meilisearch
func (h *MeilisearchHook) Fire(entry *logrus.Entry) error {
	doc := map[string]any{
		"id":        fmt.Sprintf("%d", entry.Time.UnixNano()),
		"timestamp": entry.Time.UTC().Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
	}
	for k, v := range entry.Data {
		doc[k] = v
	}

	pk := "id"
	if _, err := h.client.Index(h.index).AddDocuments([]map[string]any{doc}, &meilisearch.DocumentOptions{PrimaryKey: &pk}); err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	return nil
}

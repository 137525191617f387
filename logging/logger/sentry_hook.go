package logger

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook reports error level entries to Sentry. The Sentry client must
// be initialized first (see logging/observes).
type SentryHook struct{}

// NewSentryHook creates a Sentry hook.
func NewSentryHook() *SentryHook { return &SentryHook{} }

// Levels returns error and above.
func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

// Fire captures the entry with its fields as tags.
func (h *SentryHook) Fire(entry *logrus.Entry) error {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		for k, v := range entry.Data {
			if s, ok := v.(string); ok {
				scope.SetTag(k, s)
				continue
			}
			scope.SetExtra(k, v)
		}
		hub.CaptureException(errors.New(entry.Message))
	})
	return nil
}

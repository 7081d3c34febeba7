package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// SentryHook forwards log entries of the given levels to Sentry.
type SentryHook struct {
	hub    *sentry.Hub
	levels []log.Level
}

// NewSentryHook reports through the current hub, the one sentry.Init sets up.
func NewSentryHook(levels []log.Level) *SentryHook {
	return newSentryHook(sentry.CurrentHub(), levels)
}

func newSentryHook(hub *sentry.Hub, levels []log.Level) *SentryHook {
	return &SentryHook{hub: hub, levels: levels}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Timestamp = entry.Time
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			event.Extra[k] = err.Error()
			continue
		}
		event.Extra[k] = v
	}

	if h.hub.CaptureEvent(event) == nil && h.hub.Client() == nil {
		return errors.New("sentry hub has no client")
	}
	return nil
}

func sentryLevel(level log.Level) sentry.Level {
	switch level {
	case log.PanicLevel, log.FatalLevel:
		return sentry.LevelFatal
	case log.ErrorLevel:
		return sentry.LevelError
	case log.WarnLevel:
		return sentry.LevelWarning
	case log.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}

package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHub returns a hub whose events end up in the returned slice.
// Without a DSN the client keeps everything local.
func capturingHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), &events
}

func TestSentryHook_Fire(t *testing.T) {
	hub, events := capturingHub(t)
	hook := newSentryHook(hub, []log.Level{log.ErrorLevel})
	assert.Equal(t, []log.Level{log.ErrorLevel}, hook.Levels())

	logger := log.New()
	logger.AddHook(hook)
	logger.SetOutput(&discard{})

	logger.WithField("user", "u1").WithError(errors.New("store down")).Error("fetch workouts")
	logger.Warn("not reported")

	require.Len(t, *events, 1)
	event := (*events)[0]
	assert.Equal(t, "fetch workouts", event.Message)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "u1", event.Extra["user"])
	assert.Equal(t, "store down", event.Extra[log.ErrorKey])
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Minute)
}

func TestSentryHook_NoClient(t *testing.T) {
	hook := newSentryHook(sentry.NewHub(nil, sentry.NewScope()), []log.Level{log.ErrorLevel})
	assert.Error(t, hook.Fire(log.NewEntry(log.New())))
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(log.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(log.FatalLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(log.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(log.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(log.TraceLevel))
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }

package logging

import (
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

type SetupParams struct {
	Level       string
	FormatJSON  bool
	Environment string
	// SentryDSN turns on error reporting. Empty leaves Sentry off.
	SentryDSN        string
	SentryServerName string
}

func Setup(params SetupParams) {
	if params.FormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)
	log.SetLevel(GetLevel(params.Level))

	if params.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         params.SentryDSN,
			Environment: params.Environment,
			ServerName:  params.SentryServerName,
		})
		if err != nil {
			log.Errorf("sentry.Init: %s", err)
			return
		}
		log.AddHook(NewSentryHook([]log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}))
		log.Info("sentry set up successfully")
	}
}

// GetLevel falls back to info for unknown level names.
func GetLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	case "panic":
		return log.PanicLevel
	default:
		return log.InfoLevel
	}
}

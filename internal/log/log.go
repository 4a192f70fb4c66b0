package log

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Package log is a thin key-value facade over zerolog so call sites stay
// uniform: log.Info("msg", "key", value, ...). Keys must be strings; an
// odd trailing argument is ignored.

var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

func initLogger() {
	loggerOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	})
}

// SetLevel adjusts the minimum level ("debug", "info", "error").
func SetLevel(level string) {
	initLogger()
	if l, err := zerolog.ParseLevel(level); err == nil {
		logger = logger.Level(l)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	withFields(logger.Debug(), kv).Msg(msg)
}

func Info(msg string, kv ...any) {
	initLogger()
	withFields(logger.Info(), kv).Msg(msg)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	withFields(logger.Error().Err(err), kv).Msg(msg)
}

func withFields(ev *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}

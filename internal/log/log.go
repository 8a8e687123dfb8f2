package log

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

// initLogger initializes the global logger to write human-readable lines
// to stderr with timestamps.
func initLogger() {
	loggerOnce.Do(func() {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	})
}

// SetLevel sets the minimum level. Recognized values: "debug", "info",
// "error". Unknown values leave the level at info.
func SetLevel(level string) {
	initLogger()
	switch strings.ToLower(level) {
	case "debug":
		logger = logger.Level(zerolog.DebugLevel)
	case "info":
		logger = logger.Level(zerolog.InfoLevel)
	case "error":
		logger = logger.Level(zerolog.ErrorLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	withKVs(logger.Debug(), kv).Msg(msg)
}

func Info(msg string, kv ...any) {
	initLogger()
	withKVs(logger.Info(), kv).Msg(msg)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	withKVs(logger.Error().Err(err), kv).Msg(msg)
}

// withKVs appends structured key-value pairs. Expect kv as pairs:
// key, value, key, value, ... If the count is odd, the last one is ignored.
func withKVs(ev *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}

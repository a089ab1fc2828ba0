package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cargopx/internal/config"
)

// LogEnv is the environment variable turning diagnostic logs on. It wins
// over the log_level of the settings file.
const LogEnv = "CARGO_PX_LOG"

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLogLevel maps a CARGO_PX_LOG value to its slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevels[name]
	if !ok {
		return 0, fmt.Errorf("invalid value %q for %s: must be 'debug', 'info', 'warn', or 'error'", name, LogEnv)
	}
	return level, nil
}

// NewLogger builds the diagnostic logger. Diagnostics are opt-in: an empty
// level gives a logger that drops everything, so a plain run only shows
// status lines. Text records carry no timestamp since they interleave with
// cargo's own output on stderr.
func NewLogger(levelName, format string, w io.Writer) (*slog.Logger, error) {
	if levelName == "" {
		return slog.New(slog.DiscardHandler), nil
	}
	level, err := ParseLogLevel(levelName)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

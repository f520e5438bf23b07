package bot

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds a slog.Logger backed by charmbracelet/log from the
// LOG_LEVEL and LOG_FORMAT settings.
func NewLogger(cfg *Config, w io.Writer) (*slog.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	var formatter log.Formatter
	switch cfg.LogFormat {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text, json or logfmt", cfg.LogFormat)
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	return slog.New(handler), nil
}

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config настройки логгера
type Config struct {
	Level     string
	Pretty    bool
	Component string
}

// New создает логгер в stdout
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter создает JSON-логгер или консольный при Pretty.
// Некорректный уровень заменяется на info.
func NewWithWriter(w io.Writer, cfg Config) zerolog.Logger {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	level, err := ParseLevel(cfg.Level)
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if cfg.Component != "" {
		logger = logger.With().Str("component", cfg.Component).Logger()
	}
	if err != nil {
		logger.Warn().Err(err).Str("level", cfg.Level).Msg("unknown log level, using info")
	}
	return logger
}

// ParseLevel разбирает уровень; пустая строка означает info
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, err
	}
	return level, nil
}

// Component возвращает дочерний логгер с полем component
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

// Config holds the puzzle's runtime configuration.
type Config struct {
	Addr        string
	UnlockCode  string
	Strategy    string
	CPUDelay    time.Duration
	NoticeTTL   time.Duration
	RevealOnTie bool
	LogLevel    string
	LogFormat   string
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Addr:       "127.0.0.1:8080",
		UnlockCode: app.DefaultUnlockCode,
		Strategy:   domain.Heuristic.String(),
		NoticeTTL:  2 * time.Second,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// FromEnv returns Default overridden by PUZZLE_* environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	str("PUZZLE_ADDR", &c.Addr)
	str("PUZZLE_CODE", &c.UnlockCode)
	str("PUZZLE_STRATEGY", &c.Strategy)
	dur("PUZZLE_CPU_DELAY", &c.CPUDelay)
	dur("PUZZLE_NOTICE_TTL", &c.NoticeTTL)
	if v, ok := lookup("PUZZLE_REVEAL_ON_TIE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PUZZLE_REVEAL_ON_TIE: %w", err))
		} else {
			c.RevealOnTie = b
		}
	}
	str("PUZZLE_LOG_LEVEL", &c.LogLevel)
	str("PUZZLE_LOG_FORMAT", &c.LogFormat)
	return c, errors.Join(errs...)
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.UnlockCode) == "" {
		errs = append(errs, errors.New("unlock code must not be empty"))
	}
	if _, err := domain.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, err)
	}
	if c.CPUDelay < 0 {
		errs = append(errs, errors.New("cpu delay must not be negative"))
	}
	if c.NoticeTTL < 0 {
		errs = append(errs, errors.New("notice ttl must not be negative"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ServiceOptions converts the configuration for app.NewService.
func (c Config) ServiceOptions(logger *slog.Logger) app.Options {
	s, _ := domain.ParseStrategy(c.Strategy)
	return app.Options{
		UnlockCode:  c.UnlockCode,
		Strategy:    s,
		RevealOnTie: c.RevealOnTie,
		CPUDelay:    c.CPUDelay,
		NoticeTTL:   c.NoticeTTL,
		Logger:      logger,
	}
}

// Logger builds the structured logger described by the configuration.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

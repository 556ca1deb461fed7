package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/chaoxing/core/course"
)

// Config holds simulator configuration.
// Delays take Go durations ("3s") or, through config.Load, bare seconds ("3").
type Config struct {
	MinDelay      time.Duration `env:"PLAYBACK_MIN_DELAY" envDefault:"3s"`
	MaxDelay      time.Duration `env:"PLAYBACK_MAX_DELAY" envDefault:"10s"`
	IgnoreModules []string      `env:"PLAYBACK_IGNORE_MODULES" envDefault:"insertimage" envSeparator:","`
}

func defaultConfig() Config {
	return Config{
		MinDelay:      3 * time.Second,
		MaxDelay:      10 * time.Second,
		IgnoreModules: []string{course.ModuleImage},
	}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithConfig sets the delay range and ignore set from cfg.
// A nil IgnoreModules keeps the default set.
func WithConfig(cfg Config) Option {
	return func(s *Simulator) {
		s.cfg.MinDelay = cfg.MinDelay
		s.cfg.MaxDelay = cfg.MaxDelay
		if cfg.IgnoreModules != nil {
			s.cfg.IgnoreModules = cfg.IgnoreModules
		}
	}
}

// WithDelay sets the random delay range between network calls.
func WithDelay(min, max time.Duration) Option {
	return func(s *Simulator) {
		s.cfg.MinDelay = min
		s.cfg.MaxDelay = max
	}
}

// WithIgnoreModules replaces the set of attachment modules that are never played.
func WithIgnoreModules(modules ...string) Option {
	return func(s *Simulator) {
		s.cfg.IgnoreModules = modules
	}
}

// WithObserver registers a callback receiving every simulator event.
func WithObserver(o Observer) Option {
	return func(s *Simulator) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithSleep replaces the sleep used between calls. Mostly useful in tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Simulator) {
		s.sleep = sleep
	}
}

// WithRand sets the randomness used to draw delays; randN must return a value in [0, n).
func WithRand(randN func(n int64) int64) Option {
	return func(s *Simulator) {
		s.randN = randN
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

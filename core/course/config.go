package course

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/chaoxing/pkg/enc"
)

// DefaultPageMarker appears once per card tab in the study progress response.
const DefaultPageMarker = `onclick="changeDisplayContent(`

// Config holds course client configuration.
type Config struct {
	BaseURL       string        `env:"CHAOXING_BASE_URL" envDefault:"https://mooc1-1.chaoxing.com"`
	PageMarker    string        `env:"CHAOXING_PAGE_MARKER" envDefault:"onclick=\"changeDisplayContent("`
	Secret        string        `env:"CHAOXING_ENC_SECRET" envDefault:"d_yHJ!$pdA~5"`
	View          string        `env:"CHAOXING_VIEW" envDefault:"pc"`
	RetryAttempts uint64        `env:"HTTP_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBase     time.Duration `env:"HTTP_RETRY_BASE" envDefault:"500ms"`
}

func defaultConfig() Config {
	return Config{
		BaseURL:       "https://mooc1-1.chaoxing.com",
		PageMarker:    DefaultPageMarker,
		Secret:        enc.DefaultSecret,
		View:          "pc",
		RetryAttempts: 3,
		RetryBase:     500 * time.Millisecond,
	}
}

// Option configures a Client.
type Option func(*Client)

// WithConfig replaces the configuration. Empty fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		def := defaultConfig()
		if cfg.BaseURL == "" {
			cfg.BaseURL = def.BaseURL
		}
		if cfg.PageMarker == "" {
			cfg.PageMarker = def.PageMarker
		}
		if cfg.Secret == "" {
			cfg.Secret = def.Secret
		}
		if cfg.View == "" {
			cfg.View = def.View
		}
		if cfg.RetryBase <= 0 {
			cfg.RetryBase = def.RetryBase
		}
		c.cfg = cfg
	}
}

// WithBaseURL sets the course site base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.cfg.BaseURL = u
	}
}

// WithPageMarker sets the substring counted by CountPages.
func WithPageMarker(marker string) Option {
	return func(c *Client) {
		c.cfg.PageMarker = marker
	}
}

// WithSecret sets the signature secret.
func WithSecret(secret string) Option {
	return func(c *Client) {
		c.cfg.Secret = secret
	}
}

// WithRetry sets how many times idempotent GETs are retried and the base backoff.
// Zero attempts disables retries.
func WithRetry(attempts uint64, base time.Duration) Option {
	return func(c *Client) {
		c.cfg.RetryAttempts = attempts
		if base > 0 {
			c.cfg.RetryBase = base
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for cache-busting timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

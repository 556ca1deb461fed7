package session

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultUserAgent is the desktop browser identity sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 11_0_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.67 Safari/537.36"

// Config holds session manager configuration.
type Config struct {
	PassportURL string        `env:"CHAOXING_PASSPORT_URL" envDefault:"https://passport2.chaoxing.com"`
	BaseURL     string        `env:"CHAOXING_BASE_URL" envDefault:"https://mooc1-1.chaoxing.com"`
	Origin      string        `env:"CHAOXING_ORIGIN" envDefault:"http://mooc1-1.chaoxing.com"`
	Refer       string        `env:"CHAOXING_REFER" envDefault:"https://mooc1-1.chaoxing.com"`
	FID         string        `env:"CHAOXING_FID" envDefault:"2182"`
	UserAgent   string        `env:"CHAOXING_USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 11_0_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.67 Safari/537.36"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// BestEffort keeps a session whose login was rejected instead of failing.
	BestEffort bool `env:"SESSION_BEST_EFFORT" envDefault:"false"`

	// Store selects the persistence backend: file, redis or s3.
	Store    string `env:"SESSION_STORE" envDefault:"file"`
	FilePath string `env:"SESSION_FILE" envDefault:"cookie.bin"`
}

// defaultConfig returns default configuration.
func defaultConfig() Config {
	return Config{
		PassportURL: "https://passport2.chaoxing.com",
		BaseURL:     "https://mooc1-1.chaoxing.com",
		Origin:      "http://mooc1-1.chaoxing.com",
		Refer:       "https://mooc1-1.chaoxing.com",
		FID:         "2182",
		UserAgent:   DefaultUserAgent,
		Timeout:     30 * time.Second,
		Store:       "file",
		FilePath:    "cookie.bin",
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithConfig replaces the whole configuration. Empty fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		def := defaultConfig()
		if cfg.PassportURL == "" {
			cfg.PassportURL = def.PassportURL
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = def.BaseURL
		}
		if cfg.Origin == "" {
			cfg.Origin = def.Origin
		}
		if cfg.Refer == "" {
			cfg.Refer = def.Refer
		}
		if cfg.FID == "" {
			cfg.FID = def.FID
		}
		if cfg.UserAgent == "" {
			cfg.UserAgent = def.UserAgent
		}
		if cfg.Timeout <= 0 {
			cfg.Timeout = def.Timeout
		}
		m.cfg = cfg
	}
}

// WithPassportURL sets the base URL of the login service.
func WithPassportURL(u string) Option {
	return func(m *Manager) {
		m.cfg.PassportURL = u
	}
}

// WithBaseURL sets the base URL of the course site.
func WithBaseURL(u string) Option {
	return func(m *Manager) {
		m.cfg.BaseURL = u
	}
}

// WithBestEffort controls whether a rejected login still yields a session.
func WithBestEffort(enabled bool) Option {
	return func(m *Manager) {
		m.cfg.BestEffort = enabled
	}
}

// WithTransport sets the underlying round tripper. Mostly useful in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(m *Manager) {
		if rt != nil {
			m.transport = rt
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

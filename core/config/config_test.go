package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chaoxing/core/config"
)

type defaultsConfig struct {
	Name  string        `env:"CFG_TEST_NAME" envDefault:"chaoxing"`
	Delay time.Duration `env:"CFG_TEST_DELAY" envDefault:"3s"`
}

type requiredConfig struct {
	Token string `env:"CFG_TEST_REQUIRED_TOKEN,required"`
}

type durationConfig struct {
	Seconds  time.Duration `env:"CFG_TEST_DURATION_SECONDS"`
	Explicit time.Duration `env:"CFG_TEST_DURATION_EXPLICIT"`
}

type badDurationConfig struct {
	D time.Duration `env:"CFG_TEST_DURATION_BAD"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "chaoxing", cfg.Name)
		assert.Equal(t, 3*time.Second, cfg.Delay)
	})

	t.Run("reports missing required variables", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CFG_TEST_REQUIRED_TOKEN")
	})

	t.Run("durations accept bare seconds", func(t *testing.T) {
		t.Setenv("CFG_TEST_DURATION_SECONDS", "7")
		t.Setenv("CFG_TEST_DURATION_EXPLICIT", "1500ms")

		var cfg durationConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 7*time.Second, cfg.Seconds)
		assert.Equal(t, 1500*time.Millisecond, cfg.Explicit)
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Setenv("CFG_TEST_DURATION_BAD", "soon")
		var cfg badDurationConfig
		assert.Error(t, config.Load(&cfg))
	})

	t.Run("caches per type", func(t *testing.T) {
		t.Setenv("CFG_TEST_CACHED", "first")
		var first cachedConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CFG_TEST_CACHED", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))

		assert.Equal(t, "first", second.Value)
	})

	t.Run("rejects nil destination", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[defaultsConfig](nil), config.ErrNilConfig)
	})

	t.Run("MustLoad panics on error", func(t *testing.T) {
		type mustConfig struct {
			V string `env:"CFG_TEST_MUST_MISSING,required"`
		}
		assert.Panics(t, func() {
			var cfg mustConfig
			config.MustLoad(&cfg)
		})
	})
}

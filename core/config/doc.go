// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (if present) and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
//	type Config struct {
//		Username string        `env:"CHAOXING_USERNAME,required"`
//		MinDelay time.Duration `env:"PLAYBACK_MIN_DELAY" envDefault:"3s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Durations accept Go duration strings ("1500ms", "3s") and bare integers,
// which are read as seconds, so PLAYBACK_MIN_DELAY=3 means three seconds.
//
// Different types are cached independently; a second Load of the same type
// returns the cached value even if the environment changed in between.
package config

package redis

import "time"

// Config holds Redis connection and session storage settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  uint64        `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// KeyPrefix is prepended to the account name to form the session key.
	KeyPrefix  string        `env:"REDIS_SESSION_PREFIX" envDefault:"chaoxing:session:"`
	SessionTTL time.Duration `env:"REDIS_SESSION_TTL" envDefault:"0s"`
}

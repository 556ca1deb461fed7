// Package redis connects to Redis and stores session state there.
//
// Connect validates the URL (redis:// or rediss://), creates a go-redis client
// and pings it with exponential backoff until it answers or the connect
// timeout expires:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  time.Second,
//		ConnectTimeout: 30 * time.Second,
//	})
//
// SessionStore implements session.Store on top of a single key, so cookies
// persisted by one machine can be reused by another:
//
//	store, err := redis.NewSessionStore(client, cfg.KeyPrefix+username, cfg.SessionTTL)
//
// # Error Handling
//
//   - ErrFailedToParseRedisConnString: malformed URL or unsupported scheme
//   - ErrRedisNotReady: no successful PING within the retry budget
//   - ErrEmptyConnectionURL: no URL given
//   - ErrHealthcheckFailed: PING failed in Healthcheck
package redis

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chaoxing/core/session"
	"github.com/dmitrymomot/chaoxing/integration/database/redis"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects and pings", func(t *testing.T) {
		t.Parallel()
		mr, _ := newTestRedis(t)
		client, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + mr.Addr() + "/0",
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("rejects bad urls", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

		_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		mr, _ := newTestRedis(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + addr,
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
		assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
	})
}

func TestHealthcheckFailure(t *testing.T) {
	t.Parallel()
	mr, client := newTestRedis(t)
	mr.Close()
	assert.ErrorIs(t, redis.Healthcheck(client)(context.Background()), redis.ErrHealthcheckFailed)
}

func TestSessionStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := redis.NewSessionStore(nil, "", 0)
	assert.ErrorIs(t, err, redis.ErrEmptyKey)

	t.Run("load missing key", func(t *testing.T) {
		t.Parallel()
		_, client := newTestRedis(t)
		store, err := redis.NewSessionStore(client, "chaoxing:session:alice", 0)
		require.NoError(t, err)

		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("save load delete", func(t *testing.T) {
		t.Parallel()
		mr, client := newTestRedis(t)
		store, err := redis.NewSessionStore(client, "chaoxing:session:alice", time.Hour)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, []byte(`{"version":1}`)))
		assert.Equal(t, time.Hour, mr.TTL("chaoxing:session:alice"))

		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, `{"version":1}`, string(data))

		require.NoError(t, store.Delete(ctx))
		assert.False(t, mr.Exists("chaoxing:session:alice"))
	})

	t.Run("works as a session manager store", func(t *testing.T) {
		t.Parallel()
		_, client := newTestRedis(t)
		store, err := redis.NewSessionStore(client, "k", 0)
		require.NoError(t, err)

		m, err := session.NewManager(store)
		require.NoError(t, err)
		sess, err := m.NewSession()
		require.NoError(t, err)
		require.NoError(t, m.Persist(ctx, sess))

		data, err := store.Load(ctx)
		require.NoError(t, err)
		_, err = session.DecodeState(data)
		assert.NoError(t, err)
	})
}

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/chaoxing/core/session"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps the encoded session state under a single Redis key.
type SessionStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewSessionStore returns a store writing to key. A zero ttl keeps the key forever.
func NewSessionStore(client redis.UniversalClient, key string, ttl time.Duration) (*SessionStore, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &SessionStore{client: client, key: key, ttl: ttl}, nil
}

// Load returns the stored state or session.ErrNotFound.
func (s *SessionStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save overwrites the stored state.
func (s *SessionStore) Save(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

// Delete removes the stored state.
func (s *SessionStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

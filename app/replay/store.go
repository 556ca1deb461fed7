package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/chaoxing/core/session"
	"github.com/dmitrymomot/chaoxing/integration/database/redis"
	"github.com/dmitrymomot/chaoxing/integration/storage/s3"
)

// openStore builds the configured session store. The returned close function is never nil.
func openStore(ctx context.Context, cfg Config) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case "", StoreFile:
		return session.NewFileStore(cfg.Session.FilePath), noop, nil

	case StoreRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, errors.Join(ErrOpenStore, err)
		}
		store, err := redis.NewSessionStore(client, cfg.Redis.KeyPrefix+cfg.Username, cfg.Redis.SessionTTL)
		if err != nil {
			_ = client.Close()
			return nil, noop, errors.Join(ErrOpenStore, err)
		}
		return store, client.Close, nil

	case StoreS3:
		store, err := s3.New(ctx, cfg.S3, cfg.S3.Key(cfg.Username))
		if err != nil {
			return nil, noop, errors.Join(ErrOpenStore, err)
		}
		return store, noop, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Session.Store)
}

package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/surveyor/internal/adapters/file"
	"github.com/aretw0/surveyor/internal/adapters/redis"
	"github.com/aretw0/surveyor/internal/config"
	"github.com/aretw0/surveyor/pkg/adapters/memory"
	"github.com/aretw0/surveyor/pkg/persistence/middleware"
	"github.com/aretw0/surveyor/pkg/ports"
)

// storeHandle is an opened snapshot store. Locker is nil for backends without locking.
type storeHandle struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker
	Close  func() error
}

// openStore builds the snapshot store named by cfg, wrapped for encryption when a key is set.
func openStore(ctx context.Context, cfg config.StoreConfig) (*storeHandle, error) {
	h := &storeHandle{Close: func() error { return nil }}

	switch cfg.Backend {
	case config.BackendMemory, "":
		h.Store = memory.NewStore()
	case config.BackendFile:
		h.Store = file.New(cfg.Path)
	case config.BackendRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		h.Store, h.Locker, h.Close = store, store.Locker(), store.Close
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	key, err := cfg.Key()
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	if key != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.Store = middleware.Chain(h.Store, mw)
	}
	return h, nil
}

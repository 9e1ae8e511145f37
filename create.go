package authcore

import (
	"context"
	"fmt"

	"github.com/MrEthical07/authcore/internal/logging"
	"github.com/MrEthical07/authcore/store"
	"github.com/MrEthical07/authcore/store/memory"
	"github.com/MrEthical07/authcore/store/mongo"
	"github.com/MrEthical07/authcore/store/postgres"
	"github.com/MrEthical07/authcore/store/redis"
)

// CreateAuth validates cfg, opens the store it names and returns a ready
// Engine. The engine owns the store connection; Close releases it.
func CreateAuth(ctx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "authcore",
	})

	engine, err := New().
		WithConfig(cfg).
		WithStore(s).
		WithLogger(logger).
		Build()
	if err != nil {
		if closer, ok := s.(store.Closer); ok {
			_ = closer.Close(ctx)
		}
		return nil, err
	}
	engine.ownsStore = true

	logger.Info().
		Str("storage_type", string(cfg.StorageType)).
		Str("signing_method", cfg.JWT.SigningMethod).
		Str("password_algorithm", cfg.Password.Algorithm).
		Dur("token_ttl", cfg.JWT.TTL).
		Msg("authcore engine ready")

	return engine, nil
}

// OpenStore connects the adapter selected by cfg.StorageType. Postgres schemas
// are migrated first when Store.AutoMigrate is set.
func OpenStore(ctx context.Context, cfg Config) (CredentialStore, error) {
	if cfg.Store.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
		defer cancel()
	}

	switch cfg.StorageType {
	case StorageMemory:
		return memory.New(), nil
	case StoragePostgres:
		if cfg.Store.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.DBURI); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
			}
		}
		s, err := postgres.Open(ctx, cfg.DBURI)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return s, nil
	case StorageMongo:
		s, err := mongo.Open(ctx, cfg.DBURI, mongo.Options{
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return s, nil
	case StorageRedis:
		s, err := redis.Open(ctx, cfg.DBURI, cfg.Store.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unsupported storage type %q", ErrInvalidConfig, cfg.StorageType)
	}
}

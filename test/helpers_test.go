//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authcore"
	"github.com/MrEthical07/authcore/store/memory"
	"github.com/MrEthical07/authcore/store/redis"
)

type storeFactory struct {
	name string
	open func(t *testing.T) authcore.CredentialStore
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{
			name: "memory",
			open: func(*testing.T) authcore.CredentialStore { return memory.New() },
		},
		{
			name: "redis",
			open: func(t *testing.T) authcore.CredentialStore {
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis run failed: %v", err)
				}
				rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
				s := redis.New(rdb, "it")
				t.Cleanup(func() {
					_ = s.Close(context.Background())
					mr.Close()
				})
				return s
			},
		},
	}
}

func newIntegrationEngine(t *testing.T, s authcore.CredentialStore) *authcore.Engine {
	t.Helper()

	cfg := authcore.DefaultConfig()
	cfg.Secret = "integration-secret-0123456789abcdef"
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	engine, err := authcore.New().WithConfig(cfg).WithStore(s).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close(context.Background()) })
	return engine
}

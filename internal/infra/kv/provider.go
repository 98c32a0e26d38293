package kv

import (
	"context"
	"log/slog"

	"milkrun/config"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params holds the dependencies of NewKeyValueStore.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// NewKeyValueStore picks the session backend named by session.provider.
func NewKeyValueStore(p Params) (repository.KeyValueStore, error) {
	session := p.Config.Session

	switch session.Provider {
	case "", config.SessionProviderFile:
		p.Logger.Info("Session store ready", slog.String("provider", config.SessionProviderFile), slog.String("path", session.FilePath))

		store := newFileStore(session.FilePath, p.Logger)
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return store.Close()
			},
		})

		return store, nil

	case config.SessionProviderRedis:
		if session.Redis == nil || session.Redis.Addr == "" {
			return nil, errors.New("session.redis.addr is required for the redis provider")
		}

		client := redis.NewClient(&redis.Options{
			Addr:     session.Redis.Addr,
			Password: session.Redis.Password,
			DB:       session.Redis.DB,
		})
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		p.Logger.Info("Session store ready", slog.String("provider", config.SessionProviderRedis), slog.String("addr", session.Redis.Addr))

		return NewRedisStore(client, session.Redis.KeyPrefix, session.Redis.Timeout), nil

	default:
		return nil, errors.Errorf("unknown session provider %q", session.Provider)
	}
}

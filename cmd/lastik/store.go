package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/lastik/internal/config"
	"github.com/erazemk/lastik/internal/db"
	"github.com/erazemk/lastik/internal/session"
	"github.com/erazemk/lastik/internal/store"
)

// openStore connects the backend selected by cfg.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		slog.Info("database ready", "path", cfg.DBPath)
		return store.NewSQLite(database), nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		slog.Info("redis ready", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB, "prefix", cfg.Redis.Prefix)
		return store.NewRedis(client, cfg.Redis.Prefix), nil

	case config.StoreMemory:
		slog.Warn("using in-memory store, nothing is kept after exit")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// openSession opens the configured store and loads a session from it.
func openSession(ctx context.Context, cfg config.Config) (*session.Session, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := session.Open(ctx, st, session.Options{})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("opening session: %w", err)
	}
	return s, nil
}

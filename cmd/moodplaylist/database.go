package main

import (
	"context"
	"fmt"

	"moodplaylist/internal/config"
	"moodplaylist/internal/store"
)

// openStore connects to the configured playlist store.
func openStore(ctx context.Context, cfg config.StorageConfig) (store.PlaylistStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := store.OpenMongo(ctx, store.MongoConfig{
			Username:   cfg.Mongo.Username,
			Password:   cfg.Mongo.Password,
			Host:       cfg.Mongo.Host,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		db, err := store.OpenPostgres(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db), nil
	case config.DriverSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

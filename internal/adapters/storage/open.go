// Package storage elige el driver del document store según la config.
package storage

import (
	"context"
	"fmt"

	"adoptme/internal/adapters/storage/memory"
	"adoptme/internal/adapters/storage/mongodb"
	"adoptme/internal/adapters/storage/postgres"
	"adoptme/internal/config"
	"adoptme/internal/ports/store"
)

// Open construye el store configurado. El llamador es dueño del Close.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory, "":
		return memory.New(), nil

	case config.DriverMongo:
		st, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return st, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgres.NewStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

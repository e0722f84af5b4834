package store

import (
	"context"
	"fmt"

	"relaychat/server/internal/config"
	"relaychat/server/internal/database"
	"relaychat/server/internal/logger"
)

// Open builds the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	log := logger.L()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")
		return NewPostgresStore(pool), nil

	case config.DriverBadger:
		s, err := OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Str("path", cfg.BadgerPath).Msg("store ready")
		return s, nil

	case config.DriverMemory:
		log.Warn().Str("driver", cfg.StoreDriver).Msg("store is not durable, data is lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

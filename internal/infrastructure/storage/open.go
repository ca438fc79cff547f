package storage

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront-cart/internal/infrastructure/database/redis"
)

// Open connects the backend selected by STORAGE_DRIVER
func Open(cfg *config.Config, log *logrus.Logger) (Backend, error) {
	entry := log.WithField("driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		entry.Warn("Using in-memory storage, carts will not survive a restart")
		return NewMemory(), nil

	case config.StorageRedis:
		client, err := redisdb.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewRedis(client.GetClient(), cfg.Storage.TTL), nil

	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if purged, err := migration.PurgeExpired(time.Now().UTC()); err != nil {
			entry.WithError(err).Warn("Failed to purge expired storage entries")
		} else if purged > 0 {
			entry.WithField("purged", purged).Info("Purged expired storage entries")
		}

		return NewPostgres(db.GetDB(), cfg.Storage.TTL), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

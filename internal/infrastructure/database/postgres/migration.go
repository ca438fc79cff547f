// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StorageEntry is one key-value pair of session-scoped browser storage
type StorageEntry struct {
	Key       string     `gorm:"primaryKey;size:512"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (StorageEntry) TableName() string {
	return "storage_entries"
}

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	models := []interface{}{
		&StorageEntry{},
	}

	for _, model := range models {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// PurgeExpired deletes storage entries whose expiry has passed
func (m *Migration) PurgeExpired(now time.Time) (int64, error) {
	result := m.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&StorageEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired storage entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-cart/internal/infrastructure/database/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres stores entries in the storage_entries table
type Postgres struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgres wraps a migrated gorm connection. A zero ttl keeps entries forever.
func NewPostgres(db *gorm.DB, ttl time.Duration) *Postgres {
	return &Postgres{db: db, ttl: ttl, now: time.Now}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var entry postgres.StorageEntry
	err := p.db.WithContext(ctx).
		Where(keyIs(key)).
		Where("expires_at IS NULL OR expires_at > ?", p.now().UTC()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from database: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the entry and refreshes its expiry
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	now := p.now().UTC()
	entry := postgres.StorageEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: now,
	}
	if p.ttl > 0 {
		expires := now.Add(p.ttl)
		entry.ExpiresAt = &expires
	}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s to database: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	err := p.db.WithContext(ctx).Where(keyIs(key)).Delete(&postgres.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s from database: %w", key, err)
	}
	return nil
}

func (p *Postgres) Health(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// keyIs matches on the quoted key column
func keyIs(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/your-org/storefront-cart/internal/infrastructure/database/postgres"
)

// newSQLStore runs the gorm backend against a throwaway SQLite file
func newSQLStore(t *testing.T, ttl time.Duration) (*Postgres, *postgres.Migration, *time.Time) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "storage.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	migration := postgres.NewMigration(db, logrusDiscard())
	require.NoError(t, migration.RunAutoMigrations())

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewPostgres(db, ttl)
	store.now = func() time.Time { return clock }
	t.Cleanup(func() { _ = store.Close() })

	return store, migration, &clock
}

func TestPostgresSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newSQLStore(t, time.Hour)

	require.NoError(t, store.Set(ctx, "storage:s1:cartItems", "[]"))
	require.NoError(t, store.Set(ctx, "storage:s1:cartItems", `[{"name":"Mug"}]`))

	v, ok, err := store.Get(ctx, "storage:s1:cartItems")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Mug"}]`, v)

	var count int64
	require.NoError(t, store.db.Model(&postgres.StorageEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostgresHidesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store, migration, clock := newSQLStore(t, time.Hour)

	require.NoError(t, store.Set(ctx, "old", "a"))
	*clock = clock.Add(50 * time.Minute)
	require.NoError(t, store.Set(ctx, "fresh", "b"))

	*clock = clock.Add(20 * time.Minute)

	_, ok, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	purged, err := migration.PurgeExpired(*clock)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var keys []string
	require.NoError(t, store.db.Model(&postgres.StorageEntry{}).Pluck("key", &keys).Error)
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestPostgresSetRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	store, _, clock := newSQLStore(t, time.Hour)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	*clock = clock.Add(45 * time.Minute)
	require.NoError(t, store.Set(ctx, "k", "v2"))
	*clock = clock.Add(45 * time.Minute)

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestPostgresWithoutTTLKeepsEntries(t *testing.T) {
	ctx := context.Background()
	store, migration, clock := newSQLStore(t, 0)

	require.NoError(t, store.Set(ctx, "k", "v"))
	*clock = clock.Add(365 * 24 * time.Hour)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	purged, err := migration.PurgeExpired(*clock)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

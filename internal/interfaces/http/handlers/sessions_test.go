package handlers

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-cart/internal/infrastructure/storage"
	"github.com/your-org/storefront-cart/internal/interfaces/web/dom"
)

func newRegistry(t *testing.T, backend storage.Backend, idle time.Duration) *SessionRegistry {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	page, err := dom.LoadTemplate("", "$")
	require.NoError(t, err)

	return NewSessionRegistry(backend, page, idle, logger)
}

func TestAcquireReturnsSameSession(t *testing.T) {
	r := newRegistry(t, storage.NewMemory(), time.Minute)
	ctx := context.Background()

	s1, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	s1.Release()
	s2, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	s2.Release()

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, r.Len())
}

func TestIdleSessionsAreEvictedAndRestored(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, storage.NewMemory(), time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	s, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	card, ok := s.Page.CardByID("mug")
	require.True(t, ok)
	require.NoError(t, s.Cart.AddToCart(ctx, card))
	s.Release()

	clock = clock.Add(2 * time.Minute)
	other, err := r.Acquire(ctx, "b")
	require.NoError(t, err)
	other.Release()
	assert.Equal(t, 1, r.Len())

	restored, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	defer restored.Release()

	assert.NotSame(t, s, restored)
	line, ok := restored.Cart.Line("Mug")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestHeldSessionIsNotEvicted(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, storage.NewMemory(), time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	held, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	defer held.Release()

	clock = clock.Add(5 * time.Minute)
	other, err := r.Acquire(ctx, "b")
	require.NoError(t, err)
	other.Release()

	assert.Equal(t, 2, r.Len())
}

func TestAcquireFailsOnEmptySessionID(t *testing.T) {
	r := newRegistry(t, storage.NewMemory(), time.Minute)

	_, err := r.Acquire(context.Background(), "")

	assert.ErrorIs(t, err, storage.ErrEmptyScope)
	assert.Zero(t, r.Len())
}

func TestDroppedSessionIsNotHandedOut(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	r := newRegistry(t, backend, time.Minute)

	stale := r.lookup("a")
	r.forget(stale)

	assert.False(t, r.lock(stale))
	require.True(t, stale.mu.TryLock(), "stale session must be left unlocked")
	stale.mu.Unlock()

	s, err := r.Acquire(ctx, "a")
	require.NoError(t, err)
	defer s.Release()

	assert.NotSame(t, stale, s)
	assert.Same(t, s, r.sessions["a"])
	assert.Equal(t, 1, r.Len())
}

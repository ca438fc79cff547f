// Package storage provides the key-value stores that stand in for a
// browser's origin-scoped local storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

// ErrEmptyScope is returned when a scoped store is requested without a scope
var ErrEmptyScope = errors.New("storage scope is required")

// Backend is a string key-value store shared by all sessions
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
	Close() error
}

// Scoped is the view of a Backend seen by one session
type Scoped struct {
	backend Backend
	scope   string
}

var _ cart.Storage = (*Scoped)(nil)

// NewScoped returns the storage of one scope
func NewScoped(backend Backend, scope string) (*Scoped, error) {
	if scope == "" {
		return nil, ErrEmptyScope
	}
	return &Scoped{backend: backend, scope: scope}, nil
}

// Key returns the backend key of key within scope
func Key(scope, key string) string {
	return fmt.Sprintf("storage:%s:%s", scope, key)
}

// GetItem reads key within the scope
func (s *Scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, Key(s.scope, key))
}

// SetItem writes key within the scope
func (s *Scoped) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, Key(s.scope, key), value)
}

// RemoveItem deletes key within the scope
func (s *Scoped) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, Key(s.scope, key))
}

// internal/interfaces/http/handlers/sessions.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/infrastructure/storage"
	"github.com/your-org/storefront-cart/internal/interfaces/web/dom"
)

// Session is the page and cart owned by one browser session. Page and Cart
// may only be used between SessionRegistry.Acquire and Session.Release.
type Session struct {
	mu       sync.Mutex
	ID       string
	Page     *dom.Document
	Cart     *cart.Manager
	lastSeen time.Time
	ready    bool
}

// Release hands the session back to the registry
func (s *Session) Release() {
	s.mu.Unlock()
}

// SessionRegistry keeps the live sessions of the server. Idle sessions are
// dropped from memory; their carts are restored from storage on return.
type SessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	backend   storage.Backend
	template  *dom.Template
	cartOpts  []cart.Option
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
	logger    *logrus.Logger
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(backend storage.Backend, template *dom.Template, idle time.Duration, logger *logrus.Logger, opts ...cart.Option) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		backend:  backend,
		template: template,
		cartOpts: opts,
		idle:     idle,
		now:      time.Now,
		logger:   logger,
	}
}

// Len returns the number of sessions held in memory
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Acquire returns the locked session with the given id, creating and
// restoring it on first use. The caller must Release it.
func (r *SessionRegistry) Acquire(ctx context.Context, id string) (*Session, error) {
	var s *Session
	for {
		s = r.lookup(id)
		if r.lock(s) {
			break
		}
	}

	if s.ready {
		return s, nil
	}

	if err := r.open(ctx, s); err != nil {
		s.mu.Unlock()
		r.forget(s)
		return nil, err
	}
	s.ready = true
	return s, nil
}

// lookup returns the registered session for id, creating it if needed
func (r *SessionRegistry) lookup(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	s, ok := r.sessions[id]
	if !ok {
		s = &Session{ID: id}
		r.sessions[id] = s
	}
	s.lastSeen = now
	return s
}

// lock takes s.mu and reports whether s is still the registered session for
// its id. A session dropped while the caller waited is unlocked again.
func (r *SessionRegistry) lock(s *Session) bool {
	s.mu.Lock()

	r.mu.Lock()
	current := r.sessions[s.ID] == s
	r.mu.Unlock()

	if !current {
		s.mu.Unlock()
	}
	return current
}

func (r *SessionRegistry) open(ctx context.Context, s *Session) error {
	scoped, err := storage.NewScoped(r.backend, s.ID)
	if err != nil {
		return err
	}

	page, err := r.template.New()
	if err != nil {
		return err
	}

	manager := cart.NewManager(scoped, page, r.cartOpts...)
	if err := manager.RestoreCart(ctx); err != nil {
		if !errors.Is(err, cart.ErrCorruptSnapshot) {
			return fmt.Errorf("failed to restore cart: %w", err)
		}
		r.logger.WithError(err).WithField("session_id", s.ID).Warn("Discarded corrupt cart snapshot")
	}

	s.Page = page
	s.Cart = manager
	return nil
}

func (r *SessionRegistry) forget(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[s.ID] == s {
		delete(r.sessions, s.ID)
	}
}

// sweep drops idle sessions that nobody holds. r.mu must be held.
func (r *SessionRegistry) sweep(now time.Time) {
	if r.idle <= 0 || now.Sub(r.lastSweep) < r.idle/2 {
		return
	}
	r.lastSweep = now

	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) < r.idle {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		s.mu.Unlock()
	}
}

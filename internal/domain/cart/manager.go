// internal/domain/cart/manager.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Manager owns the cart of one storefront page and keeps its view and its
// persisted snapshot in step with it. A Manager is not safe for concurrent use.
type Manager struct {
	storage        Storage
	view           View
	storageKey     string
	currencySymbol string

	lines       []CartLine
	cartIsEmpty bool
}

// Option configures a Manager
type Option func(*Manager)

// WithStorageKey overrides the key the snapshot is persisted under
func WithStorageKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.storageKey = key
		}
	}
}

// WithCurrencySymbol overrides the symbol stripped from price labels
func WithCurrencySymbol(symbol string) Option {
	return func(m *Manager) {
		m.currencySymbol = symbol
	}
}

// NewManager creates an empty cart manager
func NewManager(storage Storage, view View, opts ...Option) *Manager {
	m := &Manager{
		storage:        storage,
		view:           view,
		storageKey:     DefaultStorageKey,
		currencySymbol: DefaultCurrencySymbol,
		lines:          []CartLine{},
		cartIsEmpty:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CurrencySymbol returns the symbol used for price labels
func (m *Manager) CurrencySymbol() string {
	return m.currencySymbol
}

// Lines returns a copy of the cart lines in insertion order
func (m *Manager) Lines() []CartLine {
	out := make([]CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// Line returns the line with the given name
func (m *Manager) Line(name string) (CartLine, bool) {
	if i := m.indexOf(name); i >= 0 {
		return m.lines[i], true
	}
	return CartLine{}, false
}

// IsEmpty reports the last computed empty flag
func (m *Manager) IsEmpty() bool {
	return m.cartIsEmpty
}

// TotalQuantity sums the quantities of all lines
func (m *Manager) TotalQuantity() int {
	total := 0
	for _, line := range m.lines {
		total += line.Quantity
	}
	return total
}

// AddToCart reads a product from card and adds one unit of it. A card with a
// missing name, image or unparsable price leaves the cart untouched.
func (m *Manager) AddToCart(ctx context.Context, card ProductCard) error {
	name := strings.TrimSpace(card.Name())
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	}

	price, err := ParsePrice(card.PriceLabel(), m.currencySymbol)
	if err != nil {
		return err
	}

	image := strings.TrimSpace(card.ImageRef())
	if image == "" {
		return fmt.Errorf("%w: missing image for %q", ErrInvalidProduct, name)
	}

	i := m.indexOf(name)
	if i >= 0 {
		m.lines[i].Quantity++
	} else {
		m.lines = append(m.lines, CartLine{
			Name:      name,
			UnitPrice: price,
			ImageRef:  image,
			Quantity:  1,
		})
		i = len(m.lines) - 1
	}

	m.Render()
	m.CheckCartIsEmpty()
	card.SetQuantityBadge(m.lines[i].Quantity)

	return m.PersistCart(ctx)
}

// RemoveFromCart drops the whole line with the given name
func (m *Manager) RemoveFromCart(ctx context.Context, name string) error {
	if i := m.indexOf(name); i >= 0 {
		m.lines = append(m.lines[:i], m.lines[i+1:]...)
		m.view.SetQuantityBadge(name, 0)
	}

	m.Render()
	m.CheckCartIsEmpty()

	return m.PersistCart(ctx)
}

// IncrementQuantity adds one unit to the line of card's product, if present
func (m *Manager) IncrementQuantity(ctx context.Context, card ProductCard) error {
	return m.adjustQuantity(ctx, card, 1)
}

// DecrementQuantity removes one unit from the line of card's product. The
// quantity stops at zero and the line stays in the cart.
func (m *Manager) DecrementQuantity(ctx context.Context, card ProductCard) error {
	return m.adjustQuantity(ctx, card, -1)
}

func (m *Manager) adjustQuantity(ctx context.Context, card ProductCard, delta int) error {
	name := strings.TrimSpace(card.Name())
	if name == "" {
		return nil
	}

	if i := m.indexOf(name); i >= 0 {
		line := &m.lines[i]
		if line.Quantity+delta >= 0 {
			line.Quantity += delta
		}
		card.SetQuantityBadge(line.Quantity)
		m.Render()
	}

	return m.PersistCart(ctx)
}

// Render rebuilds the cart list from the current lines
func (m *Manager) Render() {
	m.view.RenderCartItems(m.Lines())
}

// CheckCartIsEmpty recomputes the empty flag and reflects it on the view
func (m *Manager) CheckCartIsEmpty() bool {
	m.cartIsEmpty = len(m.lines) == 0
	m.view.SetCartEmpty(m.cartIsEmpty)
	return m.cartIsEmpty
}

// OpenCartView shows the cart overlay
func (m *Manager) OpenCartView() {
	m.view.SetCartVisible(true)
}

// CloseCartView hides the cart overlay
func (m *Manager) CloseCartView() {
	m.view.SetCartVisible(false)
}

// ScrollToTop scrolls the page back to its top
func (m *Manager) ScrollToTop() {
	m.view.ScrollToTop()
}

// PersistCart writes the cart snapshot to storage
func (m *Manager) PersistCart(ctx context.Context) error {
	data, err := EncodeSnapshot(m.lines)
	if err != nil {
		return err
	}

	if err := m.storage.SetItem(ctx, m.storageKey, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	return nil
}

// RestoreCart loads the persisted snapshot. A missing or empty snapshot keeps
// the current cart; a corrupt one empties it and returns ErrCorruptSnapshot.
func (m *Manager) RestoreCart(ctx context.Context) error {
	err := m.restore(ctx)

	m.Render()
	m.CheckCartIsEmpty()
	for _, line := range m.lines {
		m.view.SetQuantityBadge(line.Name, line.Quantity)
	}

	return err
}

func (m *Manager) restore(ctx context.Context) error {
	data, ok, err := m.storage.GetItem(ctx, m.storageKey)
	if err != nil {
		return fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	if !ok || data == "" {
		return nil
	}

	lines, err := DecodeSnapshot(data)
	if err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			m.replaceLines([]CartLine{})
		}
		return err
	}

	m.replaceLines(lines)
	return nil
}

// replaceLines swaps the cart contents, zeroing the badges of lines that go away
func (m *Manager) replaceLines(lines []CartLine) {
	for _, line := range m.lines {
		m.view.SetQuantityBadge(line.Name, 0)
	}
	m.lines = lines
}

func (m *Manager) indexOf(name string) int {
	for i := range m.lines {
		if m.lines[i].Name == name {
			return i
		}
	}
	return -1
}

// internal/domain/cart/entity.go
package cart

import (
	"context"
	"fmt"
)

// DefaultStorageKey is the key the cart snapshot is written under
const DefaultStorageKey = "cartItems"

// DefaultCurrencySymbol prefixes rendered prices and is stripped from price labels
const DefaultCurrencySymbol = "$"

// CartLine is one product entry in the cart. Name is the line's identity.
type CartLine struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	ImageRef  string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the line price multiplied by its quantity
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// ProductCard is a product element of the storefront page
type ProductCard interface {
	Name() string
	PriceLabel() string
	ImageRef() string
	// SetQuantityBadge updates the card's live quantity counter, if it has one.
	SetQuantityBadge(quantity int)
}

// View receives every state change the cart wants reflected on the page
type View interface {
	// RenderCartItems replaces the whole cart list with lines.
	RenderCartItems(lines []CartLine)
	SetCartEmpty(empty bool)
	SetQuantityBadge(name string, quantity int)
	SetCartVisible(visible bool)
	ScrollToTop()
}

// Storage is a string key-value store scoped to one browser session
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// FormatPrice renders a price with two decimals behind the currency symbol
func FormatPrice(symbol string, price float64) string {
	return fmt.Sprintf("%s%.2f", symbol, price)
}

package dom

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

// Card is a product card element: a title, a price label, an image and
// optionally a live quantity badge.
type Card struct {
	node *html.Node
}

var _ cart.ProductCard = (*Card)(nil)

// ID returns the card's id attribute
func (c *Card) ID() string {
	return attr(c.node, "id")
}

// Name returns the text of the card's first h3
func (c *Card) Name() string {
	if n := findTag(c.node, atom.H3); n != nil {
		return textContent(n)
	}
	return ""
}

// PriceLabel returns the text of the card's first paragraph
func (c *Card) PriceLabel() string {
	if n := findTag(c.node, atom.P); n != nil {
		return textContent(n)
	}
	return ""
}

// ImageRef returns the src of the card's first image
func (c *Card) ImageRef() string {
	if n := findTag(c.node, atom.Img); n != nil {
		return attr(n, "src")
	}
	return ""
}

// Badge returns the quantity badge text, if the card has a badge
func (c *Card) Badge() (string, bool) {
	if n := c.badge(); n != nil {
		return textContent(n), true
	}
	return "", false
}

// SetQuantityBadge writes quantity into the badge, if the card has one
func (c *Card) SetQuantityBadge(quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	if n := c.badge(); n != nil {
		setText(n, strconv.Itoa(quantity))
	}
}

func (c *Card) badge() *html.Node {
	return findFirst(c.node, func(n *html.Node) bool {
		return n != c.node && hasClass(n, QuantityClass)
	})
}

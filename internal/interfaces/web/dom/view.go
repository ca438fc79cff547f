package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

// RenderCartItems replaces the content of the cart-items container
func (d *Document) RenderCartItems(lines []cart.CartLine) {
	container := d.ElementByID(CartItemsID)
	if container == nil {
		return
	}

	removeChildren(container)
	for _, line := range lines {
		container.AppendChild(d.cartItem(line))
	}
}

func (d *Document) cartItem(line cart.CartLine) *html.Node {
	item := element(atom.Div, "class", "cart-item")
	item.AppendChild(element(atom.Img, "src", line.ImageRef, "alt", line.Name))

	details := element(atom.Div, "class", "item-details")

	name := element(atom.H3)
	setText(name, line.Name)
	details.AppendChild(name)

	price := element(atom.P)
	setText(price, cart.FormatPrice(d.currencySymbol, line.UnitPrice))
	details.AppendChild(price)

	quantity := element(atom.Span)
	setText(quantity, fmt.Sprintf("Quantity: %d", line.Quantity))
	details.AppendChild(quantity)

	// The button posts the line name back to the remove endpoint.
	form := element(atom.Form, "method", "post", "action", RemoveAction)
	remove := element(atom.Button,
		"type", "submit",
		"class", RemoveButtonClass,
		"name", "name",
		"value", line.Name,
	)
	setText(remove, "Remove")
	form.AppendChild(remove)
	details.AppendChild(form)

	item.AppendChild(details)
	return item
}

// SetCartEmpty shows the empty-cart notice iff empty
func (d *Document) SetCartEmpty(empty bool) {
	if n := d.ElementByID(CartEmptyID); n != nil {
		setDisplay(n, empty)
	}
}

// SetQuantityBadge updates the badge of the card named name
func (d *Document) SetQuantityBadge(name string, quantity int) {
	if c, ok := d.CardByName(name); ok {
		c.SetQuantityBadge(quantity)
	}
}

// SetCartVisible toggles the cart overlay
func (d *Document) SetCartVisible(visible bool) {
	if n := d.ElementByID(CartModalID); n != nil {
		setDisplay(n, visible)
	}
}

// CartVisible reports whether the cart overlay is displayed
func (d *Document) CartVisible() bool {
	n := d.ElementByID(CartModalID)
	return n != nil && attr(n, "style") == "display: block"
}

// ScrollToTop marks the document so the page opens at its top
func (d *Document) ScrollToTop() {
	if n := findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Html }); n != nil {
		setAttr(n, "data-scroll-top", "0")
	}
}

func setDisplay(n *html.Node, visible bool) {
	if visible {
		setAttr(n, "style", "display: block")
	} else {
		setAttr(n, "style", "display: none")
	}
}

// Package dom holds the storefront page as a parsed HTML tree and implements
// the cart's product-card and view collaborators on top of it.
package dom

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

//go:embed storefront.html
var defaultPage []byte

// Element ids and classes the page is expected to carry
const (
	CartItemsID       = "cart-items"
	CartModalID       = "cart-modal"
	CartEmptyID       = "cart-empty"
	ProductCardClass  = "product-card"
	QuantityClass     = "quantity"
	RemoveButtonClass = "remove-from-cart-btn"
	RemoveAction      = "/cart/remove"
)

// Document is one storefront page
type Document struct {
	root           *html.Node
	currencySymbol string
}

var _ cart.View = (*Document)(nil)

// Parse reads a storefront page
func Parse(r io.Reader, currencySymbol string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storefront page: %w", err)
	}
	return &Document{root: root, currencySymbol: currencySymbol}, nil
}

// Template is a parsed page that new documents are stamped from
type Template struct {
	source         []byte
	currencySymbol string
}

// LoadTemplate reads a page from path, or the built-in storefront when path is empty
func LoadTemplate(path, currencySymbol string) (*Template, error) {
	source := defaultPage
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read storefront page: %w", err)
		}
		source = data
	}

	// Fail at startup rather than on the first request.
	if _, err := Parse(bytes.NewReader(source), currencySymbol); err != nil {
		return nil, err
	}

	return &Template{source: source, currencySymbol: currencySymbol}, nil
}

// New returns a fresh document for one session
func (t *Template) New() (*Document, error) {
	return Parse(bytes.NewReader(t.source), t.currencySymbol)
}

// Render writes the page as HTML
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the page as HTML
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ElementByID returns the element with the given id attribute
func (d *Document) ElementByID(id string) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return attr(n, "id") == id
	})
}

// ProductCards returns every product card in document order
func (d *Document) ProductCards() []*Card {
	var cards []*Card
	walk(d.root, func(n *html.Node) bool {
		if hasClass(n, ProductCardClass) {
			cards = append(cards, &Card{node: n})
			return false
		}
		return true
	})
	return cards
}

// CardByID returns the product card with the given id attribute
func (d *Document) CardByID(id string) (*Card, bool) {
	if id == "" {
		return nil, false
	}
	for _, c := range d.ProductCards() {
		if attr(c.node, "id") == id {
			return c, true
		}
	}
	return nil, false
}

// CardByName returns the first product card whose title matches name
func (d *Document) CardByName(name string) (*Card, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for _, c := range d.ProductCards() {
		if strings.TrimSpace(c.Name()) == name {
			return c, true
		}
	}
	return nil, false
}

// walk visits n and its descendants depth-first. Returning false from visit
// skips the node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

func findTag(n *html.Node, a atom.Atom) *html.Node {
	return findFirst(n, func(node *html.Node) bool {
		return node != n && node.DataAtom == a
	})
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

const testPage = `<!DOCTYPE html>
<html><body>
<div class="product-card featured" id="mug">
  <img src="mug.png" alt="Mug">
  <h3> Mug </h3>
  <p>$9.99</p>
  <span class="quantity">0</span>
</div>
<div class="product-card" id="broken">
  <h3>Broken</h3>
</div>
<div id="cart-modal" style="display: none">
  <p id="cart-empty">Your cart is empty.</p>
  <div id="cart-items"><div class="stale">old</div></div>
</div>
</body></html>`

type memStorage map[string]string

func (s memStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

func (s memStorage) SetItem(_ context.Context, key, value string) error {
	s[key] = value
	return nil
}

func parseTestPage(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(testPage), "$")
	require.NoError(t, err)
	return doc
}

func TestProductCardExtraction(t *testing.T) {
	doc := parseTestPage(t)

	cards := doc.ProductCards()
	require.Len(t, cards, 2)

	mug := cards[0]
	assert.Equal(t, "mug", mug.ID())
	assert.Equal(t, " Mug ", mug.Name())
	assert.Equal(t, "$9.99", mug.PriceLabel())
	assert.Equal(t, "mug.png", mug.ImageRef())
	badge, ok := mug.Badge()
	assert.True(t, ok)
	assert.Equal(t, "0", badge)

	broken := cards[1]
	assert.Equal(t, "", broken.PriceLabel())
	assert.Equal(t, "", broken.ImageRef())
	_, ok = broken.Badge()
	assert.False(t, ok)
}

func TestCardLookup(t *testing.T) {
	doc := parseTestPage(t)

	byID, ok := doc.CardByID("mug")
	require.True(t, ok)
	byName, ok := doc.CardByName("Mug")
	require.True(t, ok)
	assert.Equal(t, byID.node, byName.node)

	_, ok = doc.CardByID("")
	assert.False(t, ok)
	_, ok = doc.CardByName("Spoon")
	assert.False(t, ok)
}

func TestRenderCartItemsReplacesContainer(t *testing.T) {
	doc := parseTestPage(t)

	doc.RenderCartItems([]cart.CartLine{
		{Name: "Mug", UnitPrice: 9.99, ImageRef: "mug.png", Quantity: 2},
		{Name: "Plate", UnitPrice: 4, ImageRef: "plate.png", Quantity: 1},
	})

	out := doc.String()
	assert.NotContains(t, out, "stale")
	assert.Contains(t, out, `<div class="cart-item"><img src="mug.png" alt="Mug"/>`)
	assert.Contains(t, out, "<p>$9.99</p><span>Quantity: 2</span>")
	assert.Contains(t, out, "<p>$4.00</p><span>Quantity: 1</span>")
	assert.Contains(t, out, `<button type="submit" class="remove-from-cart-btn" name="name" value="Plate">Remove</button>`)

	doc.RenderCartItems(nil)
	assert.NotContains(t, doc.String(), `class="cart-item"`)
	assert.Nil(t, doc.ElementByID(CartItemsID).FirstChild)
}

func TestRenderEscapesNames(t *testing.T) {
	doc := parseTestPage(t)

	doc.RenderCartItems([]cart.CartLine{{Name: `<b>"x"</b>`, UnitPrice: 1, ImageRef: "x.png", Quantity: 1}})

	out := doc.String()
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
}

func TestViewToggles(t *testing.T) {
	doc := parseTestPage(t)

	assert.False(t, doc.CartVisible())
	doc.SetCartVisible(true)
	assert.True(t, doc.CartVisible())
	doc.SetCartVisible(false)
	assert.False(t, doc.CartVisible())

	doc.SetCartEmpty(false)
	assert.Equal(t, "display: none", attr(doc.ElementByID(CartEmptyID), "style"))

	doc.ScrollToTop()
	assert.Contains(t, doc.String(), `<html data-scroll-top="0">`)
}

func TestSetQuantityBadgeByName(t *testing.T) {
	doc := parseTestPage(t)

	doc.SetQuantityBadge("Mug", 3)
	doc.SetQuantityBadge("Spoon", 5)

	card, _ := doc.CardByName("Mug")
	badge, _ := card.Badge()
	assert.Equal(t, "3", badge)

	card.SetQuantityBadge(-1)
	badge, _ = card.Badge()
	assert.Equal(t, "0", badge)
}

func TestManagerDrivesDocument(t *testing.T) {
	ctx := context.Background()
	doc := parseTestPage(t)
	m := cart.NewManager(memStorage{}, doc)
	card, ok := doc.CardByID("mug")
	require.True(t, ok)

	require.NoError(t, m.AddToCart(ctx, card))
	require.NoError(t, m.AddToCart(ctx, card))

	badge, _ := card.Badge()
	assert.Equal(t, "2", badge)
	assert.Contains(t, doc.String(), "Quantity: 2")
	assert.Equal(t, "display: none", attr(doc.ElementByID(CartEmptyID), "style"))

	broken, _ := doc.CardByID("broken")
	require.ErrorIs(t, m.AddToCart(ctx, broken), cart.ErrInvalidProduct)
	assert.Len(t, m.Lines(), 1)
}

func TestCorruptRestoreClearsBadges(t *testing.T) {
	ctx := context.Background()
	doc := parseTestPage(t)
	store := memStorage{}
	m := cart.NewManager(store, doc)
	card, ok := doc.CardByID("mug")
	require.True(t, ok)
	require.NoError(t, m.AddToCart(ctx, card))

	store[cart.DefaultStorageKey] = "{broken"
	require.ErrorIs(t, m.RestoreCart(ctx), cart.ErrCorruptSnapshot)

	assert.Empty(t, m.Lines())
	badge, _ := card.Badge()
	assert.Equal(t, "0", badge)
	assert.NotContains(t, doc.String(), `class="cart-item"`)
}

func TestDefaultTemplate(t *testing.T) {
	tmpl, err := LoadTemplate("", "$")
	require.NoError(t, err)

	doc, err := tmpl.New()
	require.NoError(t, err)

	cards := doc.ProductCards()
	require.NotEmpty(t, cards)
	for _, c := range cards {
		assert.NotEmpty(t, c.ID())
		_, err := cart.ParsePrice(c.PriceLabel(), "$")
		assert.NoError(t, err, c.ID())
	}
	assert.NotNil(t, doc.ElementByID(CartItemsID))
	assert.NotNil(t, doc.ElementByID(CartModalID))
	assert.NotNil(t, doc.ElementByID(CartEmptyID))

	other, err := tmpl.New()
	require.NoError(t, err)
	doc.SetCartVisible(true)
	assert.False(t, other.CartVisible())
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate("/does/not/exist.html", "$")
	assert.Error(t, err)
}

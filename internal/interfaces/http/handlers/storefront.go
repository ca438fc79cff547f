// internal/interfaces/http/handlers/storefront.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-cart/internal/interfaces/web/dom"
)

// StorefrontHandler serves the storefront page and its cart actions
type StorefrontHandler struct {
	sessions *SessionRegistry
	logger   *logrus.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(sessions *SessionRegistry, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CartResponse is the JSON view of a session's cart
type CartResponse struct {
	Items         []cart.CartLine `json:"items"`
	CartIsEmpty   bool            `json:"cart_is_empty"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	SubTotal      float64         `json:"sub_total"`
	Currency      string          `json:"currency"`
	CartVisible   bool            `json:"cart_visible"`
}

// Page handles GET /
func (h *StorefrontHandler) Page(c *gin.Context) {
	s, ok := h.acquire(c)
	if !ok {
		return
	}
	defer s.Release()

	var buf bytes.Buffer
	if err := s.Page.Render(&buf); err != nil {
		h.entry(c).WithError(err).Error("Failed to render storefront page")
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetCart handles GET /api/cart
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	s, ok := h.acquire(c)
	if !ok {
		return
	}
	defer s.Release()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    newCartResponse(s),
	})
}

// AddToCart handles POST /cart/add
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	h.withCard(c, "Item added to cart", func(ctx context.Context, s *Session, card *dom.Card) error {
		return s.Cart.AddToCart(ctx, card)
	})
}

// IncrementQuantity handles POST /cart/increment
func (h *StorefrontHandler) IncrementQuantity(c *gin.Context) {
	h.withCard(c, "Quantity increased", func(ctx context.Context, s *Session, card *dom.Card) error {
		return s.Cart.IncrementQuantity(ctx, card)
	})
}

// DecrementQuantity handles POST /cart/decrement
func (h *StorefrontHandler) DecrementQuantity(c *gin.Context) {
	h.withCard(c, "Quantity decreased", func(ctx context.Context, s *Session, card *dom.Card) error {
		return s.Cart.DecrementQuantity(ctx, card)
	})
}

// RemoveFromCart handles POST /cart/remove
func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	s, ok := h.acquire(c)
	if !ok {
		return
	}
	defer s.Release()

	err := s.Cart.RemoveFromCart(c.Request.Context(), name)
	h.respond(c, s, "Item removed from cart", err)
}

// OpenCart handles POST /cart/open
func (h *StorefrontHandler) OpenCart(c *gin.Context) {
	h.withSession(c, "Cart opened", (*cart.Manager).OpenCartView)
}

// CloseCart handles POST /cart/close
func (h *StorefrontHandler) CloseCart(c *gin.Context) {
	h.withSession(c, "Cart closed", (*cart.Manager).CloseCartView)
}

// ScrollToTop handles POST /scroll-top
func (h *StorefrontHandler) ScrollToTop(c *gin.Context) {
	h.withSession(c, "Scrolled to top", (*cart.Manager).ScrollToTop)
}

func (h *StorefrontHandler) withSession(c *gin.Context, message string, action func(*cart.Manager)) {
	s, ok := h.acquire(c)
	if !ok {
		return
	}
	defer s.Release()

	action(s.Cart)
	h.respond(c, s, message, nil)
}

func (h *StorefrontHandler) withCard(c *gin.Context, message string, action func(context.Context, *Session, *dom.Card) error) {
	cardID := strings.TrimSpace(c.PostForm("card"))
	product := strings.TrimSpace(c.PostForm("product"))

	s, ok := h.acquire(c)
	if !ok {
		return
	}
	defer s.Release()

	card, found := s.Page.CardByID(cardID)
	if !found {
		card, found = s.Page.CardByName(product)
	}
	if !found {
		h.entry(c).WithFields(logrus.Fields{"card": cardID, "product": product}).Warn("Product card not found")
		if wantsJSON(c) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	err := action(c.Request.Context(), s, card)
	h.respond(c, s, message, err)
}

// respond reports the outcome of a cart action. Form clients are always sent
// back to the page; failures only show up in the log for them.
func (h *StorefrontHandler) respond(c *gin.Context, s *Session, message string, err error) {
	if err != nil {
		entry := h.entry(c).WithError(err)
		if errors.Is(err, cart.ErrInvalidProduct) {
			entry.Warn("Skipped product with incomplete card")
		} else {
			entry.Error("Cart action failed")
		}
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message": message,
			"data":    newCartResponse(s),
		})
	case errors.Is(err, cart.ErrInvalidProduct):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"data":  newCartResponse(s),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save cart",
			"data":  newCartResponse(s),
		})
	}
}

func (h *StorefrontHandler) acquire(c *gin.Context) (*Session, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session required",
		})
		return nil, false
	}

	s, err := h.sessions.Acquire(c.Request.Context(), sessionID)
	if err != nil {
		h.entry(c).WithError(err).Error("Failed to open session")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Cart storage unavailable",
		})
		return nil, false
	}

	return s, true
}

func (h *StorefrontHandler) entry(c *gin.Context) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"session_id": c.GetString(middleware.SessionIDKey),
	})
}

func newCartResponse(s *Session) CartResponse {
	lines := s.Cart.Lines()

	var subTotal float64
	for _, line := range lines {
		subTotal += line.Subtotal()
	}

	return CartResponse{
		Items:         lines,
		CartIsEmpty:   s.Cart.IsEmpty(),
		ItemCount:     len(lines),
		TotalQuantity: s.Cart.TotalQuantity(),
		SubTotal:      math.Round(subTotal*100) / 100,
		Currency:      s.Cart.CurrencySymbol(),
		CartVisible:   s.Page.CartVisible(),
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

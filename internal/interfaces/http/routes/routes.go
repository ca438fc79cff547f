// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-cart/internal/interfaces/http/handlers"
)

// SetupStorefrontRoutes sets up the page and its cart actions
func SetupStorefrontRoutes(rg gin.IRouter, h *handlers.StorefrontHandler) {
	rg.GET("/", h.Page)
	rg.POST("/scroll-top", h.ScrollToTop)

	cart := rg.Group("/cart")
	{
		cart.POST("/add", h.AddToCart)
		cart.POST("/increment", h.IncrementQuantity)
		cart.POST("/decrement", h.DecrementQuantity)
		cart.POST("/remove", h.RemoveFromCart)
		cart.POST("/open", h.OpenCart)
		cart.POST("/close", h.CloseCart)
	}

	api := rg.Group("/api")
	{
		api.GET("/cart", h.GetCart)
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders(serverName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// The storefront only posts forms back to itself
		c.Header("Content-Security-Policy", "default-src 'self'; form-action 'self'")

		c.Header("Server", serverName)

		c.Next()
	}
}

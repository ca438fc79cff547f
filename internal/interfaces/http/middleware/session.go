// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/pkg/auth"
)

// SessionIDKey is the context key holding the browser session id
const SessionIDKey = "session_id"

// Session resolves the browser session from its signed cookie, starting a new
// session when the cookie is missing, expired or forged.
func Session(cfg *config.Config, tokens *auth.SessionTokens, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string

		if token, err := c.Cookie(cfg.Session.CookieName); err == nil && token != "" {
			id, err := tokens.Validate(token)
			if err != nil {
				logger.WithError(err).Debug("Discarding session cookie")
			} else {
				sessionID = id
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()

			token, err := tokens.Issue(sessionID)
			if err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, token, int(tokens.Expiry().Seconds()), "/", "", cfg.Session.Secure, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionIDFromContext returns the session id set by Session
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(SessionIDKey)
	return id, id != ""
}

// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/storefront-cart/internal/config"
)

const sessionTokenType = "session"

// ErrInvalidSession is returned for tokens that do not carry a usable session
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims represents the claims of a browser session cookie
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies session cookies
type SessionTokens struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewSessionTokens creates a token manager from configuration
func NewSessionTokens(cfg *config.Config) *SessionTokens {
	return &SessionTokens{
		secret: []byte(cfg.Session.Secret),
		issuer: cfg.App.Name,
		expiry: cfg.Session.TokenExpiry,
		now:    time.Now,
	}
}

// Expiry returns how long issued tokens stay valid
func (s *SessionTokens) Expiry() time.Duration {
	return s.expiry
}

// Issue returns a signed token whose subject is sessionID
func (s *SessionTokens) Issue(sessionID string) (string, error) {
	now := s.now().UTC()

	claims := &SessionClaims{
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenString and returns the session id it carries
func (s *SessionTokens) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}
	if claims.TokenType != sessionTokenType || claims.Subject == "" {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}

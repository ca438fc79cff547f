// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/infrastructure/storage"
	"github.com/your-org/storefront-cart/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-cart/internal/interfaces/http/routes"
	"github.com/your-org/storefront-cart/internal/interfaces/web/dom"
	"github.com/your-org/storefront-cart/internal/pkg/auth"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	backend    storage.Backend
	sessions   *handlers.SessionRegistry
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with its routes in place
func NewServer(cfg *config.Config, logger *logrus.Logger, backend storage.Backend, page *dom.Template) *Server {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := handlers.NewSessionRegistry(backend, page, cfg.Session.IdleTimeout, logger,
		cart.WithStorageKey(cfg.Cart.StorageKey),
		cart.WithCurrencySymbol(cfg.Cart.CurrencySymbol),
	)

	s := &Server{
		config:    cfg,
		logger:    logger,
		gin:       gin.New(),
		backend:   backend,
		sessions:  sessions,
		startedAt: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the router, for use without a listener
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithField("port", s.config.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoints (no session required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	tokens := auth.NewSessionTokens(s.config)
	storefront := s.gin.Group("")
	storefront.Use(middleware.Session(s.config, tokens, s.logger))

	routes.SetupStorefrontRoutes(storefront, handlers.NewStorefrontHandler(s.sessions, s.logger))
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.backend.Health(ctx); err != nil {
		s.logger.WithError(err).Warn("Storage health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "storage ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"storage":     s.config.Storage.Driver,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"uptime":   time.Since(s.startedAt).String(),
		"sessions": s.sessions.Len(),
	})
}

// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/infrastructure/storage"
	"github.com/your-org/storefront-cart/internal/interfaces/http"
	"github.com/your-org/storefront-cart/internal/interfaces/web/dom"
	"github.com/your-org/storefront-cart/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	logg.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	page, err := dom.LoadTemplate(cfg.Cart.PagePath, cfg.Cart.CurrencySymbol)
	if err != nil {
		logg.WithError(err).Fatal("Failed to load storefront page")
	}

	backend, err := storage.Open(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to open cart storage")
	}
	defer backend.Close()

	server := http.NewServer(cfg, logg, backend, page)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logg.Info("Server shutdown completed")
}

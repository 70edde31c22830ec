package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/alphax-ai/backend/api"
	"github.com/alphax-ai/backend/auth"
	"github.com/alphax-ai/backend/config"
	"github.com/alphax-ai/backend/openrouter"
	"github.com/alphax-ai/backend/store"
)

func main() {
	// Load configuration; a missing OPENROUTER_API_KEY fails here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting AlphaX backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Storage driver: %s", cfg.StorageDriver)
	log.Printf("OpenRouter URL: %s", cfg.OpenRouterURL)

	// Initialize store
	db, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize token service
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL)

	// Initialize completion client
	llmClient := openrouter.NewClient(cfg.OpenRouterURL, cfg.OpenRouterKey, cfg.SiteURL, cfg.AppName, cfg.LLMTimeout)

	// Initialize handler
	h := api.NewHandler(db, tokens, llmClient, cfg)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.HTTPErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Server stopped")
}

// newStore selects the storage backend. Flat JSON files are the default;
// sqlite is available for deployments that want per-row writes.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		return store.NewSQLiteStore(cfg.DatabaseURL)
	case "file", "":
		return store.NewFileStore(cfg.UsersFile, cfg.ChatsFile), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

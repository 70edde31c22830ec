// Package api provides the HTTP handlers for the chat backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/auth"
	"github.com/alphax-ai/backend/config"
	"github.com/alphax-ai/backend/openrouter"
	"github.com/alphax-ai/backend/store"
)

// Handler handles HTTP requests.
type Handler struct {
	store  store.Store
	tokens *auth.TokenService
	llm    *openrouter.Client
	config *config.Config
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, tokens *auth.TokenService, llm *openrouter.Client, config *config.Config) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
		llm:    llm,
		config: config,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Public API
	e.GET("/", h.Index)
	e.POST("/api/register", h.Register)
	e.POST("/api/login", h.Login)

	// Protected API
	authed := RequireAuth(h.tokens)
	e.GET("/api/user", h.GetUser, authed)
	e.POST("/api/chat", h.Chat, authed)
	e.GET("/api/chats", h.ListChats, authed)
	e.POST("/api/chats", h.SaveChat, authed)
	e.PUT("/api/chats/:id", h.UpdateChat, authed)
	e.DELETE("/api/chats/:id", h.DeleteChat, authed)
	e.POST("/api/logout", h.Logout, authed)
	e.GET("/api/models", h.ListModels, authed)

	e.GET("/health", h.Health)
}

// Index returns a liveness message for the root path.
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "AlphaX backend running",
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

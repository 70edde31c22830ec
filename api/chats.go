package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/domain"
)

// conversationRequest mirrors domain.Conversation with pointer fields so
// presence of each required field can be checked before persisting.
type conversationRequest struct {
	ID        *string            `json:"id"`
	Title     *string            `json:"title"`
	Messages  *[]domain.ChatTurn `json:"messages"`
	Timestamp *int64             `json:"timestamp"`
}

// validate checks the required fields and returns the conversation to
// persist, or the name of the first missing field.
func (r *conversationRequest) validate() (*domain.Conversation, string) {
	switch {
	case r.ID == nil:
		return nil, "id"
	case r.Title == nil:
		return nil, "title"
	case r.Messages == nil:
		return nil, "messages"
	case r.Timestamp == nil:
		return nil, "timestamp"
	}
	return &domain.Conversation{
		ID:        *r.ID,
		Title:     *r.Title,
		Messages:  *r.Messages,
		Timestamp: *r.Timestamp,
	}, ""
}

// ListChats returns all of the caller's conversations, most recent
// client timestamp first.
// GET /api/chats
func (h *Handler) ListChats(c echo.Context) error {
	ctx := c.Request().Context()

	convs, err := h.store.ListConversations(ctx, currentUserID(c))
	if err != nil {
		log.Printf("ERROR: failed to list conversations: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "failed to load chats")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chats": convs,
	})
}

// SaveChat creates or updates a conversation for the caller.
// POST /api/chats
func (h *Handler) SaveChat(c echo.Context) error {
	ctx := c.Request().Context()

	var req conversationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "no data provided")
	}
	conv, missing := req.validate()
	if missing != "" {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "missing required field: "+missing)
	}

	saved, err := h.store.SaveConversation(ctx, currentUserID(c), conv)
	if err != nil {
		log.Printf("ERROR: failed to save conversation: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "failed to save chat")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Chat saved successfully",
		"chat":    saved,
	})
}

// UpdateChat updates a conversation by id. The path id overrides
// whatever id the body carries, so the operation is an idempotent
// overwrite of that record.
// PUT /api/chats/:id
func (h *Handler) UpdateChat(c echo.Context) error {
	ctx := c.Request().Context()
	convID := c.Param("id")

	var req conversationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "no data provided")
	}
	req.ID = &convID
	conv, missing := req.validate()
	if missing != "" {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "missing required field: "+missing)
	}

	saved, err := h.store.SaveConversation(ctx, currentUserID(c), conv)
	if err != nil {
		log.Printf("ERROR: failed to update conversation: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "failed to update chat")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Chat updated successfully",
		"chat":    saved,
	})
}

// DeleteChat removes a conversation by id.
// DELETE /api/chats/:id
func (h *Handler) DeleteChat(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.store.DeleteConversation(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, kindNotFound, "chat not found")
		}
		log.Printf("ERROR: failed to delete conversation: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "failed to delete chat")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Chat deleted successfully",
	})
}

// ListModels returns the static model catalog.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"models": domain.ModelCatalog,
	})
}

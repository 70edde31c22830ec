package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/domain"
	"github.com/alphax-ai/backend/openrouter"
)

// defaultModel is the model every completion request is forwarded with.
const defaultModel = "openai/gpt-4o-mini"

// systemPromptFormat is the fixed system instruction, parameterized by
// the account's display name.
const systemPromptFormat = `You are AlphaX, a helpful, harmless, and honest AI assistant. You are chatting with %s. You should:

1. Provide clear, well-structured responses
2. Use markdown formatting when appropriate (headers, lists, code blocks, etc.)
3. Be conversational but professional
4. Break down complex topics into digestible parts
5. Provide examples when helpful
6. Ask clarifying questions when needed
7. Admit when you don't know something
8. Format code with proper syntax highlighting using code blocks
9. Use bullet points and numbered lists for better readability
10. Be concise but thorough

Always aim to be as helpful as possible while maintaining accuracy.`

type chatRequest struct {
	Prompt   string                   `json:"prompt"`
	Messages []openrouter.ChatMessage `json:"messages"`
}

// Chat forwards a prompt plus history to the completion service.
// POST /api/chat
//
// The interaction counter is incremented and persisted before the
// remote call is issued, so the count reflects attempts: a crash during
// the call cannot under-count, and a failed call is not rolled back.
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "no data provided")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "missing prompt")
	}

	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, kindNotFound, "user not found")
		}
		log.Printf("ERROR: failed to load user: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	chatCount, err := h.store.IncrementChatCount(ctx, userID)
	if err != nil {
		log.Printf("ERROR: failed to increment chat count: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	// Transcript: fixed system turn, history verbatim, then the new turn.
	transcript := make([]openrouter.ChatMessage, 0, len(req.Messages)+2)
	transcript = append(transcript, openrouter.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptFormat, user.Name),
	})
	transcript = append(transcript, req.Messages...)
	transcript = append(transcript, openrouter.ChatMessage{Role: "user", Content: prompt})

	completionReq := &openrouter.ChatCompletionRequest{
		Model:            defaultModel,
		Messages:         transcript,
		Temperature:      openrouter.Float(0.7),
		MaxTokens:        openrouter.Int(2048),
		TopP:             openrouter.Float(0.9),
		FrequencyPenalty: openrouter.Float(0.1),
		PresencePenalty:  openrouter.Float(0.1),
	}

	requestID := "chat_" + uuid.New().String()[:8]
	resp, err := h.llm.CreateChatCompletion(ctx, completionReq)
	if err != nil {
		return h.failUpstream(c, requestID, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		log.Printf("ERROR: [%s] upstream returned no choices", requestID)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	usage := resp.Usage
	if usage == nil {
		usage = &openrouter.Usage{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"response":        resp.Choices[0].Message.Content,
		"model":           defaultModel,
		"usage":           usage,
		"user_chat_count": chatCount,
	})
}

// failUpstream logs the full upstream failure and returns the
// generalized client response. The upstream status and body are never
// forwarded verbatim.
func (h *Handler) failUpstream(c echo.Context, requestID string, err error) error {
	var upstreamErr *openrouter.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		log.Printf("ERROR: [%s] completion API returned %d: %s", requestID, upstreamErr.Status, upstreamErr.Body)
		return fail(c, http.StatusServiceUnavailable, kindUpstreamUnavailable, "AI service temporarily unavailable")
	case errors.Is(err, openrouter.ErrUpstreamTimeout):
		log.Printf("ERROR: [%s] completion request timed out: %v", requestID, err)
		return fail(c, http.StatusGatewayTimeout, kindUpstreamTimeout, "the AI service took too long to respond")
	case errors.Is(err, openrouter.ErrUpstreamUnreachable):
		log.Printf("ERROR: [%s] completion service unreachable: %v", requestID, err)
		return fail(c, http.StatusServiceUnavailable, kindUpstreamUnreachable, "unable to connect to AI service")
	default:
		log.Printf("ERROR: [%s] unexpected completion failure: %v", requestID, err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}
}

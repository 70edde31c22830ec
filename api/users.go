package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/auth"
	"github.com/alphax-ai/backend/domain"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// normalizeEmail trims whitespace and lowercases. The normalized form is
// the account's unique key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and issues a session token.
// POST /api/register
func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "no data provided")
	}

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if email == "" || req.Password == "" || name == "" {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "email, password, and name are required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "password must be at least 6 characters long")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "please enter a valid email address")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("ERROR: failed to hash password: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fail(c, http.StatusConflict, kindConflict, "user with this email already exists")
		}
		log.Printf("ERROR: failed to create user: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	token, err := h.tokens.Issue(email)
	if err != nil {
		log.Printf("ERROR: failed to issue token: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    user.Profile(false),
	})
}

// Login authenticates an account and issues a session token. Unknown
// emails and wrong passwords produce identical responses so login does
// not reveal whether an account exists.
// POST /api/login
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "no data provided")
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, kindInvalidRequest, "email and password are required")
	}

	user, err := h.store.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, kindUnauthorized, domain.ErrInvalidCredentials.Error())
		}
		log.Printf("ERROR: failed to load user: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, kindUnauthorized, domain.ErrInvalidCredentials.Error())
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		log.Printf("ERROR: failed to issue token: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user.Profile(false),
	})
}

// GetUser returns the caller's profile.
// GET /api/user
func (h *Handler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.store.GetUser(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, kindNotFound, "user not found")
		}
		log.Printf("ERROR: failed to load user: %v", err)
		return fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user.Profile(true),
	})
}

// Logout acknowledges logout. Tokens are stateless, so the client simply
// discards its copy.
// POST /api/logout
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

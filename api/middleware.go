package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/auth"
)

// userIDKey is the echo context key holding the authenticated account id.
const userIDKey = "user_id"

// RequireAuth returns middleware enforcing a valid bearer token. The
// resolved account id is stored in the request context; no handler
// behind this middleware runs without one. Missing, malformed, and
// invalid tokens all produce the same 401 response.
func RequireAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if header == "" || !strings.HasPrefix(header, prefix) {
				return fail(c, http.StatusUnauthorized, kindUnauthenticated, "missing or invalid authorization header")
			}
			userID, err := tokens.Verify(strings.TrimPrefix(header, prefix))
			if err != nil {
				return fail(c, http.StatusUnauthorized, kindUnauthenticated, "invalid or expired token")
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// currentUserID returns the account id resolved by RequireAuth.
func currentUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

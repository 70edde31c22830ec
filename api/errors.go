package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error kinds returned in the machine-checkable "error" field.
const (
	kindInvalidRequest      = "invalid_request"
	kindUnauthenticated     = "unauthenticated"
	kindUnauthorized        = "unauthorized"
	kindConflict            = "conflict"
	kindNotFound            = "not_found"
	kindUpstreamTimeout     = "upstream_timeout"
	kindUpstreamUnavailable = "upstream_unavailable"
	kindUpstreamUnreachable = "upstream_unreachable"
	kindInternal            = "internal"
)

// ErrorBody is the structured error response. Message is human-readable;
// Error is the stable kind.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// fail writes a structured JSON error response.
func fail(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, ErrorBody{Error: kind, Message: message})
}

// HTTPErrorHandler converts echo-level errors (unknown routes, bind
// failures outside handlers) into the structured error body. Internal
// error text never reaches the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		switch he.Code {
		case http.StatusNotFound:
			_ = fail(c, http.StatusNotFound, kindNotFound, "endpoint not found")
			return
		case http.StatusMethodNotAllowed:
			_ = fail(c, http.StatusMethodNotAllowed, kindNotFound, "method not allowed")
			return
		}
	}
	c.Logger().Error(err)
	_ = fail(c, http.StatusInternalServerError, kindInternal, "internal server error")
}

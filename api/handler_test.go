package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alphax-ai/backend/auth"
	"github.com/alphax-ai/backend/config"
	"github.com/alphax-ai/backend/openrouter"
	"github.com/alphax-ai/backend/store"
)

// newTestServer builds an echo server with all routes registered over a
// file store in a temp dir. upstreamURL points the completion client at
// a fake OpenRouter.
func newTestServer(t *testing.T, upstreamURL string) (*echo.Echo, *Handler) {
	t.Helper()

	dir := t.TempDir()
	db := store.NewFileStore(filepath.Join(dir, "users.json"), filepath.Join(dir, "chats.json"))
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	llm := openrouter.NewClient(upstreamURL, "test-key", "http://localhost:8000", "AlphaX", time.Second)
	cfg := &config.Config{AppName: "AlphaX"}

	h := NewHandler(db, tokens, llm, cfg)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler
	h.RegisterRoutes(e)

	return e, h
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a test account and returns its session token.
func registerUser(t *testing.T, e *echo.Echo, email, password, name string) string {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/register", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

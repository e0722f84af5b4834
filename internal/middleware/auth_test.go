package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/server/internal/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *utils.TokenManager) {
	t.Helper()
	tokens, err := utils.NewTokenManager("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", Auth(tokens), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c) + ":" + GetUsername(c))
	})
	return app, tokens
}

func TestAuth(t *testing.T) {
	app, tokens := newTestApp(t)
	pair, err := tokens.GeneratePair("u1", "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.Access}) },
			status: fiber.StatusOK,
			body:   "u1:alice",
		},
		{
			name:   "bearer header",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Access) },
			status: fiber.StatusOK,
			body:   "u1:alice",
		},
		{
			name:   "missing token",
			setup:  func(*http.Request) {},
			status: fiber.StatusUnauthorized,
		},
		{
			name:   "refresh token is not an access token",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Refresh) },
			status: fiber.StatusUnauthorized,
		},
		{
			name:   "garbage",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			status: fiber.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Basic "+pair.Access) },
			status: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.body != "" {
				assert.Equal(t, tt.body, string(body))
			} else {
				assert.Contains(t, string(body), `"code":"UNAUTHENTICATED"`)
			}
		})
	}
}

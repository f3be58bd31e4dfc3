package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("tok", "/health"))
	app.Use(UserContextMiddleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/whoami", func(c *fiber.Ctx) error { return c.SendString(UserID(c)) })
	app.Get("/private", RequireUser(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	return app
}

func call(t *testing.T, app *fiber.App, path string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGatewayAuthMiddleware(t *testing.T) {
	app := newApp()
	assert.Equal(t, http.StatusOK, call(t, app, "/health", nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/whoami", map[string]string{"Authorization": "Bearer nope"}))
	assert.Equal(t, http.StatusOK, call(t, app, "/whoami", map[string]string{"Authorization": "Bearer tok"}))
	assert.Equal(t, http.StatusOK, call(t, app, "/whoami", map[string]string{"Authorization": "tok"}))
}

func TestRequireUser(t *testing.T) {
	app := newApp()
	auth := map[string]string{"Authorization": "Bearer tok"}
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/private", auth))

	auth["X-User-ID"] = "u1"
	assert.Equal(t, http.StatusNoContent, call(t, app, "/private", auth))
}

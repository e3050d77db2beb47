package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newRBACApp(inject fiber.Handler, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{}
	if inject != nil {
		handlers = append(handlers, inject)
	}
	handlers = append(handlers, guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", handlers...)
	return app
}

func injectIdentity(id uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		c.Locals("user_role", role)
		return c.Next()
	}
}

func TestRequireAuthenticated(t *testing.T) {
	app := newRBACApp(nil, RequireAuthenticated())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	app = newRBACApp(injectIdentity(1, "user"), RequireAuthenticated())
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	app := newRBACApp(nil, RequireRole("admin"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	app := newRBACApp(injectIdentity(7, "user"), RequireRole("admin"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	app := newRBACApp(injectIdentity(7, "ADMIN"), RequireRole("admin"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

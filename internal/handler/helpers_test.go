package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

func discardLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// asAdmin simulates the JWT middleware for an admin session.
func asAdmin(id uint, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		c.Locals("user_role", "admin")
		c.Locals("user_name", name)
		c.Locals("user_email", name+"@example.com")
		return c.Next()
	}
}

// asUser simulates the JWT middleware for a regular session.
func asUser(id uint, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		c.Locals("user_role", "user")
		c.Locals("user_name", name)
		c.Locals("user_email", name+"@example.com")
		return c.Next()
	}
}

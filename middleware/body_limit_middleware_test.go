package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/upload", WithBodyLimit(10), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	t.Run("запрос в пределах лимита проходит", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/upload", strings.NewReader("small"))
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("запрос сверх лимита отклоняется", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/upload", strings.NewReader("definitely too large"))
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("запрос без тела проходит", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/upload", nil)
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

package middleware

import (
	"fmt"
	"strconv"

	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit ограничивает размер тела запроса на отдельном маршруте,
// не трогая общий лимит приложения
func WithBodyLimit(limit int64) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		contentLength := ctx.Get(fiber.HeaderContentLength)
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return ctx.Status(fiber.StatusRequestEntityTooLarge).
					JSON(apimodels.NewError(fmt.Sprintf("размер запроса превышает допустимые %d байт", limit)))
			}
		}
		return ctx.Next()
	}
}

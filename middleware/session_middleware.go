package middleware

import (
	"estate-finance-backend/db"
	orgusersstore "estate-finance-backend/lib/organization/users/store"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// SessionVersionCheck отклоняет токены, выданные до смены версии сессии
// (logout со всех устройств, смена пароля)
func SessionVersionCheck() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return ctx.Next()
		}
		user, err := orgusersstore.NewInstance(db.DB).GetByID(userID)
		if err != nil {
			log.WithField("user_id", userID).WithError(err).Error("ошибка проверки версии сессии")
			return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("ошибка проверки сессии"))
		}
		if user == nil || !user.IsActive || user.SessionVersion != getSessionVersion(ctx) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("сессия недействительна"))
		}
		return ctx.Next()
	}
}

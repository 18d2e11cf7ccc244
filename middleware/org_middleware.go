package middleware

import (
	authutils "estate-finance-backend/lib/utils/auth-utils"
	"estate-finance-backend/models"

	"github.com/gofiber/fiber/v2"
)

func GetUserOrganization(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if org, exist := claims["org"]; exist {
		return org.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func getSessionVersion(ctx *fiber.Ctx) int {
	claims := authutils.GetClaims(ctx)
	if sv, exist := claims["sv"]; exist {
		if value, ok := sv.(float64); ok {
			return int(value)
		}
	}
	return -1
}

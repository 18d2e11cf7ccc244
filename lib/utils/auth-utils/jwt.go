package authutils

import (
	"crypto/md5"
	"encoding/hex"
	"estate-finance-backend/config"
	"estate-finance-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GetToken выдаёт access-токен. В loginAt фиксируется момент входа,
// после config.Auth.SessionMaxAgeInSec продление по refresh-токену не работает
func GetToken(userID, name, organizationID string, role models.UserRole, sessionVersion int, loginAt time.Time) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name":     name,
		"sub":      userID,
		"org":      organizationID,
		"role":     string(role),
		"sv":       sessionVersion,
		"login_at": loginAt.Unix(),
		"exp":      time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetRefreshToken(userID string, sessionVersion int, loginAt time.Time) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"sv":       sessionVersion,
		"login_at": loginAt.Unix(),
		"exp":      time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return token.Claims.(jwt.MapClaims), nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	return token.Claims.(jwt.MapClaims)
}

func GetMD5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

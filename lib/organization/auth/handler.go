package authhandler

import (
	"estate-finance-backend/config"
	"estate-finance-backend/db"
	orgusersstore "estate-finance-backend/lib/organization/users/store"
	authutils "estate-finance-backend/lib/utils/auth-utils"
	"estate-finance-backend/models"
	authapimodels "estate-finance-backend/models/api/auth"
	"time"

	"github.com/pkg/errors"
)

type Provider interface {
	Login(data authapimodels.LoginData) (resp authapimodels.LoginResponse, err error)
	Refresh(refreshToken string) (resp authapimodels.LoginResponse, err error)
	Logout(userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: orgusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore orgusersstore.Provider
}

func (i impl) Login(data authapimodels.LoginData) (authapimodels.LoginResponse, error) {
	resp := authapimodels.LoginResponse{}
	user, err := i.usersStore.FindByEmail(data.Email)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка поиска пользователя")
	}
	if user == nil || !user.IsActive || user.Password != authutils.GetMD5Hash(data.Password) {
		return resp, errors.Wrap(models.ErrForbidden, "неверный email или пароль")
	}
	now := time.Now()
	updMap := map[string]interface{}{
		"last_login": now,
	}
	err = i.usersStore.Update(user.ID, updMap)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка обновления пользователя")
	}
	return i.issueTokens(user.ID, user.GetFullName(), user.OrganizationID, user.Role, user.SessionVersion, now)
}

// Refresh продлевает сессию по refresh-токену. Продление не работает,
// когда с момента входа прошло больше Auth.SessionMaxAgeInSec
func (i impl) Refresh(refreshToken string) (authapimodels.LoginResponse, error) {
	resp := authapimodels.LoginResponse{}
	claims, err := authutils.ParseToken(refreshToken)
	if err != nil {
		return resp, errors.Wrap(models.ErrForbidden, "токен недействителен")
	}
	userID, _ := claims["sub"].(string)
	loginAtUnix, _ := claims["login_at"].(float64)
	sv, _ := claims["sv"].(float64)

	loginAt := time.Unix(int64(loginAtUnix), 0)
	maxAge := time.Second * time.Duration(config.Conf.Auth.SessionMaxAgeInSec)
	if time.Since(loginAt) > maxAge {
		return resp, errors.Wrap(models.ErrForbidden, "срок сессии истёк, требуется повторный вход")
	}

	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка получения пользователя")
	}
	if user == nil || !user.IsActive || user.SessionVersion != int(sv) {
		return resp, errors.Wrap(models.ErrForbidden, "сессия недействительна")
	}
	return i.issueTokens(user.ID, user.GetFullName(), user.OrganizationID, user.Role, user.SessionVersion, loginAt)
}

// Logout инвалидирует все выданные токены пользователя
func (i impl) Logout(userID string) error {
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения пользователя")
	}
	if user == nil {
		return errors.Wrapf(models.ErrNotFound, "пользователь %v не найден", userID)
	}
	updMap := map[string]interface{}{
		"session_version": user.SessionVersion + 1,
	}
	err = i.usersStore.Update(userID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления пользователя")
	}
	return nil
}

func (i impl) issueTokens(userID, name, organizationID string, role models.UserRole, sessionVersion int, loginAt time.Time) (authapimodels.LoginResponse, error) {
	resp := authapimodels.LoginResponse{}
	accessToken, err := authutils.GetToken(userID, name, organizationID, role, sessionVersion, loginAt)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка формирования токена")
	}
	refreshToken, err := authutils.GetRefreshToken(userID, sessionVersion, loginAt)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка формирования refresh-токена")
	}
	resp.AccessToken = accessToken
	resp.RefreshToken = refreshToken
	return resp, nil
}

package notifyhandler

import (
	"estate-finance-backend/db"
	orgusersstore "estate-finance-backend/lib/organization/users/store"
	"estate-finance-backend/lib/smtp"
	"estate-finance-backend/models"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Notify(userID string, code models.NotifyCode, args ...interface{})
}

var Instance Provider

func NewHandler(sender string) {
	Instance = impl{
		usersStore: orgusersstore.NewInstance(db.DB),
		sender:     sender,
	}
}

type impl struct {
	usersStore orgusersstore.Provider
	sender     string
}

func (i impl) getLogger(userID string, code models.NotifyCode) *log.Entry {
	logger := log.
		WithField("user_id", userID).
		WithField("event_code", string(code))
	return logger
}

// Notify отправляет уведомление по событию.
// Ошибки доставки только логируются - уведомление не влияет на исход операции
func (i impl) Notify(userID string, code models.NotifyCode, args ...interface{}) {
	logger := i.getLogger(userID, code)
	tpl, ok := models.NotifyCodeMap[code]
	if !ok {
		logger.Error("шаблон уведомления по событию не найден")
		return
	}
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	if !user.NotifyEnabled {
		return
	}
	msg := fmt.Sprintf(tpl.Msg, args...)
	err = smtp.Instance.SendEMail(i.sender, user.Email, msg, tpl.Title)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления")
	}
}

package dbmodels

import (
	"estate-finance-backend/models"
	"fmt"
	"time"
)

type Organization struct {
	BaseModel
	Name     string                  `gorm:"type:varchar(255)"`
	Type     models.OrganizationType `gorm:"type:varchar(20)"`
	Inn      string                  `gorm:"type:varchar(12)"`
	Address  string                  `gorm:"type:varchar(500)"`
	IsActive bool
}

type OrganizationUser struct {
	BaseModel
	OrganizationID string          `gorm:"type:varchar(36);index"`
	Organization   *Organization   `gorm:"foreignKey:OrganizationID"`
	Password       string          `gorm:"type:varchar(128)"`
	FirstName      string          `gorm:"type:varchar(150)"`
	LastName       string          `gorm:"type:varchar(150)"`
	Email          string          `gorm:"type:varchar(255);index"`
	PhoneNumber    string          `gorm:"type:varchar(15)"`
	Role           models.UserRole `gorm:"type:varchar(50)"`
	IsActive       bool
	NotifyEnabled  bool
	// версия сессии, инкремент инвалидирует все выданные токены
	SessionVersion int
	LastLogin      time.Time
}

func (u OrganizationUser) GetFullName() string {
	return fmt.Sprintf("%v %v", u.FirstName, u.LastName)
}

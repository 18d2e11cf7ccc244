package dbmodels

import (
	"estate-finance-backend/models"
)

type Application struct {
	BaseModel
	BuyerID      string            `gorm:"type:varchar(36);index"`
	Buyer        *OrganizationUser `gorm:"foreignKey:BuyerID"`
	DeveloperID  string            `gorm:"type:varchar(36)"`
	Developer    *Organization     `gorm:"foreignKey:DeveloperID"`
	PropertyName string            `gorm:"type:varchar(255)"`
	PropertyCost float64
	PurchaseType models.PurchaseType `gorm:"type:varchar(20)"`
	// значение всегда из канонического списка этапов своего типа покупки,
	// пишется только координатором жизненного цикла
	CurrentStage    models.ApplicationStage `gorm:"type:varchar(50)"`
	Declined        bool
	DeclineReasonID *string        `gorm:"type:varchar(36)"`
	DeclineReason   *DeclineReason `gorm:"foreignKey:DeclineReasonID"`
	DeclineComment  string
}

package dbmodels

import (
	"estate-finance-backend/models"
	"time"
)

type ConditionPrecedent struct {
	BaseModel
	ApplicationID string                          `gorm:"type:varchar(36);index"`
	Application   *Application                    `gorm:"foreignKey:ApplicationID"`
	Name          string                          `gorm:"type:varchar(255)"`
	Status        models.ConditionPrecedentStatus `gorm:"type:varchar(20)"`
	CompletedAt   *time.Time
}

type LoanOffer struct {
	BaseModel
	ApplicationID        string       `gorm:"type:varchar(36);index"`
	Application          *Application `gorm:"foreignKey:ApplicationID"`
	ConditionPrecedentID string       `gorm:"type:varchar(36)"`
	LenderID             string       `gorm:"type:varchar(36)"`
	Amount               float64
	InterestRate         float64
	TermMonths           int
	Status               models.LoanOfferStatus `gorm:"type:varchar(20)"`
	GeneratedAt          time.Time
}

package dbmodels

import (
	"estate-finance-backend/models"
	"time"
)

// Dip - предварительное решение банка (Decision In Principle)
type Dip struct {
	BaseModel
	ApplicationID string       `gorm:"type:varchar(36);index"`
	Application   *Application `gorm:"foreignKey:ApplicationID"`
	LenderID      string       `gorm:"type:varchar(36)"`
	Amount        float64
	Status        models.DipStatus `gorm:"type:varchar(30)"`
	GeneratedAt   time.Time
	PaidAt        *time.Time
}

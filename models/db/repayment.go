package dbmodels

import (
	"estate-finance-backend/models"
	"time"
)

type LoanRepayment struct {
	BaseModel
	ApplicationID string       `gorm:"type:varchar(36);index"`
	Application   *Application `gorm:"foreignKey:ApplicationID"`
	LoanOfferID   string       `gorm:"type:varchar(36);index"`
	LoanOffer     *LoanOffer   `gorm:"foreignKey:LoanOfferID"`
	Seq           int
	Amount        float64
	DueDate       time.Time
	Status        models.RepaymentStatus `gorm:"type:varchar(20)"`
	PaidAt        *time.Time
}

package dbmodels

import (
	"estate-finance-backend/models"
)

// Конфигурация цепочек согласования.
// Строки создаются сидом/настройкой и не редактируются по месту:
// изменение порядка - это disable старой связки и вставка новой,
// чтобы не ломать запросы, запущенные по старому снимку

type ReviewRequestType struct {
	BaseModel
	Kind        models.ReviewKind `gorm:"type:varchar(100);uniqueIndex"`
	Description string            `gorm:"type:varchar(500)"`
}

type ReviewRequestStage struct {
	BaseModel
	Name        models.ReviewStageName `gorm:"type:varchar(100);uniqueIndex"`
	Description string                 `gorm:"type:varchar(500)"`
}

type ReviewRequestTypeStage struct {
	BaseModel
	TypeID     string              `gorm:"type:varchar(36);index"`
	Type       *ReviewRequestType  `gorm:"foreignKey:TypeID"`
	StageID    string              `gorm:"type:varchar(36)"`
	Stage      *ReviewRequestStage `gorm:"foreignKey:StageID"`
	StageOrder int
	Enabled    bool
	Policy     models.ApprovalPolicy        `gorm:"type:varchar(20)"`
	Approvers  []ReviewRequestStageApprover `gorm:"foreignKey:TypeStageID"`
}

type ReviewRequestStageApprover struct {
	BaseModel
	TypeStageID string          `gorm:"type:varchar(36);index"`
	Role        models.UserRole `gorm:"type:varchar(50)"`
}

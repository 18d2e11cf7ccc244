package dbmodels

import (
	"estate-finance-backend/models"
	"time"
)

type ReviewRequest struct {
	BaseModel
	TypeID         string              `gorm:"type:varchar(36);index"`
	Type           *ReviewRequestType  `gorm:"foreignKey:TypeID"`
	SubjectID      string              `gorm:"type:varchar(36);index"`
	InitiatorID    string              `gorm:"type:varchar(36)"`
	Initiator      *OrganizationUser   `gorm:"foreignKey:InitiatorID"`
	CandidateName  string              `gorm:"type:varchar(255)"`
	Status         models.ReviewStatus `gorm:"type:varchar(20)"`
	SubmissionDate time.Time
	Approvals      []ReviewRequestApproval `gorm:"foreignKey:RequestID"`
}

type ReviewRequestApproval struct {
	BaseModel
	RequestID      string                  `gorm:"type:varchar(36);index"`
	TypeStageID    string                  `gorm:"type:varchar(36)"`
	TypeStage      *ReviewRequestTypeStage `gorm:"foreignKey:TypeStageID"`
	OrganizationID string                  `gorm:"type:varchar(36)"`
	Organization   *Organization           `gorm:"foreignKey:OrganizationID"`
	ApprovalID     string                  `gorm:"type:varchar(36)"`
	ApprovalBy     *OrganizationUser       `gorm:"foreignKey:ApprovalID"`
	Role           models.UserRole         `gorm:"type:varchar(50)"`
	Status         models.ReviewStatus     `gorm:"type:varchar(20)"`
	ApprovalDate   *time.Time
	Comments       string
	// решение, замещённое при повторном запуске согласования, в расчёте этапа не участвует
	Superseded bool
}

// ReviewRequestStageInstance - этап, зафиксированный за запросом при создании.
// Последовательность этапов запроса не пересчитывается при изменении
// конфигурации каталога
type ReviewRequestStageInstance struct {
	BaseModel
	RequestID   string                  `gorm:"type:varchar(36);index"`
	TypeStageID string                  `gorm:"type:varchar(36)"`
	TypeStage   *ReviewRequestTypeStage `gorm:"foreignKey:TypeStageID"`
	StageOrder  int
	Policy      models.ApprovalPolicy `gorm:"type:varchar(20)"`
}

type ReviewApprovalHistory struct {
	BaseModel
	RequestID      string              `gorm:"type:varchar(36);index"`
	ApprovalRecID  string              `gorm:"type:varchar(36)"`
	OrganizationID string              `gorm:"type:varchar(36)"`
	ApprovalID     string              `gorm:"type:varchar(36)"`
	Status         models.ReviewStatus `gorm:"type:varchar(20)"`
	Comment        string
	Changes        EntityChanges `gorm:"type:jsonb"`
}

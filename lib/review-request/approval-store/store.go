package reviewapprovalstore

import (
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ReviewRequestApproval) (id string, err error)
	ListEffectiveByRequest(requestID string) (list []dbmodels.ReviewRequestApproval, err error)
	SupersedeByRequest(requestID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ReviewRequestApproval) (id string, err error) {
	err = i.db.
		Omit("TypeStage", "Organization", "ApprovalBy").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ListEffectiveByRequest возвращает действующие решения по запросу,
// замещённые при перезапуске согласования не учитываются
func (i impl) ListEffectiveByRequest(requestID string) (list []dbmodels.ReviewRequestApproval, err error) {
	list = []dbmodels.ReviewRequestApproval{}
	err = i.db.
		Where("request_id = ?", requestID).
		Where("superseded = ?", false).
		Order("created_at ASC").
		Preload("TypeStage").
		Preload("TypeStage.Stage").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// SupersedeByRequest помечает решения замещёнными при повторной подаче.
// Физически строки не удаляются - это след аудита
func (i impl) SupersedeByRequest(requestID string) error {
	err := i.db.
		Model(&dbmodels.ReviewRequestApproval{}).
		Where("request_id = ?", requestID).
		Update("superseded", true).
		Error
	if err != nil {
		return err
	}
	return nil
}

package reviewstagestore

import (
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	CreateBatch(list []dbmodels.ReviewRequestStageInstance) error
	ListByRequest(requestID string) (list []dbmodels.ReviewRequestStageInstance, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(list []dbmodels.ReviewRequestStageInstance) error {
	if len(list) == 0 {
		return nil
	}
	err := i.db.
		Omit("TypeStage").
		Create(&list).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.ReviewRequestStageInstance, err error) {
	list = []dbmodels.ReviewRequestStageInstance{}
	err = i.db.
		Where("request_id = ?", requestID).
		Order("stage_order ASC").
		Preload("TypeStage").
		Preload("TypeStage.Stage").
		Preload("TypeStage.Approvers").
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

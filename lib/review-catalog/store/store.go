package reviewcatalogstore

import (
	dbmodels "estate-finance-backend/models/db"

	"estate-finance-backend/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetTypeByKind(kind models.ReviewKind) (rec *dbmodels.ReviewRequestType, err error)
	GetStageByName(name models.ReviewStageName) (rec *dbmodels.ReviewRequestStage, err error)
	ListEnabledByType(typeID string) (list []dbmodels.ReviewRequestTypeStage, err error)
	CreateType(rec dbmodels.ReviewRequestType) (id string, err error)
	CreateStage(rec dbmodels.ReviewRequestStage) (id string, err error)
	CreateTypeStage(rec dbmodels.ReviewRequestTypeStage) (id string, err error)
	CreateApprover(rec dbmodels.ReviewRequestStageApprover) (id string, err error)
	Disable(typeStageID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetTypeByKind(kind models.ReviewKind) (*dbmodels.ReviewRequestType, error) {
	rec := dbmodels.ReviewRequestType{}
	err := i.db.
		Where("kind = ?", kind).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetStageByName(name models.ReviewStageName) (*dbmodels.ReviewRequestStage, error) {
	rec := dbmodels.ReviewRequestStage{}
	err := i.db.
		Where("name = ?", name).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListEnabledByType(typeID string) (list []dbmodels.ReviewRequestTypeStage, err error) {
	list = []dbmodels.ReviewRequestTypeStage{}
	err = i.db.
		Where("type_id = ?", typeID).
		Where("enabled = ?", true).
		Order("stage_order ASC").
		Preload("Stage").
		Preload("Approvers").
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

func (i impl) CreateType(rec dbmodels.ReviewRequestType) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreateStage(rec dbmodels.ReviewRequestStage) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreateTypeStage(rec dbmodels.ReviewRequestTypeStage) (id string, err error) {
	err = i.db.
		Omit("Type", "Stage", "Approvers").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreateApprover(rec dbmodels.ReviewRequestStageApprover) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Disable выключает связку тип-этап. Порядок существующих строк не
// правится по месту: при перенастройке строка выключается и создаётся новая
func (i impl) Disable(typeStageID string) error {
	err := i.db.
		Model(&dbmodels.ReviewRequestTypeStage{}).
		Where("id = ?", typeStageID).
		Update("enabled", false).
		Error
	if err != nil {
		return err
	}
	return nil
}

package cpstore

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ConditionPrecedent) (id string, err error)
	GetByID(id string) (rec *dbmodels.ConditionPrecedent, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByApplication(applicationID string) (list []dbmodels.ConditionPrecedent, err error)
	ListCompleted(limit int) (list []dbmodels.ConditionPrecedent, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ConditionPrecedent) (id string, err error) {
	err = i.db.
		Omit("Application").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ConditionPrecedent, error) {
	rec := dbmodels.ConditionPrecedent{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ConditionPrecedent{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByApplication(applicationID string) (list []dbmodels.ConditionPrecedent, err error) {
	list = []dbmodels.ConditionPrecedent{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
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

func (i impl) ListCompleted(limit int) (list []dbmodels.ConditionPrecedent, err error) {
	list = []dbmodels.ConditionPrecedent{}
	err = i.db.
		Where("status = ?", models.CpStatusCompleted).
		Order("completed_at ASC").
		Limit(limit).
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

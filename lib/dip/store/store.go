package dipstore

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Dip) (id string, err error)
	GetByApplication(applicationID string) (rec *dbmodels.Dip, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByStatus(status models.DipStatus, limit int) (list []dbmodels.Dip, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Dip) (id string, err error) {
	err = i.db.
		Omit("Application").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByApplication(applicationID string) (*dbmodels.Dip, error) {
	rec := dbmodels.Dip{}
	err := i.db.
		Where("application_id = ?", applicationID).
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
		Model(&dbmodels.Dip{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByStatus(status models.DipStatus, limit int) (list []dbmodels.Dip, err error) {
	list = []dbmodels.Dip{}
	err = i.db.
		Where("status = ?", status).
		Order("created_at ASC").
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

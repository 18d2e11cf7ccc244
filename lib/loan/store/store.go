package loanstore

import (
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LoanOffer) (id string, err error)
	GetByApplication(applicationID string) (rec *dbmodels.LoanOffer, err error)
	GetByConditionPrecedent(cpID string) (rec *dbmodels.LoanOffer, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LoanOffer) (id string, err error) {
	err = i.db.
		Omit("Application").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByApplication(applicationID string) (*dbmodels.LoanOffer, error) {
	rec := dbmodels.LoanOffer{}
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

func (i impl) GetByConditionPrecedent(cpID string) (*dbmodels.LoanOffer, error) {
	rec := dbmodels.LoanOffer{}
	err := i.db.
		Where("condition_precedent_id = ?", cpID).
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
		Model(&dbmodels.LoanOffer{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

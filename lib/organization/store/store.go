package organizationstore

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Organization) (id string, err error)
	GetByID(id string) (rec *dbmodels.Organization, err error)
	FindByType(orgType models.OrganizationType) (rec *dbmodels.Organization, err error)
	List() (list []dbmodels.Organization, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Organization) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Organization, error) {
	rec := dbmodels.Organization{}
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

func (i impl) FindByType(orgType models.OrganizationType) (*dbmodels.Organization, error) {
	rec := dbmodels.Organization{}
	err := i.db.
		Where("type = ?", orgType).
		Where("is_active = ?", true).
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

func (i impl) List() (list []dbmodels.Organization, err error) {
	list = []dbmodels.Organization{}
	err = i.db.
		Where("is_active = ?", true).
		Order("name ASC").
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

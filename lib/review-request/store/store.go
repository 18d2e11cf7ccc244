package reviewrequeststore

import (
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ReviewRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ReviewRequest, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.ReviewRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	ListBySubject(subjectID string) (list []dbmodels.ReviewRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ReviewRequest) (id string, err error) {
	err = i.db.
		Omit("Type", "Initiator", "Approvals").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ReviewRequest, error) {
	rec := dbmodels.ReviewRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("Type").
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

// GetByIDForUpdate блокирует строку запроса до конца транзакции,
// чтобы параллельные решения по одному запросу сериализовались
func (i impl) GetByIDForUpdate(id string) (*dbmodels.ReviewRequest, error) {
	rec := dbmodels.ReviewRequest{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Preload("Type").
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
		Model(&dbmodels.ReviewRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListBySubject(subjectID string) (list []dbmodels.ReviewRequest, err error) {
	list = []dbmodels.ReviewRequest{}
	err = i.db.
		Where("subject_id = ?", subjectID).
		Order("created_at ASC").
		Preload("Type").
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

package repaymentstore

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LoanRepayment) (id string, err error)
	GetByID(id string) (rec *dbmodels.LoanRepayment, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByApplication(applicationID string) (list []dbmodels.LoanRepayment, err error)
	ListToStatus(status models.RepaymentStatus, dueBefore time.Time, limit int) (list []dbmodels.LoanRepayment, err error)
	CountUnpaid(applicationID string) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LoanRepayment) (id string, err error) {
	err = i.db.
		Omit("Application", "LoanOffer").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.LoanRepayment, error) {
	rec := dbmodels.LoanRepayment{}
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
		Model(&dbmodels.LoanRepayment{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByApplication(applicationID string) (list []dbmodels.LoanRepayment, err error) {
	list = []dbmodels.LoanRepayment{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("seq ASC").
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

// ListToStatus выбирает платежи в указанном статусе с датой раньше dueBefore
// для перевода фоновой задачей в следующий статус
func (i impl) ListToStatus(status models.RepaymentStatus, dueBefore time.Time, limit int) (list []dbmodels.LoanRepayment, err error) {
	list = []dbmodels.LoanRepayment{}
	err = i.db.
		Where("status = ?", status).
		Where("due_date < ?", dueBefore).
		Order("due_date ASC").
		Limit(limit).
		Preload("Application").
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

func (i impl) CountUnpaid(applicationID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.LoanRepayment{}).
		Where("application_id = ?", applicationID).
		Where("status <> ?", models.RepaymentStatusPaid).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

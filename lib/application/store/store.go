package applicationstore

import (
	"estate-finance-backend/models"
	applicationapimodels "estate-finance-backend/models/api/application"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	GetByID(id string) (rec *dbmodels.Application, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.Application, err error)
	Update(id string, updMap map[string]interface{}) error
	List(buyerID string, filter applicationapimodels.AppFilter) (list []dbmodels.Application, err error)
	ListCount(buyerID string, filter applicationapimodels.AppFilter) (count int64, err error)
	ListByStage(purchaseType models.PurchaseType, stage models.ApplicationStage, limit int) (list []dbmodels.Application, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	err = i.db.
		Omit("Buyer", "Developer", "DeclineReason").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Where("id = ?", id).
		Preload("DeclineReason").
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

func (i impl) GetByIDForUpdate(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
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
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) listQuery(buyerID string, filter applicationapimodels.AppFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("buyer_id = ?", buyerID)
	if filter.PurchaseType != "" {
		tx = tx.Where("purchase_type = ?", filter.PurchaseType)
	}
	if filter.Stage != "" {
		tx = tx.Where("current_stage = ?", filter.Stage)
	}
	return tx
}

func (i impl) List(buyerID string, filter applicationapimodels.AppFilter) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(buyerID, filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("DeclineReason").
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

func (i impl) ListCount(buyerID string, filter applicationapimodels.AppFilter) (count int64, err error) {
	err = i.listQuery(buyerID, filter).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListByStage используется фоновыми задачами: выбирает ограниченную пачку
// заявок нужного типа на нужном этапе
func (i impl) ListByStage(purchaseType models.PurchaseType, stage models.ApplicationStage, limit int) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("purchase_type = ?", purchaseType).
		Where("current_stage = ?", stage).
		Where("declined = ?", false).
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

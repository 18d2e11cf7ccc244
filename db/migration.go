package db

import (
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Organization{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Organization")
	}
	if err := DB.AutoMigrate(&dbmodels.OrganizationUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры OrganizationUser")
	}
	if err := DB.AutoMigrate(&dbmodels.DeclineReason{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры DeclineReason")
	}
	if err := DB.AutoMigrate(&dbmodels.Application{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Application")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Document")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestType{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestType")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestStage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestStage")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestTypeStage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestTypeStage")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestStageApprover{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestStageApprover")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestStageInstance{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestStageInstance")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewRequestApproval{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewRequestApproval")
	}
	if err := DB.AutoMigrate(&dbmodels.ReviewApprovalHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReviewApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.Dip{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Dip")
	}
	if err := DB.AutoMigrate(&dbmodels.ConditionPrecedent{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ConditionPrecedent")
	}
	if err := DB.AutoMigrate(&dbmodels.LoanOffer{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LoanOffer")
	}
	if err := DB.AutoMigrate(&dbmodels.LoanRepayment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LoanRepayment")
	}
	log.Info("Миграция прошла успешно")
	return nil
}

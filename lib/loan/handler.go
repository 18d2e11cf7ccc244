package loanhandler

import (
	"estate-finance-backend/db"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	applicationstore "estate-finance-backend/lib/application/store"
	cpstore "estate-finance-backend/lib/loan/cp-store"
	loanstore "estate-finance-backend/lib/loan/store"
	notifyhandler "estate-finance-backend/lib/notify"
	reviewrequesthandler "estate-finance-backend/lib/review-request"
	"estate-finance-backend/models"
	reviewapimodels "estate-finance-backend/models/api/review"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	CreateConditionPrecedent(applicationID, createdBy, name string) (cpID string, err error)
	ListConditionPrecedents(applicationID string) (list []dbmodels.ConditionPrecedent, err error)
	CompleteConditionPrecedent(cpID string) error
	GetOffer(applicationID string) (rec *dbmodels.LoanOffer, err error)
	AcceptOffer(applicationID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		appStore:      applicationstore.NewInstance(db.DB),
		cpStore:       cpstore.NewInstance(db.DB),
		loanStore:     loanstore.NewInstance(db.DB),
		reviewHandler: reviewrequesthandler.Instance,
		lifecycle:     applicationlifecycle.Instance,
		notify:        notifyhandler.Instance,
	}
}

type impl struct {
	appStore      applicationstore.Provider
	cpStore       cpstore.Provider
	loanStore     loanstore.Provider
	reviewHandler reviewrequesthandler.Provider
	lifecycle     applicationlifecycle.Provider
	notify        notifyhandler.Provider
}

// CreateConditionPrecedent заводит отлагательное условие и сразу подаёт его
// на согласование
func (i impl) CreateConditionPrecedent(applicationID, createdBy, name string) (string, error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if app == nil {
		return "", errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	if app.PurchaseType != models.PurchaseTypeMortgage {
		return "", errors.Wrapf(models.ErrInvalidState, "отлагательные условия недоступны для типа покупки %v", app.PurchaseType)
	}
	rec := dbmodels.ConditionPrecedent{
		ApplicationID: applicationID,
		Name:          name,
		Status:        models.CpStatusPending,
	}
	cpID, err := i.cpStore.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания отлагательного условия")
	}
	_, err = i.reviewHandler.Start(createdBy, reviewapimodels.ReviewStartData{
		Kind:          models.ReviewKindConditionPrecedent,
		SubjectID:     cpID,
		CandidateName: name,
	})
	if err != nil {
		return "", err
	}
	return cpID, nil
}

func (i impl) ListConditionPrecedents(applicationID string) ([]dbmodels.ConditionPrecedent, error) {
	list, err := i.cpStore.ListByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения отлагательных условий")
	}
	return list, nil
}

// CompleteConditionPrecedent закрывает условие внешним событием без согласования
func (i impl) CompleteConditionPrecedent(cpID string) error {
	outcome, err := i.lifecycle.OnConditionPrecedentCompleted(cpID)
	if err != nil {
		return err
	}
	if outcome.Advanced {
		i.notify.Notify(outcome.BuyerID, models.NotifyApplicationAdvanced, outcome.NewStage.ToHuman())
	}
	return nil
}

func (i impl) GetOffer(applicationID string) (*dbmodels.LoanOffer, error) {
	rec, err := i.loanStore.GetByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения кредитного предложения")
	}
	if rec == nil {
		return nil, errors.Wrapf(models.ErrNotFound, "кредитное предложение по заявке %v не найдено", applicationID)
	}
	return rec, nil
}

// AcceptOffer - принятие кредитного предложения покупателем
func (i impl) AcceptOffer(applicationID string) error {
	rec, err := i.GetOffer(applicationID)
	if err != nil {
		return err
	}
	if rec.Status == models.LoanOfferStatusAccepted {
		return errors.Wrapf(models.ErrConflict, "кредитное предложение уже принято")
	}
	err = i.loanStore.Update(rec.ID, map[string]interface{}{"status": models.LoanOfferStatusAccepted})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления кредитного предложения")
	}
	outcome, err := i.lifecycle.OnLoanOfferAccepted(applicationID)
	if err != nil {
		return err
	}
	if outcome.Advanced {
		i.notify.Notify(outcome.BuyerID, models.NotifyApplicationAdvanced, outcome.NewStage.ToHuman())
	}
	return nil
}

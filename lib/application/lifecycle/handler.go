package applicationlifecycle

import (
	"estate-finance-backend/db"
	applicationstages "estate-finance-backend/lib/application-stages"
	applicationstore "estate-finance-backend/lib/application/store"
	dipstore "estate-finance-backend/lib/dip/store"
	cpstore "estate-finance-backend/lib/loan/cp-store"
	repaymentstore "estate-finance-backend/lib/repayment/store"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReviewOutcome - результат обработки события жизненного цикла,
// по нему вызывающий код отправляет уведомления после коммита
type ReviewOutcome struct {
	ApplicationID string
	BuyerID       string
	NewStage      models.ApplicationStage
	Advanced      bool
	Declined      bool
}

type Provider interface {
	OnReviewApproved(kind models.ReviewKind, subjectID string) (outcome ReviewOutcome, err error)
	OnReviewRejected(kind models.ReviewKind, subjectID, comment string) (outcome ReviewOutcome, err error)
	OnPreQualificationCompleted(applicationID string) (outcome ReviewOutcome, err error)
	OnDipPaymentCompleted(applicationID string) (outcome ReviewOutcome, err error)
	OnLoanOfferGenerated(applicationID string) (outcome ReviewOutcome, err error)
	OnLoanOfferAccepted(applicationID string) (outcome ReviewOutcome, err error)
	OnConditionPrecedentCompleted(cpID string) (outcome ReviewOutcome, err error)
	OnRepaymentPaid(applicationID string) (outcome ReviewOutcome, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		appStore:       applicationstore.NewInstance(db.DB),
		dipStore:       dipstore.NewInstance(db.DB),
		cpStore:        cpstore.NewInstance(db.DB),
		repaymentStore: repaymentstore.NewInstance(db.DB),
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
	}
}

// NewHandlerWithTx - координатор в рамках внешней транзакции:
// перевод этапа фиксируется тем же коммитом, что и породившее его событие
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		appStore:       applicationstore.NewInstance(tx),
		dipStore:       dipstore.NewInstance(tx),
		cpStore:        cpstore.NewInstance(tx),
		repaymentStore: repaymentstore.NewInstance(tx),
		runTx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}
}

type impl struct {
	appStore       applicationstore.Provider
	dipStore       dipstore.Provider
	cpStore        cpstore.Provider
	repaymentStore repaymentstore.Provider
	runTx          func(fn func(tx *gorm.DB) error) error
}

// forTx возвращает копию с хранилищами, привязанными к транзакции.
// При nil обработчик уже привязан к нужному соединению
func (i impl) forTx(tx *gorm.DB) impl {
	if tx == nil {
		return i
	}
	return impl{
		appStore:       applicationstore.NewInstance(tx),
		dipStore:       dipstore.NewInstance(tx),
		cpStore:        cpstore.NewInstance(tx),
		repaymentStore: repaymentstore.NewInstance(tx),
	}
}

func (i impl) getLogger(applicationID string) *log.Entry {
	return log.WithField("application_id", applicationID)
}

func (i impl) OnReviewApproved(kind models.ReviewKind, subjectID string) (outcome ReviewOutcome, err error) {
	switch kind {
	case models.ReviewKindOfferLetterOutright, models.ReviewKindOfferLetterInstallment:
		return i.advanceFrom(subjectID, models.AppStageOfferLetter)
	case models.ReviewKindDipDocumentReview:
		return i.advanceFrom(subjectID, models.AppStageUploadDocument)
	case models.ReviewKindConditionPrecedent:
		return i.completeConditionPrecedent(subjectID)
	}
	return outcome, errors.Wrapf(models.ErrInvalidState, "неизвестный тип согласования %v", kind)
}

func (i impl) OnReviewRejected(kind models.ReviewKind, subjectID, comment string) (outcome ReviewOutcome, err error) {
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		applicationID := subjectID
		if kind == models.ReviewKindConditionPrecedent {
			cp, err := h.cpStore.GetByID(subjectID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения отлагательного условия")
			}
			if cp == nil {
				return errors.Wrapf(models.ErrNotFound, "отлагательное условие %v не найдено", subjectID)
			}
			applicationID = cp.ApplicationID
		}
		app, err := h.appStore.GetByIDForUpdate(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if app == nil {
			return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
		}
		outcome = ReviewOutcome{
			ApplicationID: app.ID,
			BuyerID:       app.BuyerID,
			NewStage:      app.CurrentStage,
			Declined:      true,
		}
		updMap := map[string]interface{}{
			"declined":        true,
			"decline_comment": comment,
		}
		return h.appStore.Update(app.ID, updMap)
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (i impl) OnPreQualificationCompleted(applicationID string) (ReviewOutcome, error) {
	return i.advanceFrom(applicationID, models.AppStagePreQualification)
}

func (i impl) OnDipPaymentCompleted(applicationID string) (outcome ReviewOutcome, err error) {
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		app, err := h.appStore.GetByIDForUpdate(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if app == nil {
			return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
		}
		if app.PurchaseType != models.PurchaseTypeMortgage {
			return errors.Wrapf(models.ErrInvalidState, "оплата предварительного решения недоступна для типа покупки %v", app.PurchaseType)
		}
		dip, err := h.dipStore.GetByApplication(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения предварительного решения")
		}
		if dip == nil {
			return errors.Wrapf(models.ErrNotFound, "предварительное решение по заявке %v не найдено", applicationID)
		}
		if dip.Status != models.DipStatusPaymentCompleted {
			now := time.Now()
			updMap := map[string]interface{}{
				"status":  models.DipStatusPaymentCompleted,
				"paid_at": &now,
			}
			err = h.dipStore.Update(dip.ID, updMap)
			if err != nil {
				return errors.Wrap(err, "ошибка обновления предварительного решения")
			}
		}
		outcome, err = h.advanceLocked(app, models.AppStageDecisionInPrinciple)
		return err
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (i impl) OnLoanOfferGenerated(applicationID string) (ReviewOutcome, error) {
	return i.advanceFrom(applicationID, models.AppStageLoanDecision)
}

func (i impl) OnLoanOfferAccepted(applicationID string) (ReviewOutcome, error) {
	return i.advanceFrom(applicationID, models.AppStageLoanOffer)
}

// OnConditionPrecedentCompleted закрывает условие внешним событием
// (без отдельного согласования)
func (i impl) OnConditionPrecedentCompleted(cpID string) (ReviewOutcome, error) {
	return i.completeConditionPrecedent(cpID)
}

func (i impl) OnRepaymentPaid(applicationID string) (outcome ReviewOutcome, err error) {
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		app, err := h.appStore.GetByIDForUpdate(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if app == nil {
			return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
		}
		count, err := h.repaymentStore.CountUnpaid(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка подсчёта неоплаченных платежей")
		}
		if count > 0 {
			outcome = noAdvance(app)
			return nil
		}
		outcome, err = h.advanceLocked(app, models.AppStageRepayment)
		return err
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// completeConditionPrecedent помечает условие выполненным и, когда заявка на
// этапе отлагательных условий и открытых условий не осталось, переводит её дальше.
// Заявку на этапе решения по кредиту подберёт фоновая задача формирования предложения
func (i impl) completeConditionPrecedent(cpID string) (outcome ReviewOutcome, err error) {
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		cp, err := h.cpStore.GetByID(cpID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения отлагательного условия")
		}
		if cp == nil {
			return errors.Wrapf(models.ErrNotFound, "отлагательное условие %v не найдено", cpID)
		}
		app, err := h.appStore.GetByIDForUpdate(cp.ApplicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if app == nil {
			return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", cp.ApplicationID)
		}
		if cp.Status != models.CpStatusCompleted {
			now := time.Now()
			updMap := map[string]interface{}{
				"status":       models.CpStatusCompleted,
				"completed_at": &now,
			}
			err = h.cpStore.Update(cp.ID, updMap)
			if err != nil {
				return errors.Wrap(err, "ошибка обновления отлагательного условия")
			}
		}
		if app.CurrentStage != models.AppStageConditionPrecedent {
			outcome = noAdvance(app)
			return nil
		}
		list, err := h.cpStore.ListByApplication(app.ID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения отлагательных условий")
		}
		for _, rec := range list {
			if rec.ID != cp.ID && rec.Status != models.CpStatusCompleted {
				outcome = noAdvance(app)
				return nil
			}
		}
		outcome, err = h.advanceLocked(app, models.AppStageConditionPrecedent)
		return err
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// advanceFrom переводит заявку на следующий этап, если она стоит на ожидаемом.
// Повторное событие по уже переведённой заявке - не ошибка, перевода просто нет
func (i impl) advanceFrom(applicationID string, expected models.ApplicationStage) (outcome ReviewOutcome, err error) {
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		app, err := h.appStore.GetByIDForUpdate(applicationID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if app == nil {
			return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
		}
		outcome, err = h.advanceLocked(app, expected)
		return err
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (i impl) advanceLocked(app *dbmodels.Application, expected models.ApplicationStage) (ReviewOutcome, error) {
	logger := i.getLogger(app.ID)
	if app.CurrentStage != expected {
		logger.
			WithField("current_stage", app.CurrentStage).
			WithField("expected_stage", expected).
			Warn("заявка не на ожидаемом этапе, перевод не выполнен")
		return noAdvance(app), nil
	}
	next, terminal, err := applicationstages.NextStage(app.PurchaseType, app.CurrentStage)
	if err != nil {
		return noAdvance(app), err
	}
	if terminal {
		return noAdvance(app), nil
	}
	err = i.appStore.Update(app.ID, map[string]interface{}{"current_stage": next})
	if err != nil {
		return noAdvance(app), errors.Wrap(err, "ошибка перевода заявки на следующий этап")
	}
	return ReviewOutcome{
		ApplicationID: app.ID,
		BuyerID:       app.BuyerID,
		NewStage:      next,
		Advanced:      true,
	}, nil
}

func noAdvance(app *dbmodels.Application) ReviewOutcome {
	return ReviewOutcome{
		ApplicationID: app.ID,
		BuyerID:       app.BuyerID,
		NewStage:      app.CurrentStage,
	}
}

package loanworker

import (
	"context"
	"estate-finance-backend/db"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	applicationstore "estate-finance-backend/lib/application/store"
	cpstore "estate-finance-backend/lib/loan/cp-store"
	loanstore "estate-finance-backend/lib/loan/store"
	notifyhandler "estate-finance-backend/lib/notify"
	repaymentstore "estate-finance-backend/lib/repayment/store"
	baseworker "estate-finance-backend/lib/utils/base-worker"
	"estate-finance-backend/lib/utils/helpers"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	batchSize = 100

	// условия предложения по умолчанию до интеграции с банковским скорингом
	defaultInterestRate = 12.5
	defaultTermMonths   = 240
)

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:  *baseworker.NewInstance("LoanGenerationWorker", 30*time.Second, 5*time.Minute),
		cpStore:   cpstore.NewInstance(db.DB),
		loanStore: loanstore.NewInstance(db.DB),
		appStore:  applicationstore.NewInstance(db.DB),
		notify:    notifyhandler.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	cpStore   cpstore.Provider
	loanStore loanstore.Provider
	appStore  applicationstore.Provider
	notify    notifyhandler.Provider
}

// handle формирует кредитные предложения по выполненным отлагательным
// условиям. Условие с уже созданным предложением пропускается, поэтому
// повторный запуск дубликатов не плодит
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.cpStore.ListCompleted(batchSize)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения выполненных отлагательных условий")
		return
	}
	for _, cp := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		cpLogger := logger.
			WithField("condition_precedent_id", cp.ID).
			WithField("application_id", cp.ApplicationID)
		existing, err := i.loanStore.GetByConditionPrecedent(cp.ID)
		if err != nil {
			cpLogger.WithError(err).Error("Ошибка проверки кредитного предложения")
			continue
		}
		if existing != nil {
			continue
		}
		app, err := i.appStore.GetByID(cp.ApplicationID)
		if err != nil {
			cpLogger.WithError(err).Error("Ошибка получения заявки")
			continue
		}
		if app == nil || app.Declined {
			continue
		}
		if app.CurrentStage != models.AppStageLoanDecision {
			continue
		}
		err = i.generateOffer(cp, app)
		if err != nil {
			cpLogger.WithError(err).Error("Ошибка формирования кредитного предложения")
			continue
		}
		i.notify.Notify(app.BuyerID, models.NotifyLoanGenerated)
	}
}

// generateOffer создаёт предложение с графиком платежей и переводит заявку
// на этап кредитного предложения одной транзакцией
func (i impl) generateOffer(cp dbmodels.ConditionPrecedent, app *dbmodels.Application) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		offer := dbmodels.LoanOffer{
			ApplicationID:        app.ID,
			ConditionPrecedentID: cp.ID,
			Amount:               app.PropertyCost,
			InterestRate:         defaultInterestRate,
			TermMonths:           defaultTermMonths,
			Status:               models.LoanOfferStatusGenerated,
			GeneratedAt:          time.Now(),
		}
		offerID, err := loanstore.NewInstance(tx).Create(offer)
		if err != nil {
			return errors.Wrap(err, "ошибка создания кредитного предложения")
		}
		txRepaymentStore := repaymentstore.NewInstance(tx)
		monthly := monthlyPayment(offer.Amount, offer.InterestRate, offer.TermMonths)
		firstDue := time.Now().AddDate(0, 1, 0)
		for seq := 1; seq <= offer.TermMonths; seq++ {
			repayment := dbmodels.LoanRepayment{
				ApplicationID: app.ID,
				LoanOfferID:   offerID,
				Seq:           seq,
				Amount:        monthly,
				DueDate:       firstDue.AddDate(0, seq-1, 0),
				Status:        models.RepaymentStatusPending,
			}
			_, err = txRepaymentStore.Create(repayment)
			if err != nil {
				return errors.Wrap(err, "ошибка создания графика платежей")
			}
		}
		_, err = applicationlifecycle.NewHandlerWithTx(tx).OnLoanOfferGenerated(app.ID)
		return err
	})
}

// аннуитетный платёж
func monthlyPayment(amount, yearRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return amount
	}
	monthRate := yearRate / 100 / 12
	if monthRate == 0 {
		return amount / float64(termMonths)
	}
	factor := 1.0
	for m := 0; m < termMonths; m++ {
		factor *= 1 + monthRate
	}
	return amount * monthRate * factor / (factor - 1)
}

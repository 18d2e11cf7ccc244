package repaymentworker

import (
	"context"
	"estate-finance-backend/db"
	notifyhandler "estate-finance-backend/lib/notify"
	repaymentstore "estate-finance-backend/lib/repayment/store"
	baseworker "estate-finance-backend/lib/utils/base-worker"
	"estate-finance-backend/lib/utils/helpers"
	"estate-finance-backend/models"
	"time"
)

const batchSize = 500

// просрочка наступает спустя льготный период после срока платежа
const graceDays = 5

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:       *baseworker.NewInstance("RepaymentStatusWorker", 15*time.Second, 60*time.Minute),
		repaymentStore: repaymentstore.NewInstance(db.DB),
		notify:         notifyhandler.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	repaymentStore repaymentstore.Provider
	notify         notifyhandler.Provider
}

func (i impl) handle(ctx context.Context) {
	// платежи, по которым наступил срок
	i.updateStatuses(ctx, time.Now(), models.RepaymentStatusPending, models.RepaymentStatusDue, models.NotifyRepaymentDue)

	// платежи, просроченные сверх льготного периода
	overdueDate := time.Now().Add(-time.Hour * 24 * graceDays)
	i.updateStatuses(ctx, overdueDate, models.RepaymentStatusDue, models.RepaymentStatusOverdue, models.NotifyRepaymentOverdue)
}

func (i impl) updateStatuses(ctx context.Context, dueBefore time.Time, currentStatus, newStatus models.RepaymentStatus, code models.NotifyCode) {
	logger := i.GetLogger()
	list, err := i.repaymentStore.ListToStatus(currentStatus, dueBefore, batchSize)
	if err != nil {
		logger.WithError(err).Errorf("Ошибка получения списка платежей для перевода в %v", newStatus)
		return
	}
	for _, repayment := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		updMap := map[string]interface{}{
			"status": newStatus,
		}
		err = i.repaymentStore.Update(repayment.ID, updMap)
		if err != nil {
			logger.
				WithError(err).
				WithField("repayment_id", repayment.ID).
				Errorf("Ошибка перевода статуса платежа в %v", newStatus)
			continue
		}
		if repayment.Application == nil {
			continue
		}
		i.notify.Notify(repayment.Application.BuyerID, code, repayment.Seq, repayment.Amount)
	}
}

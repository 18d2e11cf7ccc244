package dipworker

import (
	"context"
	"estate-finance-backend/db"
	applicationstore "estate-finance-backend/lib/application/store"
	dipstore "estate-finance-backend/lib/dip/store"
	notifyhandler "estate-finance-backend/lib/notify"
	baseworker "estate-finance-backend/lib/utils/base-worker"
	"estate-finance-backend/lib/utils/helpers"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"
)

const batchSize = 100

// доля стоимости объекта, на которую формируется предварительное решение
const dipLtvRatio = 0.9

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("DipGenerationWorker", 15*time.Second, 5*time.Minute),
		appStore: applicationstore.NewInstance(db.DB),
		dipStore: dipstore.NewInstance(db.DB),
		notify:   notifyhandler.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	appStore applicationstore.Provider
	dipStore dipstore.Provider
	notify   notifyhandler.Provider
}

// handle формирует предварительные решения по ипотечным заявкам на этапе
// предварительного решения банка. Повторный запуск по той же заявке второго
// решения не создаёт
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.appStore.ListByStage(models.PurchaseTypeMortgage, models.AppStageDecisionInPrinciple, batchSize)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения заявок для формирования предварительного решения")
		return
	}
	for _, app := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		appLogger := logger.WithField("application_id", app.ID)
		existing, err := i.dipStore.GetByApplication(app.ID)
		if err != nil {
			appLogger.WithError(err).Error("Ошибка проверки предварительного решения")
			continue
		}
		if existing != nil {
			continue
		}
		rec := dbmodels.Dip{
			ApplicationID: app.ID,
			Amount:        app.PropertyCost * dipLtvRatio,
			Status:        models.DipStatusGenerated,
			GeneratedAt:   time.Now(),
		}
		_, err = i.dipStore.Create(rec)
		if err != nil {
			appLogger.WithError(err).Error("Ошибка создания предварительного решения")
			continue
		}
		i.notify.Notify(app.BuyerID, models.NotifyDipGenerated)
	}
}

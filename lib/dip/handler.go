package diphandler

import (
	"estate-finance-backend/db"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	dipstore "estate-finance-backend/lib/dip/store"
	notifyhandler "estate-finance-backend/lib/notify"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	GetByApplication(applicationID string) (rec *dbmodels.Dip, err error)
	ConfirmPayment(applicationID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     dipstore.NewInstance(db.DB),
		lifecycle: applicationlifecycle.Instance,
		notify:    notifyhandler.Instance,
	}
}

type impl struct {
	store     dipstore.Provider
	lifecycle applicationlifecycle.Provider
	notify    notifyhandler.Provider
}

func (i impl) GetByApplication(applicationID string) (*dbmodels.Dip, error) {
	rec, err := i.store.GetByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения предварительного решения")
	}
	if rec == nil {
		return nil, errors.Wrapf(models.ErrNotFound, "предварительное решение по заявке %v не найдено", applicationID)
	}
	return rec, nil
}

// ConfirmPayment - подтверждение оплаты предварительного решения
// (вебхук платёжного провайдера)
func (i impl) ConfirmPayment(applicationID string) error {
	outcome, err := i.lifecycle.OnDipPaymentCompleted(applicationID)
	if err != nil {
		return err
	}
	if outcome.Advanced {
		i.notify.Notify(outcome.BuyerID, models.NotifyApplicationAdvanced, outcome.NewStage.ToHuman())
	}
	return nil
}

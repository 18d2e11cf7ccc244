package repaymenthandler

import (
	"bytes"
	"estate-finance-backend/db"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	xlsexport "estate-finance-backend/lib/export/xls"
	notifyhandler "estate-finance-backend/lib/notify"
	repaymentstore "estate-finance-backend/lib/repayment/store"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type Provider interface {
	Schedule(applicationID string) (list []dbmodels.LoanRepayment, err error)
	ExportSchedule(applicationID string) (*bytes.Buffer, error)
	MarkPaid(repaymentID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     repaymentstore.NewInstance(db.DB),
		lifecycle: applicationlifecycle.Instance,
		notify:    notifyhandler.Instance,
		export:    xlsexport.Instance,
	}
}

type impl struct {
	store     repaymentstore.Provider
	lifecycle applicationlifecycle.Provider
	notify    notifyhandler.Provider
	export    xlsexport.Provider
}

func (i impl) Schedule(applicationID string) ([]dbmodels.LoanRepayment, error) {
	list, err := i.store.ListByApplication(applicationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения графика платежей")
	}
	return list, nil
}

func (i impl) ExportSchedule(applicationID string) (*bytes.Buffer, error) {
	list, err := i.Schedule(applicationID)
	if err != nil {
		return nil, err
	}
	return i.export.ExportRepaymentSchedule(list)
}

// MarkPaid фиксирует оплату платежа. Когда оплачен последний,
// координатор переводит заявку с этапа погашения дальше
func (i impl) MarkPaid(repaymentID string) error {
	rec, err := i.store.GetByID(repaymentID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения платежа")
	}
	if rec == nil {
		return errors.Wrapf(models.ErrNotFound, "платёж %v не найден", repaymentID)
	}
	if rec.Status == models.RepaymentStatusPaid {
		return errors.Wrapf(models.ErrConflict, "платёж %v уже оплачен", repaymentID)
	}
	now := time.Now()
	updMap := map[string]interface{}{
		"status":  models.RepaymentStatusPaid,
		"paid_at": &now,
	}
	err = i.store.Update(repaymentID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления платежа")
	}
	outcome, err := i.lifecycle.OnRepaymentPaid(rec.ApplicationID)
	if err != nil {
		return err
	}
	if outcome.Advanced {
		i.notify.Notify(outcome.BuyerID, models.NotifyApplicationAdvanced, outcome.NewStage.ToHuman())
	}
	return nil
}

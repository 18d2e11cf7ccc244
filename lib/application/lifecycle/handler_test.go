package applicationlifecycle

import (
	"fmt"
	"testing"
	"time"

	"estate-finance-backend/models"
	applicationapimodels "estate-finance-backend/models/api/application"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAppStore struct {
	recs map[string]*dbmodels.Application
}

func (f *fakeAppStore) Create(rec dbmodels.Application) (string, error) { return rec.ID, nil }

func (f *fakeAppStore) GetByID(id string) (*dbmodels.Application, error) {
	return f.recs[id], nil
}

func (f *fakeAppStore) GetByIDForUpdate(id string) (*dbmodels.Application, error) {
	return f.recs[id], nil
}

func (f *fakeAppStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	if stage, exist := updMap["current_stage"]; exist {
		rec.CurrentStage = stage.(models.ApplicationStage)
	}
	if declined, exist := updMap["declined"]; exist {
		rec.Declined = declined.(bool)
	}
	if comment, exist := updMap["decline_comment"]; exist {
		rec.DeclineComment = comment.(string)
	}
	return nil
}

func (f *fakeAppStore) List(buyerID string, filter applicationapimodels.AppFilter) ([]dbmodels.Application, error) {
	return nil, nil
}

func (f *fakeAppStore) ListCount(buyerID string, filter applicationapimodels.AppFilter) (int64, error) {
	return 0, nil
}

func (f *fakeAppStore) ListByStage(purchaseType models.PurchaseType, stage models.ApplicationStage, limit int) ([]dbmodels.Application, error) {
	return nil, nil
}

type fakeDipStore struct {
	recs map[string]*dbmodels.Dip
}

func (f *fakeDipStore) Create(rec dbmodels.Dip) (string, error) { return rec.ID, nil }

func (f *fakeDipStore) GetByApplication(applicationID string) (*dbmodels.Dip, error) {
	for _, rec := range f.recs {
		if rec.ApplicationID == applicationID {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeDipStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	if status, exist := updMap["status"]; exist {
		rec.Status = status.(models.DipStatus)
	}
	return nil
}

func (f *fakeDipStore) ListByStatus(status models.DipStatus, limit int) ([]dbmodels.Dip, error) {
	return nil, nil
}

type fakeCpStore struct {
	recs map[string]*dbmodels.ConditionPrecedent
	seq  int
}

func (f *fakeCpStore) Create(rec dbmodels.ConditionPrecedent) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("cp-%d", f.seq)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeCpStore) GetByID(id string) (*dbmodels.ConditionPrecedent, error) {
	return f.recs[id], nil
}

func (f *fakeCpStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	if status, exist := updMap["status"]; exist {
		rec.Status = status.(models.ConditionPrecedentStatus)
	}
	return nil
}

func (f *fakeCpStore) ListByApplication(applicationID string) ([]dbmodels.ConditionPrecedent, error) {
	list := []dbmodels.ConditionPrecedent{}
	for _, rec := range f.recs {
		if rec.ApplicationID == applicationID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeCpStore) ListCompleted(limit int) ([]dbmodels.ConditionPrecedent, error) {
	return nil, nil
}

type fakeRepaymentStore struct {
	unpaid int64
}

func (f *fakeRepaymentStore) Create(rec dbmodels.LoanRepayment) (string, error) { return rec.ID, nil }

func (f *fakeRepaymentStore) GetByID(id string) (*dbmodels.LoanRepayment, error) { return nil, nil }

func (f *fakeRepaymentStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeRepaymentStore) ListByApplication(applicationID string) ([]dbmodels.LoanRepayment, error) {
	return nil, nil
}

func (f *fakeRepaymentStore) ListToStatus(status models.RepaymentStatus, dueBefore time.Time, limit int) ([]dbmodels.LoanRepayment, error) {
	return nil, nil
}

func (f *fakeRepaymentStore) CountUnpaid(applicationID string) (int64, error) {
	return f.unpaid, nil
}

type lifecycleEnv struct {
	handler    impl
	apps       *fakeAppStore
	dips       *fakeDipStore
	cps        *fakeCpStore
	repayments *fakeRepaymentStore
}

func newLifecycleEnv() *lifecycleEnv {
	env := &lifecycleEnv{
		apps:       &fakeAppStore{recs: map[string]*dbmodels.Application{}},
		dips:       &fakeDipStore{recs: map[string]*dbmodels.Dip{}},
		cps:        &fakeCpStore{recs: map[string]*dbmodels.ConditionPrecedent{}},
		repayments: &fakeRepaymentStore{},
	}
	env.handler = impl{
		appStore:       env.apps,
		dipStore:       env.dips,
		cpStore:        env.cps,
		repaymentStore: env.repayments,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}
	return env
}

func (env *lifecycleEnv) seedApp(id string, purchaseType models.PurchaseType, stage models.ApplicationStage) {
	rec := &dbmodels.Application{
		BuyerID:      "buyer-1",
		PurchaseType: purchaseType,
		CurrentStage: stage,
	}
	rec.ID = id
	env.apps.recs[id] = rec
}

func TestAdvance(t *testing.T) {
	t.Run("перевод с ожидаемого этапа", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStagePreQualification)

		outcome, err := env.handler.OnPreQualificationCompleted("app-1")
		require.Nil(t, err)
		require.True(t, outcome.Advanced)
		require.Equal(t, models.AppStageDecisionInPrinciple, outcome.NewStage)
		require.Equal(t, models.AppStageDecisionInPrinciple, env.apps.recs["app-1"].CurrentStage)
	})

	t.Run("заявка не на ожидаемом этапе - перевода нет и это не ошибка", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageLoanOffer)

		outcome, err := env.handler.OnPreQualificationCompleted("app-1")
		require.Nil(t, err)
		require.False(t, outcome.Advanced)
		require.Equal(t, models.AppStageLoanOffer, outcome.NewStage)
		require.Equal(t, models.AppStageLoanOffer, env.apps.recs["app-1"].CurrentStage)
	})

	t.Run("неизвестная заявка", func(t *testing.T) {
		env := newLifecycleEnv()
		_, err := env.handler.OnPreQualificationCompleted("missing")
		require.NotNil(t, err)
		require.True(t, models.IsNotFound(err))
	})
}

func TestOnReviewApproved(t *testing.T) {
	t.Run("согласованная оферта двигает заявку прямой покупки", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeOutright, models.AppStageOfferLetter)

		outcome, err := env.handler.OnReviewApproved(models.ReviewKindOfferLetterOutright, "app-1")
		require.Nil(t, err)
		require.True(t, outcome.Advanced)
		require.Equal(t, models.AppStagePropertyClosing, outcome.NewStage)
	})

	t.Run("неизвестный тип согласования", func(t *testing.T) {
		env := newLifecycleEnv()
		_, err := env.handler.OnReviewApproved("UNKNOWN", "app-1")
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
	})
}

func TestOnReviewRejected(t *testing.T) {
	env := newLifecycleEnv()
	env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageUploadDocument)

	outcome, err := env.handler.OnReviewRejected(models.ReviewKindDipDocumentReview, "app-1", "документы не читаются")
	require.Nil(t, err)
	require.True(t, outcome.Declined)
	require.False(t, outcome.Advanced)
	require.True(t, env.apps.recs["app-1"].Declined)
	require.Equal(t, "документы не читаются", env.apps.recs["app-1"].DeclineComment)
	// этап не меняется, после повторной подачи заявка продолжит с него
	require.Equal(t, models.AppStageUploadDocument, env.apps.recs["app-1"].CurrentStage)
}

func TestOnDipPaymentCompleted(t *testing.T) {
	t.Run("оплата двигает заявку на загрузку документов", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageDecisionInPrinciple)
		dip := &dbmodels.Dip{ApplicationID: "app-1", Status: models.DipStatusGenerated}
		dip.ID = "dip-1"
		env.dips.recs["dip-1"] = dip

		outcome, err := env.handler.OnDipPaymentCompleted("app-1")
		require.Nil(t, err)
		require.True(t, outcome.Advanced)
		require.Equal(t, models.AppStageUploadDocument, outcome.NewStage)
		require.Equal(t, models.DipStatusPaymentCompleted, env.dips.recs["dip-1"].Status)
	})

	t.Run("повторное подтверждение оплаты", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageDecisionInPrinciple)
		dip := &dbmodels.Dip{ApplicationID: "app-1", Status: models.DipStatusGenerated}
		dip.ID = "dip-1"
		env.dips.recs["dip-1"] = dip

		_, err := env.handler.OnDipPaymentCompleted("app-1")
		require.Nil(t, err)
		outcome, err := env.handler.OnDipPaymentCompleted("app-1")
		require.Nil(t, err)
		require.False(t, outcome.Advanced)
		require.Equal(t, models.AppStageUploadDocument, env.apps.recs["app-1"].CurrentStage)
	})

	t.Run("оплата недоступна вне ипотеки", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeOutright, models.AppStageOfferLetter)

		_, err := env.handler.OnDipPaymentCompleted("app-1")
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
	})

	t.Run("решение ещё не сформировано", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageDecisionInPrinciple)

		_, err := env.handler.OnDipPaymentCompleted("app-1")
		require.NotNil(t, err)
		require.True(t, models.IsNotFound(err))
	})
}

func TestConditionPrecedent(t *testing.T) {
	seedCp := func(env *lifecycleEnv, id, appID string, status models.ConditionPrecedentStatus) {
		rec := &dbmodels.ConditionPrecedent{ApplicationID: appID, Status: status}
		rec.ID = id
		env.cps.recs[id] = rec
	}

	t.Run("последнее условие закрывает этап", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageConditionPrecedent)
		seedCp(env, "cp-1", "app-1", models.CpStatusCompleted)
		seedCp(env, "cp-2", "app-1", models.CpStatusPending)

		outcome, err := env.handler.OnConditionPrecedentCompleted("cp-2")
		require.Nil(t, err)
		require.True(t, outcome.Advanced)
		require.Equal(t, models.AppStageRepayment, outcome.NewStage)
		require.Equal(t, models.CpStatusCompleted, env.cps.recs["cp-2"].Status)
	})

	t.Run("открытое условие держит этап", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageConditionPrecedent)
		seedCp(env, "cp-1", "app-1", models.CpStatusPending)
		seedCp(env, "cp-2", "app-1", models.CpStatusPending)

		outcome, err := env.handler.OnConditionPrecedentCompleted("cp-1")
		require.Nil(t, err)
		require.False(t, outcome.Advanced)
		require.Equal(t, models.CpStatusCompleted, env.cps.recs["cp-1"].Status)
		require.Equal(t, models.AppStageConditionPrecedent, env.apps.recs["app-1"].CurrentStage)
	})

	t.Run("условие закрывается и до этапа отлагательных условий", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageLoanDecision)
		seedCp(env, "cp-1", "app-1", models.CpStatusPending)

		outcome, err := env.handler.OnConditionPrecedentCompleted("cp-1")
		require.Nil(t, err)
		require.False(t, outcome.Advanced)
		require.Equal(t, models.CpStatusCompleted, env.cps.recs["cp-1"].Status)
		require.Equal(t, models.AppStageLoanDecision, env.apps.recs["app-1"].CurrentStage)
	})
}

func TestOnRepaymentPaid(t *testing.T) {
	t.Run("остались неоплаченные платежи", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageRepayment)
		env.repayments.unpaid = 3

		outcome, err := env.handler.OnRepaymentPaid("app-1")
		require.Nil(t, err)
		require.False(t, outcome.Advanced)
		require.Equal(t, models.AppStageRepayment, env.apps.recs["app-1"].CurrentStage)
	})

	t.Run("последний платёж завершает покупку", func(t *testing.T) {
		env := newLifecycleEnv()
		env.seedApp("app-1", models.PurchaseTypeMortgage, models.AppStageRepayment)
		env.repayments.unpaid = 0

		outcome, err := env.handler.OnRepaymentPaid("app-1")
		require.Nil(t, err)
		require.True(t, outcome.Advanced)
		require.Equal(t, models.AppStagePurchased, outcome.NewStage)
	})
}

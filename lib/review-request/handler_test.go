package reviewrequesthandler

import (
	"fmt"
	"testing"

	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	reviewcataloghandler "estate-finance-backend/lib/review-catalog"
	"estate-finance-backend/models"
	reviewapimodels "estate-finance-backend/models/api/review"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRequestStore struct {
	recs map[string]*dbmodels.ReviewRequest
	seq  int
}

func (f *fakeRequestStore) Create(rec dbmodels.ReviewRequest) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("req-%d", f.seq)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.ReviewRequest, error) {
	return f.recs[id], nil
}

func (f *fakeRequestStore) GetByIDForUpdate(id string) (*dbmodels.ReviewRequest, error) {
	return f.recs[id], nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	if status, exist := updMap["status"]; exist {
		rec.Status = status.(models.ReviewStatus)
	}
	return nil
}

func (f *fakeRequestStore) ListBySubject(subjectID string) ([]dbmodels.ReviewRequest, error) {
	list := []dbmodels.ReviewRequest{}
	for _, rec := range f.recs {
		if rec.SubjectID == subjectID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type fakeStageStore struct {
	recs []dbmodels.ReviewRequestStageInstance
}

func (f *fakeStageStore) CreateBatch(list []dbmodels.ReviewRequestStageInstance) error {
	f.recs = append(f.recs, list...)
	return nil
}

func (f *fakeStageStore) ListByRequest(requestID string) ([]dbmodels.ReviewRequestStageInstance, error) {
	list := []dbmodels.ReviewRequestStageInstance{}
	for _, rec := range f.recs {
		if rec.RequestID == requestID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeApprovalStore struct {
	recs []dbmodels.ReviewRequestApproval
	seq  int
}

func (f *fakeApprovalStore) Create(rec dbmodels.ReviewRequestApproval) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("ap-%d", f.seq)
	f.recs = append(f.recs, rec)
	return rec.ID, nil
}

func (f *fakeApprovalStore) ListEffectiveByRequest(requestID string) ([]dbmodels.ReviewRequestApproval, error) {
	list := []dbmodels.ReviewRequestApproval{}
	for _, rec := range f.recs {
		if rec.RequestID == requestID && !rec.Superseded {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakeApprovalStore) SupersedeByRequest(requestID string) error {
	for idx := range f.recs {
		if f.recs[idx].RequestID == requestID {
			f.recs[idx].Superseded = true
		}
	}
	return nil
}

type fakeHistoryStore struct {
	recs []dbmodels.ReviewApprovalHistory
}

func (f *fakeHistoryStore) Create(rec dbmodels.ReviewApprovalHistory) (string, error) {
	f.recs = append(f.recs, rec)
	return fmt.Sprintf("h-%d", len(f.recs)), nil
}

func (f *fakeHistoryStore) List(requestID string) ([]dbmodels.ReviewApprovalHistory, error) {
	list := []dbmodels.ReviewApprovalHistory{}
	for _, rec := range f.recs {
		if rec.RequestID == requestID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeCatalog struct {
	typeID   string
	bindings []reviewcataloghandler.StageBinding
	err      error
}

func (f *fakeCatalog) StagesForKind(kind models.ReviewKind) (string, []reviewcataloghandler.StageBinding, error) {
	return f.typeID, f.bindings, f.err
}

func (f *fakeCatalog) DisableStage(typeStageID string) error { return nil }

func (f *fakeCatalog) Reload() {}

type lifecycleCall struct {
	event     string
	kind      models.ReviewKind
	subjectID string
}

type fakeLifecycle struct {
	calls   []lifecycleCall
	outcome applicationlifecycle.ReviewOutcome
}

func (f *fakeLifecycle) OnReviewApproved(kind models.ReviewKind, subjectID string) (applicationlifecycle.ReviewOutcome, error) {
	f.calls = append(f.calls, lifecycleCall{event: "approved", kind: kind, subjectID: subjectID})
	return f.outcome, nil
}

func (f *fakeLifecycle) OnReviewRejected(kind models.ReviewKind, subjectID, comment string) (applicationlifecycle.ReviewOutcome, error) {
	f.calls = append(f.calls, lifecycleCall{event: "rejected", kind: kind, subjectID: subjectID})
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnPreQualificationCompleted(applicationID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnDipPaymentCompleted(applicationID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnLoanOfferGenerated(applicationID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnLoanOfferAccepted(applicationID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnConditionPrecedentCompleted(cpID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

func (f *fakeLifecycle) OnRepaymentPaid(applicationID string) (applicationlifecycle.ReviewOutcome, error) {
	return applicationlifecycle.ReviewOutcome{}, nil
}

type notifyCall struct {
	userID string
	code   models.NotifyCode
}

type fakeNotify struct {
	calls []notifyCall
}

func (f *fakeNotify) Notify(userID string, code models.NotifyCode, args ...interface{}) {
	f.calls = append(f.calls, notifyCall{userID: userID, code: code})
}

type testEnv struct {
	handler   impl
	requests  *fakeRequestStore
	stages    *fakeStageStore
	approvals *fakeApprovalStore
	history   *fakeHistoryStore
	lifecycle *fakeLifecycle
	notify    *fakeNotify
}

func newTestEnv() *testEnv {
	env := &testEnv{
		requests:  &fakeRequestStore{recs: map[string]*dbmodels.ReviewRequest{}},
		stages:    &fakeStageStore{},
		approvals: &fakeApprovalStore{},
		history:   &fakeHistoryStore{},
		lifecycle: &fakeLifecycle{},
		notify:    &fakeNotify{},
	}
	env.handler = impl{
		store:         env.requests,
		stageStore:    env.stages,
		approvalStore: env.approvals,
		historyStore:  env.history,
		catalog:       &fakeCatalog{},
		lifecycle:     env.lifecycle,
		notify:        env.notify,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}
	return env
}

// двухэтапная цепочка оферты: HSF, затем застройщик
func (env *testEnv) seedOfferRequest() string {
	rec := dbmodels.ReviewRequest{
		SubjectID:     "app-1",
		InitiatorID:   "buyer-1",
		CandidateName: "ЖК Солнечный",
		Status:        models.ReviewStatusPending,
		Type:          &dbmodels.ReviewRequestType{Kind: models.ReviewKindOfferLetterOutright},
	}
	id, _ := env.requests.Create(rec)
	env.stages.recs = append(env.stages.recs,
		dbmodels.ReviewRequestStageInstance{
			RequestID:   id,
			TypeStageID: "ts-hsf",
			StageOrder:  1,
			Policy:      models.PolicyAnyOne,
			TypeStage: &dbmodels.ReviewRequestTypeStage{
				Stage:     &dbmodels.ReviewRequestStage{Name: models.StageHsfOfferLetterReview},
				Approvers: []dbmodels.ReviewRequestStageApprover{{Role: models.HsfAdminRole}},
			},
		},
		dbmodels.ReviewRequestStageInstance{
			RequestID:   id,
			TypeStageID: "ts-dev",
			StageOrder:  2,
			Policy:      models.PolicyAnyOne,
			TypeStage: &dbmodels.ReviewRequestTypeStage{
				Stage:     &dbmodels.ReviewRequestStage{Name: models.StageDeveloperOfferLetterReview},
				Approvers: []dbmodels.ReviewRequestStageApprover{{Role: models.DeveloperAdminRole}},
			},
		},
	)
	return id
}

func approveData() reviewapimodels.ReviewDecideData {
	return reviewapimodels.ReviewDecideData{Decision: models.ReviewStatusApproved}
}

func rejectData(comment string) reviewapimodels.ReviewDecideData {
	return reviewapimodels.ReviewDecideData{Decision: models.ReviewStatusRejected, Comments: comment}
}

func TestDecide(t *testing.T) {
	t.Run("согласование первого этапа двигает запрос дальше", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		view, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, approveData())
		require.Nil(t, err)
		require.Equal(t, models.StageHsfOfferLetterReview, view.Stage)
		require.Equal(t, models.ReviewStatusPending, env.requests.recs[id].Status)
		require.Len(t, env.approvals.recs, 1)
		require.Equal(t, models.HsfAdminRole, env.approvals.recs[0].Role)
		require.Len(t, env.notify.calls, 1)
		require.Equal(t, models.NotifyReviewStageAdvanced, env.notify.calls[0].code)
		require.Equal(t, "buyer-1", env.notify.calls[0].userID)
		require.Empty(t, env.lifecycle.calls)
		require.Len(t, env.history.recs, 1)
	})

	t.Run("согласование последнего этапа закрывает запрос", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()
		env.lifecycle.outcome = applicationlifecycle.ReviewOutcome{
			ApplicationID: "app-1",
			BuyerID:       "buyer-1",
			NewStage:      models.AppStagePropertyClosing,
			Advanced:      true,
		}

		_, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, approveData())
		require.Nil(t, err)
		_, err = env.handler.Decide(id, "org-dev", "user-dev", models.DeveloperAdminRole, approveData())
		require.Nil(t, err)

		require.Equal(t, models.ReviewStatusApproved, env.requests.recs[id].Status)
		require.Len(t, env.lifecycle.calls, 1)
		require.Equal(t, "approved", env.lifecycle.calls[0].event)
		require.Equal(t, models.ReviewKindOfferLetterOutright, env.lifecycle.calls[0].kind)
		require.Equal(t, "app-1", env.lifecycle.calls[0].subjectID)

		codes := []models.NotifyCode{}
		for _, call := range env.notify.calls {
			codes = append(codes, call.code)
		}
		require.Contains(t, codes, models.NotifyReviewApproved)
		require.Contains(t, codes, models.NotifyApplicationAdvanced)
	})

	t.Run("роль вне текущего этапа не допускается", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		_, err := env.handler.Decide(id, "org-lender", "user-lender", models.LenderAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsForbidden(err))
		require.Empty(t, env.approvals.recs)
	})

	t.Run("второй этап недоступен до закрытия первого", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		_, err := env.handler.Decide(id, "org-dev", "user-dev", models.DeveloperAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsForbidden(err))
	})

	t.Run("повторный голос организации на этапе", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()
		env.approvals.recs = append(env.approvals.recs, dbmodels.ReviewRequestApproval{
			RequestID:      id,
			TypeStageID:    "ts-hsf",
			OrganizationID: "org-hsf",
			Role:           models.HsfAdminRole,
			Status:         models.ReviewStatusPending,
		})

		_, err := env.handler.Decide(id, "org-hsf", "user-hsf2", models.HsfAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsConflict(err))
	})

	t.Run("отказ терминален и уходит координатору", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		_, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, rejectData("нет документов"))
		require.Nil(t, err)
		require.Equal(t, models.ReviewStatusRejected, env.requests.recs[id].Status)
		require.Len(t, env.lifecycle.calls, 1)
		require.Equal(t, "rejected", env.lifecycle.calls[0].event)
		require.Len(t, env.notify.calls, 1)
		require.Equal(t, models.NotifyReviewRejected, env.notify.calls[0].code)

		// решение по завершённому запросу не принимается
		_, err = env.handler.Decide(id, "org-dev", "user-dev", models.DeveloperAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsConflict(err))
	})

	t.Run("запрос без этапов", func(t *testing.T) {
		env := newTestEnv()
		rec := dbmodels.ReviewRequest{Status: models.ReviewStatusPending}
		id, _ := env.requests.Create(rec)

		_, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsMisconfiguration(err))
	})

	t.Run("неизвестный запрос", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.handler.Decide("missing", "org-hsf", "user-hsf", models.HsfAdminRole, approveData())
		require.NotNil(t, err)
		require.True(t, models.IsNotFound(err))
	})

	t.Run("недопустимое решение", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()
		_, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole,
			reviewapimodels.ReviewDecideData{Decision: models.ReviewStatusPending})
		require.NotNil(t, err)
	})
}

func TestRestart(t *testing.T) {
	t.Run("перезапуск замещает прежние решения", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		_, err := env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, rejectData("нет документов"))
		require.Nil(t, err)

		err = env.handler.Restart(id)
		require.Nil(t, err)
		require.Equal(t, models.ReviewStatusPending, env.requests.recs[id].Status)
		effective, _ := env.approvals.ListEffectiveByRequest(id)
		require.Empty(t, effective)

		// цепочка начинается заново с первого этапа
		view, err := env.handler.CurrentStage(id)
		require.Nil(t, err)
		require.Equal(t, models.StageHsfOfferLetterReview, view.Stage)
		require.Equal(t, 1, view.StageOrder)

		// полный след решений сохраняется
		history, err := env.handler.History(id)
		require.Nil(t, err)
		require.Len(t, history, 1)
	})

	t.Run("перезапуск доступен только отклонённому запросу", func(t *testing.T) {
		env := newTestEnv()
		id := env.seedOfferRequest()

		err := env.handler.Restart(id)
		require.NotNil(t, err)
		require.True(t, models.IsConflict(err))
	})
}

func TestStart(t *testing.T) {
	env := newTestEnv()
	env.handler.catalog = &fakeCatalog{
		typeID: "type-1",
		bindings: []reviewcataloghandler.StageBinding{
			{TypeStageID: "ts-hsf", Stage: models.StageHsfOfferLetterReview, Order: 1, Policy: models.PolicyAnyOne, Roles: []models.UserRole{models.HsfAdminRole}},
			{TypeStageID: "ts-dev", Stage: models.StageDeveloperOfferLetterReview, Order: 2, Policy: models.PolicyAnyOne, Roles: []models.UserRole{models.DeveloperAdminRole}},
		},
	}

	view, err := env.handler.Start("buyer-1", reviewapimodels.ReviewStartData{
		Kind:          models.ReviewKindOfferLetterOutright,
		SubjectID:     "app-1",
		CandidateName: "ЖК Солнечный",
	})
	require.Nil(t, err)
	require.Equal(t, models.ReviewStatusPending, view.Status)
	require.Equal(t, models.ReviewKindOfferLetterOutright, view.Kind)

	instances, _ := env.stages.ListByRequest(view.ID)
	require.Len(t, instances, 2)
	require.Equal(t, "ts-hsf", instances[0].TypeStageID)
	require.Equal(t, 1, instances[0].StageOrder)
}

func TestCurrentStage(t *testing.T) {
	env := newTestEnv()
	id := env.seedOfferRequest()

	view, err := env.handler.CurrentStage(id)
	require.Nil(t, err)
	require.False(t, view.Terminal)
	require.Equal(t, models.StageHsfOfferLetterReview, view.Stage)

	_, err = env.handler.Decide(id, "org-hsf", "user-hsf", models.HsfAdminRole, approveData())
	require.Nil(t, err)

	view, err = env.handler.CurrentStage(id)
	require.Nil(t, err)
	require.Equal(t, models.StageDeveloperOfferLetterReview, view.Stage)
	require.Equal(t, 2, view.StageOrder)
}

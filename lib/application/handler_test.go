package applicationhandler

import (
	"testing"

	reviewrequesthandler "estate-finance-backend/lib/review-request"
	"estate-finance-backend/models"
	applicationapimodels "estate-finance-backend/models/api/application"
	reviewapimodels "estate-finance-backend/models/api/review"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
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

func (f *fakeAppStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeAppStore) List(buyerID string, filter applicationapimodels.AppFilter) ([]dbmodels.Application, error) {
	return nil, nil
}

func (f *fakeAppStore) ListCount(buyerID string, filter applicationapimodels.AppFilter) (int64, error) {
	return 0, nil
}

func (f *fakeAppStore) ListByStage(purchaseType models.PurchaseType, stage models.ApplicationStage, limit int) ([]dbmodels.Application, error) {
	return nil, nil
}

type fakeDocStore struct {
	docs map[string][]dbmodels.Document
}

func (f *fakeDocStore) Save(rec dbmodels.Document) (string, error) { return rec.ID, nil }

func (f *fakeDocStore) GetByID(id string) (*dbmodels.Document, error) { return nil, nil }

func (f *fakeDocStore) ListByApplication(applicationID string) ([]dbmodels.Document, error) {
	return f.docs[applicationID], nil
}

type fakeRequestStore struct {
	recs []dbmodels.ReviewRequest
}

func (f *fakeRequestStore) Create(rec dbmodels.ReviewRequest) (string, error) { return rec.ID, nil }

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.ReviewRequest, error) { return nil, nil }

func (f *fakeRequestStore) GetByIDForUpdate(id string) (*dbmodels.ReviewRequest, error) {
	return nil, nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeRequestStore) ListBySubject(subjectID string) ([]dbmodels.ReviewRequest, error) {
	list := []dbmodels.ReviewRequest{}
	for _, rec := range f.recs {
		if rec.SubjectID == subjectID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeReviewHandler struct {
	started []reviewapimodels.ReviewStartData
}

var _ reviewrequesthandler.Provider = &fakeReviewHandler{}

func (f *fakeReviewHandler) Start(initiatorID string, data reviewapimodels.ReviewStartData) (reviewapimodels.ReviewRequestView, error) {
	f.started = append(f.started, data)
	return reviewapimodels.ReviewRequestView{
		ID:     "req-1",
		Kind:   data.Kind,
		Status: models.ReviewStatusPending,
	}, nil
}

func (f *fakeReviewHandler) GetByID(requestID string) (reviewapimodels.ReviewRequestView, error) {
	return reviewapimodels.ReviewRequestView{}, nil
}

func (f *fakeReviewHandler) CurrentStage(requestID string) (reviewapimodels.CurrentStageView, error) {
	return reviewapimodels.CurrentStageView{}, nil
}

func (f *fakeReviewHandler) Decide(requestID, organizationID, userID string, role models.UserRole, data reviewapimodels.ReviewDecideData) (reviewapimodels.ApprovalView, error) {
	return reviewapimodels.ApprovalView{}, nil
}

func (f *fakeReviewHandler) Approvals(requestID string) ([]reviewapimodels.ApprovalView, error) {
	return nil, nil
}

func (f *fakeReviewHandler) History(requestID string) ([]reviewapimodels.ApprovalHistoryView, error) {
	return nil, nil
}

func (f *fakeReviewHandler) Restart(requestID string) error { return nil }

type submitEnv struct {
	handler  impl
	apps     *fakeAppStore
	docs     *fakeDocStore
	requests *fakeRequestStore
	review   *fakeReviewHandler
}

func newSubmitEnv() *submitEnv {
	env := &submitEnv{
		apps:     &fakeAppStore{recs: map[string]*dbmodels.Application{}},
		docs:     &fakeDocStore{docs: map[string][]dbmodels.Document{}},
		requests: &fakeRequestStore{},
		review:   &fakeReviewHandler{},
	}
	env.handler = impl{
		store:         env.apps,
		docStore:      env.docs,
		requestStore:  env.requests,
		reviewHandler: env.review,
	}
	return env
}

func (env *submitEnv) seedApp(id string, stage models.ApplicationStage) {
	rec := &dbmodels.Application{
		BuyerID:      "buyer-1",
		PropertyName: "ЖК Солнечный",
		PurchaseType: models.PurchaseTypeMortgage,
		CurrentStage: stage,
	}
	rec.ID = id
	env.apps.recs[id] = rec
}

func (env *submitEnv) seedDoc(applicationID string) {
	env.docs.docs[applicationID] = append(env.docs.docs[applicationID],
		dbmodels.Document{ApplicationID: applicationID, FileName: "passport.pdf"})
}

func TestSubmitDocuments(t *testing.T) {
	t.Run("подача запускает проверку документов", func(t *testing.T) {
		env := newSubmitEnv()
		env.seedApp("app-1", models.AppStageUploadDocument)
		env.seedDoc("app-1")

		requestID, err := env.handler.SubmitDocuments("app-1")
		require.Nil(t, err)
		require.Equal(t, "req-1", requestID)
		require.Len(t, env.review.started, 1)
		require.Equal(t, models.ReviewKindDipDocumentReview, env.review.started[0].Kind)
		require.Equal(t, "app-1", env.review.started[0].SubjectID)
		require.Equal(t, "ЖК Солнечный", env.review.started[0].CandidateName)
	})

	t.Run("подача недоступна вне этапа загрузки документов", func(t *testing.T) {
		env := newSubmitEnv()
		env.seedApp("app-1", models.AppStagePreQualification)
		env.seedDoc("app-1")

		_, err := env.handler.SubmitDocuments("app-1")
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
		require.Empty(t, env.review.started)
	})

	t.Run("без загруженных документов подача отклоняется", func(t *testing.T) {
		env := newSubmitEnv()
		env.seedApp("app-1", models.AppStageUploadDocument)

		_, err := env.handler.SubmitDocuments("app-1")
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
	})

	t.Run("повторная подача при открытой проверке", func(t *testing.T) {
		env := newSubmitEnv()
		env.seedApp("app-1", models.AppStageUploadDocument)
		env.seedDoc("app-1")
		env.requests.recs = append(env.requests.recs, dbmodels.ReviewRequest{
			SubjectID: "app-1",
			Status:    models.ReviewStatusPending,
		})

		_, err := env.handler.SubmitDocuments("app-1")
		require.NotNil(t, err)
		require.True(t, models.IsConflict(err))
		require.Empty(t, env.review.started)
	})

	t.Run("после отклонённой проверки подача доступна снова", func(t *testing.T) {
		env := newSubmitEnv()
		env.seedApp("app-1", models.AppStageUploadDocument)
		env.seedDoc("app-1")
		env.requests.recs = append(env.requests.recs, dbmodels.ReviewRequest{
			SubjectID: "app-1",
			Status:    models.ReviewStatusRejected,
		})

		requestID, err := env.handler.SubmitDocuments("app-1")
		require.Nil(t, err)
		require.Equal(t, "req-1", requestID)
	})

	t.Run("неизвестная заявка", func(t *testing.T) {
		env := newSubmitEnv()
		_, err := env.handler.SubmitDocuments("missing")
		require.NotNil(t, err)
		require.True(t, models.IsNotFound(err))
	})
}

package dipworker

import (
	"context"
	"fmt"
	"testing"
	"time"

	baseworker "estate-finance-backend/lib/utils/base-worker"
	"estate-finance-backend/models"
	applicationapimodels "estate-finance-backend/models/api/application"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeAppStore struct {
	recs []dbmodels.Application
}

func (f *fakeAppStore) Create(rec dbmodels.Application) (string, error) { return rec.ID, nil }

func (f *fakeAppStore) GetByID(id string) (*dbmodels.Application, error) { return nil, nil }

func (f *fakeAppStore) GetByIDForUpdate(id string) (*dbmodels.Application, error) { return nil, nil }

func (f *fakeAppStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeAppStore) List(buyerID string, filter applicationapimodels.AppFilter) ([]dbmodels.Application, error) {
	return nil, nil
}

func (f *fakeAppStore) ListCount(buyerID string, filter applicationapimodels.AppFilter) (int64, error) {
	return 0, nil
}

func (f *fakeAppStore) ListByStage(purchaseType models.PurchaseType, stage models.ApplicationStage, limit int) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	for _, rec := range f.recs {
		if rec.PurchaseType == purchaseType && rec.CurrentStage == stage && !rec.Declined {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeDipStore struct {
	recs map[string]dbmodels.Dip
	seq  int
}

func (f *fakeDipStore) Create(rec dbmodels.Dip) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("dip-%d", f.seq)
	f.recs[rec.ApplicationID] = rec
	return rec.ID, nil
}

func (f *fakeDipStore) GetByApplication(applicationID string) (*dbmodels.Dip, error) {
	rec, ok := f.recs[applicationID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeDipStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeDipStore) ListByStatus(status models.DipStatus, limit int) ([]dbmodels.Dip, error) {
	return nil, nil
}

type fakeNotify struct {
	calls []models.NotifyCode
}

func (f *fakeNotify) Notify(userID string, code models.NotifyCode, args ...interface{}) {
	f.calls = append(f.calls, code)
}

func makeApp(id, buyerID string, cost float64) dbmodels.Application {
	rec := dbmodels.Application{
		BuyerID:      buyerID,
		PropertyCost: cost,
		PurchaseType: models.PurchaseTypeMortgage,
		CurrentStage: models.AppStageDecisionInPrinciple,
	}
	rec.ID = id
	return rec
}

func newWorker(appStore *fakeAppStore, dipStore *fakeDipStore, notify *fakeNotify) impl {
	return impl{
		BaseImpl: *baseworker.NewInstance("DipGenerationWorker", 15*time.Second, 5*time.Minute),
		appStore: appStore,
		dipStore: dipStore,
		notify:   notify,
	}
}

func TestHandle(t *testing.T) {
	t.Run("решение формируется на долю стоимости объекта", func(t *testing.T) {
		appStore := &fakeAppStore{recs: []dbmodels.Application{makeApp("app-1", "buyer-1", 1000000)}}
		dipStore := &fakeDipStore{recs: map[string]dbmodels.Dip{}}
		notify := &fakeNotify{}
		worker := newWorker(appStore, dipStore, notify)

		worker.handle(context.Background())

		rec, err := dipStore.GetByApplication("app-1")
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, models.DipStatusGenerated, rec.Status)
		require.InDelta(t, 900000, rec.Amount, 0.01)
		require.Equal(t, []models.NotifyCode{models.NotifyDipGenerated}, notify.calls)
	})

	t.Run("повторный запуск второго решения не создаёт", func(t *testing.T) {
		appStore := &fakeAppStore{recs: []dbmodels.Application{makeApp("app-1", "buyer-1", 1000000)}}
		dipStore := &fakeDipStore{recs: map[string]dbmodels.Dip{}}
		notify := &fakeNotify{}
		worker := newWorker(appStore, dipStore, notify)

		worker.handle(context.Background())
		worker.handle(context.Background())

		require.Equal(t, 1, dipStore.seq)
		require.Len(t, notify.calls, 1)
	})

	t.Run("чужие этапы и типы покупки не трогаются", func(t *testing.T) {
		other := makeApp("app-2", "buyer-2", 500000)
		other.CurrentStage = models.AppStagePreQualification
		outright := makeApp("app-3", "buyer-3", 700000)
		outright.PurchaseType = models.PurchaseTypeOutright
		outright.CurrentStage = models.AppStageOfferLetter
		appStore := &fakeAppStore{recs: []dbmodels.Application{other, outright}}
		dipStore := &fakeDipStore{recs: map[string]dbmodels.Dip{}}
		notify := &fakeNotify{}
		worker := newWorker(appStore, dipStore, notify)

		worker.handle(context.Background())

		require.Empty(t, dipStore.recs)
		require.Empty(t, notify.calls)
	})

	t.Run("отменённый контекст прерывает пачку", func(t *testing.T) {
		appStore := &fakeAppStore{recs: []dbmodels.Application{
			makeApp("app-1", "buyer-1", 1000000),
			makeApp("app-2", "buyer-2", 2000000),
		}}
		dipStore := &fakeDipStore{recs: map[string]dbmodels.Dip{}}
		notify := &fakeNotify{}
		worker := newWorker(appStore, dipStore, notify)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		worker.handle(ctx)

		require.Empty(t, dipStore.recs)
	})
}

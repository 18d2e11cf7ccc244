package reviewcataloghandler

import (
	"testing"

	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	types      map[models.ReviewKind]*dbmodels.ReviewRequestType
	typeStages map[string][]dbmodels.ReviewRequestTypeStage
	loadCount  int
	disabled   []string
}

func (f *fakeStore) GetTypeByKind(kind models.ReviewKind) (*dbmodels.ReviewRequestType, error) {
	return f.types[kind], nil
}

func (f *fakeStore) GetStageByName(name models.ReviewStageName) (*dbmodels.ReviewRequestStage, error) {
	return nil, nil
}

func (f *fakeStore) ListEnabledByType(typeID string) ([]dbmodels.ReviewRequestTypeStage, error) {
	f.loadCount++
	return f.typeStages[typeID], nil
}

func (f *fakeStore) CreateType(rec dbmodels.ReviewRequestType) (string, error) {
	return rec.ID, nil
}

func (f *fakeStore) CreateStage(rec dbmodels.ReviewRequestStage) (string, error) {
	return rec.ID, nil
}

func (f *fakeStore) CreateTypeStage(rec dbmodels.ReviewRequestTypeStage) (string, error) {
	return rec.ID, nil
}

func (f *fakeStore) CreateApprover(rec dbmodels.ReviewRequestStageApprover) (string, error) {
	return rec.ID, nil
}

func (f *fakeStore) Disable(typeStageID string) error {
	f.disabled = append(f.disabled, typeStageID)
	for typeID, list := range f.typeStages {
		kept := []dbmodels.ReviewRequestTypeStage{}
		for _, rec := range list {
			if rec.ID != typeStageID {
				kept = append(kept, rec)
			}
		}
		f.typeStages[typeID] = kept
	}
	return nil
}

func makeTypeStage(id string, order int, policy models.ApprovalPolicy, name models.ReviewStageName, roles ...models.UserRole) dbmodels.ReviewRequestTypeStage {
	rec := dbmodels.ReviewRequestTypeStage{
		StageOrder: order,
		Enabled:    true,
		Policy:     policy,
		Stage:      &dbmodels.ReviewRequestStage{Name: name},
	}
	rec.ID = id
	for _, role := range roles {
		rec.Approvers = append(rec.Approvers, dbmodels.ReviewRequestStageApprover{Role: role})
	}
	return rec
}

func newCatalog(store *fakeStore) *impl {
	return &impl{
		store: store,
		cache: map[models.ReviewKind]snapshot{},
	}
}

func TestStagesForKind(t *testing.T) {
	t.Run("этапы возвращаются по порядку с ролями", func(t *testing.T) {
		typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
		typeRec.ID = "type-1"
		store := &fakeStore{
			types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
				models.ReviewKindDipDocumentReview: typeRec,
			},
			typeStages: map[string][]dbmodels.ReviewRequestTypeStage{
				"type-1": {
					makeTypeStage("ts-1", 1, models.PolicyAnyOne, models.StageHsfDocumentReview, models.HsfAdminRole),
					makeTypeStage("ts-2", 2, models.PolicyAnyOne, models.StageLenderDocumentReview, models.LenderAdminRole),
				},
			},
		}
		catalog := newCatalog(store)

		typeID, bindings, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.Nil(t, err)
		require.Equal(t, "type-1", typeID)
		require.Len(t, bindings, 2)
		require.Equal(t, "ts-1", bindings[0].TypeStageID)
		require.Equal(t, models.StageHsfDocumentReview, bindings[0].Stage)
		require.Equal(t, 1, bindings[0].Order)
		require.Equal(t, []models.UserRole{models.HsfAdminRole}, bindings[0].Roles)
		require.Equal(t, models.StageLenderDocumentReview, bindings[1].Stage)
	})

	t.Run("ненастроенный тип согласования", func(t *testing.T) {
		catalog := newCatalog(&fakeStore{types: map[models.ReviewKind]*dbmodels.ReviewRequestType{}})
		_, _, err := catalog.StagesForKind(models.ReviewKindConditionPrecedent)
		require.NotNil(t, err)
		require.True(t, models.IsNotFound(err))
	})

	t.Run("тип без включённых этапов", func(t *testing.T) {
		typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
		typeRec.ID = "type-1"
		store := &fakeStore{
			types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
				models.ReviewKindDipDocumentReview: typeRec,
			},
			typeStages: map[string][]dbmodels.ReviewRequestTypeStage{},
		}
		catalog := newCatalog(store)
		_, _, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.NotNil(t, err)
		require.True(t, models.IsMisconfiguration(err))
	})

	t.Run("этап без согласующих ролей", func(t *testing.T) {
		typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
		typeRec.ID = "type-1"
		store := &fakeStore{
			types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
				models.ReviewKindDipDocumentReview: typeRec,
			},
			typeStages: map[string][]dbmodels.ReviewRequestTypeStage{
				"type-1": {makeTypeStage("ts-1", 1, models.PolicyAnyOne, models.StageHsfDocumentReview)},
			},
		}
		catalog := newCatalog(store)
		_, _, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.NotNil(t, err)
		require.True(t, models.IsMisconfiguration(err))
	})

	t.Run("пустая политика трактуется как ANY_ONE", func(t *testing.T) {
		typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
		typeRec.ID = "type-1"
		store := &fakeStore{
			types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
				models.ReviewKindDipDocumentReview: typeRec,
			},
			typeStages: map[string][]dbmodels.ReviewRequestTypeStage{
				"type-1": {makeTypeStage("ts-1", 1, "", models.StageHsfDocumentReview, models.HsfAdminRole)},
			},
		}
		catalog := newCatalog(store)
		_, bindings, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.Nil(t, err)
		require.Equal(t, models.PolicyAnyOne, bindings[0].Policy)
	})

	t.Run("снимок кешируется до перезагрузки", func(t *testing.T) {
		typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
		typeRec.ID = "type-1"
		store := &fakeStore{
			types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
				models.ReviewKindDipDocumentReview: typeRec,
			},
			typeStages: map[string][]dbmodels.ReviewRequestTypeStage{
				"type-1": {makeTypeStage("ts-1", 1, models.PolicyAnyOne, models.StageHsfDocumentReview, models.HsfAdminRole)},
			},
		}
		catalog := newCatalog(store)

		_, _, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.Nil(t, err)
		_, _, err = catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.Nil(t, err)
		require.Equal(t, 1, store.loadCount)

		// после Reload конфигурация перечитывается
		catalog.Reload()
		_, bindings, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
		require.Nil(t, err)
		require.Len(t, bindings, 1)
		require.Equal(t, 2, store.loadCount)
	})
}

func TestDisableStage(t *testing.T) {
	typeRec := &dbmodels.ReviewRequestType{Kind: models.ReviewKindDipDocumentReview}
	typeRec.ID = "type-1"
	store := &fakeStore{
		types: map[models.ReviewKind]*dbmodels.ReviewRequestType{
			models.ReviewKindDipDocumentReview: typeRec,
		},
		typeStages: map[string][]dbmodels.ReviewRequestTypeStage{
			"type-1": {
				makeTypeStage("ts-1", 1, models.PolicyAnyOne, models.StageHsfDocumentReview, models.HsfAdminRole),
				makeTypeStage("ts-2", 2, models.PolicyAnyOne, models.StageLenderDocumentReview, models.LenderAdminRole),
			},
		},
	}
	catalog := newCatalog(store)

	// снимок прогрет до перенастройки
	_, bindings, err := catalog.StagesForKind(models.ReviewKindDipDocumentReview)
	require.Nil(t, err)
	require.Len(t, bindings, 2)

	err = catalog.DisableStage("ts-2")
	require.Nil(t, err)
	require.Equal(t, []string{"ts-2"}, store.disabled)

	// кеш сброшен, новый снимок без выключенного этапа
	_, bindings, err = catalog.StagesForKind(models.ReviewKindDipDocumentReview)
	require.Nil(t, err)
	require.Len(t, bindings, 1)
	require.Equal(t, models.StageHsfDocumentReview, bindings[0].Stage)
}

package reviewcataloghandler

import (
	"estate-finance-backend/db"
	reviewcatalogstore "estate-finance-backend/lib/review-catalog/store"
	"estate-finance-backend/models"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// StageBinding - один этап цепочки согласования из снимка конфигурации
type StageBinding struct {
	TypeStageID string
	Stage       models.ReviewStageName
	Order       int
	Policy      models.ApprovalPolicy
	Roles       []models.UserRole
}

type Provider interface {
	StagesForKind(kind models.ReviewKind) (typeID string, bindings []StageBinding, err error)
	DisableStage(typeStageID string) error
	Reload()
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store: reviewcatalogstore.NewInstance(db.DB),
		cache: map[models.ReviewKind]snapshot{},
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return &impl{
		store: reviewcatalogstore.NewInstance(tx),
		cache: map[models.ReviewKind]snapshot{},
	}
}

type snapshot struct {
	typeID   string
	bindings []StageBinding
}

type impl struct {
	store reviewcatalogstore.Provider
	mu    sync.RWMutex
	cache map[models.ReviewKind]snapshot
}

// StagesForKind возвращает включённые этапы типа согласования по возрастанию
// порядка. Конфигурация кешируется как неизменяемый снимок до явного Reload
func (i *impl) StagesForKind(kind models.ReviewKind) (string, []StageBinding, error) {
	i.mu.RLock()
	snap, ok := i.cache[kind]
	i.mu.RUnlock()
	if ok {
		return snap.typeID, snap.bindings, nil
	}

	snap, err := i.load(kind)
	if err != nil {
		return "", nil, err
	}
	i.mu.Lock()
	i.cache[kind] = snap
	i.mu.Unlock()
	return snap.typeID, snap.bindings, nil
}

// DisableStage выключает связку тип-этап и сбрасывает кеш конфигурации.
// Изменение порядка этапов - это выключение старой строки и вставка новой;
// уже запущенные запросы работают по своему снимку и перенастройки не видят
func (i *impl) DisableStage(typeStageID string) error {
	err := i.store.Disable(typeStageID)
	if err != nil {
		return errors.Wrap(err, "ошибка выключения этапа согласования")
	}
	i.Reload()
	return nil
}

func (i *impl) Reload() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cache = map[models.ReviewKind]snapshot{}
}

func (i *impl) load(kind models.ReviewKind) (snapshot, error) {
	typeRec, err := i.store.GetTypeByKind(kind)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "ошибка получения типа согласования")
	}
	if typeRec == nil {
		return snapshot{}, errors.Wrapf(models.ErrNotFound, "тип согласования %v не настроен", kind)
	}
	list, err := i.store.ListEnabledByType(typeRec.ID)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "ошибка получения этапов согласования")
	}
	if len(list) == 0 {
		return snapshot{}, errors.Wrapf(models.ErrMisconfiguration, "у типа согласования %v нет включённых этапов", kind)
	}

	bindings := make([]StageBinding, 0, len(list))
	for _, rec := range list {
		if len(rec.Approvers) == 0 {
			return snapshot{}, errors.Wrapf(models.ErrMisconfiguration, "у этапа %v типа %v не заданы согласующие роли", rec.StageOrder, kind)
		}
		binding := StageBinding{
			TypeStageID: rec.ID,
			Order:       rec.StageOrder,
			Policy:      rec.Policy,
			Roles:       make([]models.UserRole, 0, len(rec.Approvers)),
		}
		if binding.Policy == "" {
			binding.Policy = models.PolicyAnyOne
		}
		if rec.Stage != nil {
			binding.Stage = rec.Stage.Name
		}
		for _, approver := range rec.Approvers {
			binding.Roles = append(binding.Roles, approver.Role)
		}
		bindings = append(bindings, binding)
	}
	return snapshot{typeID: typeRec.ID, bindings: bindings}, nil
}

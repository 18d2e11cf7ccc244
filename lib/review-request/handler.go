package reviewrequesthandler

import (
	"estate-finance-backend/db"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	notifyhandler "estate-finance-backend/lib/notify"
	reviewcataloghandler "estate-finance-backend/lib/review-catalog"
	approvalstore "estate-finance-backend/lib/review-request/approval-store"
	historystore "estate-finance-backend/lib/review-request/history-store"
	stagestore "estate-finance-backend/lib/review-request/stage-store"
	reviewrequeststore "estate-finance-backend/lib/review-request/store"
	"estate-finance-backend/models"
	reviewapimodels "estate-finance-backend/models/api/review"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Start(initiatorID string, data reviewapimodels.ReviewStartData) (view reviewapimodels.ReviewRequestView, err error)
	GetByID(requestID string) (view reviewapimodels.ReviewRequestView, err error)
	CurrentStage(requestID string) (view reviewapimodels.CurrentStageView, err error)
	Decide(requestID, organizationID, userID string, role models.UserRole, data reviewapimodels.ReviewDecideData) (view reviewapimodels.ApprovalView, err error)
	Approvals(requestID string) (list []reviewapimodels.ApprovalView, err error)
	History(requestID string) (list []reviewapimodels.ApprovalHistoryView, err error)
	Restart(requestID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:         reviewrequeststore.NewInstance(db.DB),
		stageStore:    stagestore.NewInstance(db.DB),
		approvalStore: approvalstore.NewInstance(db.DB),
		historyStore:  historystore.NewInstance(db.DB),
		catalog:       reviewcataloghandler.Instance,
		lifecycle:     applicationlifecycle.Instance,
		notify:        notifyhandler.Instance,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
	}
}

type impl struct {
	store         reviewrequeststore.Provider
	stageStore    stagestore.Provider
	approvalStore approvalstore.Provider
	historyStore  historystore.Provider
	catalog       reviewcataloghandler.Provider
	lifecycle     applicationlifecycle.Provider
	notify        notifyhandler.Provider
	runTx         func(fn func(tx *gorm.DB) error) error
}

// forTx привязывает хранилища и координатор к транзакции,
// при nil обработчик используется как есть
func (i impl) forTx(tx *gorm.DB) impl {
	if tx == nil {
		return i
	}
	return impl{
		store:         reviewrequeststore.NewInstance(tx),
		stageStore:    stagestore.NewInstance(tx),
		approvalStore: approvalstore.NewInstance(tx),
		historyStore:  historystore.NewInstance(tx),
		catalog:       i.catalog,
		lifecycle:     applicationlifecycle.NewHandlerWithTx(tx),
		notify:        i.notify,
	}
}

func (i impl) getLogger(requestID string) *log.Entry {
	return log.WithField("review_request_id", requestID)
}

// Start создаёт запрос согласования. Последовательность этапов снимается с
// каталога один раз и фиксируется за запросом: последующие изменения
// конфигурации на уже поданные запросы не влияют
func (i impl) Start(initiatorID string, data reviewapimodels.ReviewStartData) (view reviewapimodels.ReviewRequestView, err error) {
	typeID, bindings, err := i.catalog.StagesForKind(data.Kind)
	if err != nil {
		return view, err
	}
	rec := dbmodels.ReviewRequest{
		TypeID:         typeID,
		SubjectID:      data.SubjectID,
		InitiatorID:    initiatorID,
		CandidateName:  data.CandidateName,
		Status:         models.ReviewStatusPending,
		SubmissionDate: time.Now(),
	}
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		id, err := h.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания запроса согласования")
		}
		rec.ID = id
		instances := make([]dbmodels.ReviewRequestStageInstance, 0, len(bindings))
		for _, binding := range bindings {
			instances = append(instances, dbmodels.ReviewRequestStageInstance{
				RequestID:   id,
				TypeStageID: binding.TypeStageID,
				StageOrder:  binding.Order,
				Policy:      binding.Policy,
			})
		}
		err = h.stageStore.CreateBatch(instances)
		if err != nil {
			return errors.Wrap(err, "ошибка фиксации этапов согласования")
		}
		return nil
	})
	if err != nil {
		return view, err
	}
	view = reviewapimodels.ReviewRequestConvert(rec)
	view.Kind = data.Kind
	return view, nil
}

func (i impl) GetByID(requestID string) (view reviewapimodels.ReviewRequestView, err error) {
	rec, err := i.store.GetByID(requestID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения запроса согласования")
	}
	if rec == nil {
		return view, errors.Wrapf(models.ErrNotFound, "запрос согласования %v не найден", requestID)
	}
	return reviewapimodels.ReviewRequestConvert(*rec), nil
}

// CurrentStage - текущий этап запроса, вычисленный по действующим решениям.
// Операция только читает и может вызываться сколько угодно раз
func (i impl) CurrentStage(requestID string) (view reviewapimodels.CurrentStageView, err error) {
	rec, err := i.store.GetByID(requestID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения запроса согласования")
	}
	if rec == nil {
		return view, errors.Wrapf(models.ErrNotFound, "запрос согласования %v не найден", requestID)
	}
	if rec.Status.IsTerminal() {
		return reviewapimodels.CurrentStageView{Terminal: true, Status: rec.Status}, nil
	}
	stages, approvals, err := i.loadState(requestID)
	if err != nil {
		return view, err
	}
	res := evaluate(stages, approvals)
	if res.Current == nil {
		return reviewapimodels.CurrentStageView{Terminal: true, Status: res.Status}, nil
	}
	return reviewapimodels.CurrentStageView{
		Status:     res.Status,
		Stage:      res.Current.Stage,
		StageOrder: res.Current.Order,
	}, nil
}

type notifyEvent struct {
	userID string
	code   models.NotifyCode
	args   []interface{}
}

// Decide принимает решение согласующей организации. Вся проверка и запись
// идут в одной транзакции под блокировкой строки запроса, уведомления
// уходят только после коммита
func (i impl) Decide(requestID, organizationID, userID string, role models.UserRole, data reviewapimodels.ReviewDecideData) (view reviewapimodels.ApprovalView, err error) {
	if err = data.Validate(); err != nil {
		return view, err
	}
	var events []notifyEvent
	err = i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		view, events, err = h.decide(requestID, organizationID, userID, role, data)
		return err
	})
	if err != nil {
		return view, err
	}
	for _, event := range events {
		i.notify.Notify(event.userID, event.code, event.args...)
	}
	return view, nil
}

func (i impl) decide(requestID, organizationID, userID string, role models.UserRole, data reviewapimodels.ReviewDecideData) (view reviewapimodels.ApprovalView, events []notifyEvent, err error) {
	rec, err := i.store.GetByIDForUpdate(requestID)
	if err != nil {
		return view, nil, errors.Wrap(err, "ошибка получения запроса согласования")
	}
	if rec == nil {
		return view, nil, errors.Wrapf(models.ErrNotFound, "запрос согласования %v не найден", requestID)
	}
	if rec.Status.IsTerminal() {
		return view, nil, errors.Wrapf(models.ErrConflict, "решение по запросу %v уже принято", requestID)
	}
	stages, approvals, err := i.loadState(requestID)
	if err != nil {
		return view, nil, err
	}
	if len(stages) == 0 {
		return view, nil, errors.Wrapf(models.ErrMisconfiguration, "у запроса %v нет зафиксированных этапов", requestID)
	}
	res := evaluate(stages, approvals)
	if res.Current == nil {
		return view, nil, errors.Wrapf(models.ErrConflict, "решение по запросу %v уже принято", requestID)
	}
	current := *res.Current
	if !roleAllowed(current, role) {
		return view, nil, errors.Wrapf(models.ErrForbidden, "роль %v не согласует этап %v", role, current.Stage)
	}
	if hasOrgDecision(current, approvals, organizationID) {
		return view, nil, errors.Wrapf(models.ErrConflict, "организация уже оставила решение на этапе %v", current.Stage)
	}

	now := time.Now()
	approval := dbmodels.ReviewRequestApproval{
		RequestID:      requestID,
		TypeStageID:    current.TypeStageID,
		OrganizationID: organizationID,
		ApprovalID:     userID,
		Role:           role,
		Status:         data.Decision,
		ApprovalDate:   &now,
		Comments:       data.Comments,
	}
	approval.ID, err = i.approvalStore.Create(approval)
	if err != nil {
		return view, nil, errors.Wrap(err, "ошибка сохранения решения")
	}
	i.audit(rec.Status, approval)

	kind := models.ReviewKind("")
	if rec.Type != nil {
		kind = rec.Type.Kind
	}

	switch data.Decision {
	case models.ReviewStatusRejected:
		err = i.store.Update(requestID, map[string]interface{}{"status": models.ReviewStatusRejected})
		if err != nil {
			return view, nil, errors.Wrap(err, "ошибка обновления статуса запроса")
		}
		_, err = i.lifecycle.OnReviewRejected(kind, rec.SubjectID, data.Comments)
		if err != nil {
			return view, nil, err
		}
		events = append(events, notifyEvent{
			userID: rec.InitiatorID,
			code:   models.NotifyReviewRejected,
			args:   []interface{}{rec.CandidateName, data.Comments},
		})
	case models.ReviewStatusApproved:
		next := evaluate(stages, append(approvals, approval))
		if next.Current == nil {
			err = i.store.Update(requestID, map[string]interface{}{"status": models.ReviewStatusApproved})
			if err != nil {
				return view, nil, errors.Wrap(err, "ошибка обновления статуса запроса")
			}
			outcome, err := i.lifecycle.OnReviewApproved(kind, rec.SubjectID)
			if err != nil {
				return view, nil, err
			}
			events = append(events, notifyEvent{
				userID: rec.InitiatorID,
				code:   models.NotifyReviewApproved,
				args:   []interface{}{rec.CandidateName},
			})
			if outcome.Advanced {
				events = append(events, notifyEvent{
					userID: outcome.BuyerID,
					code:   models.NotifyApplicationAdvanced,
					args:   []interface{}{outcome.NewStage.ToHuman()},
				})
			}
		} else if next.Current.Order != current.Order {
			events = append(events, notifyEvent{
				userID: rec.InitiatorID,
				code:   models.NotifyReviewStageAdvanced,
				args:   []interface{}{rec.CandidateName, string(next.Current.Stage)},
			})
		}
	}
	view = reviewapimodels.ApprovalConvert(approval)
	view.Stage = current.Stage
	return view, events, nil
}

func (i impl) Approvals(requestID string) (list []reviewapimodels.ApprovalView, err error) {
	recs, err := i.approvalStore.ListEffectiveByRequest(requestID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения решений по запросу")
	}
	list = make([]reviewapimodels.ApprovalView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, reviewapimodels.ApprovalConvert(rec))
	}
	return list, nil
}

// History - полный след решений, включая замещённые перезапуском
func (i impl) History(requestID string) (list []reviewapimodels.ApprovalHistoryView, err error) {
	recs, err := i.historyStore.List(requestID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения истории согласования")
	}
	list = make([]reviewapimodels.ApprovalHistoryView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, reviewapimodels.ApprovalHistoryConvert(rec))
	}
	return list, nil
}

// Restart возвращает отклонённый запрос на первый этап. Прежние решения
// помечаются замещёнными и перестают влиять на вычисление этапа
func (i impl) Restart(requestID string) error {
	return i.runTx(func(tx *gorm.DB) error {
		h := i.forTx(tx)
		rec, err := h.store.GetByIDForUpdate(requestID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения запроса согласования")
		}
		if rec == nil {
			return errors.Wrapf(models.ErrNotFound, "запрос согласования %v не найден", requestID)
		}
		if rec.Status != models.ReviewStatusRejected {
			return errors.Wrapf(models.ErrConflict, "перезапуск доступен только для отклонённого запроса, статус %v", rec.Status)
		}
		err = h.approvalStore.SupersedeByRequest(requestID)
		if err != nil {
			return errors.Wrap(err, "ошибка замещения прежних решений")
		}
		updMap := map[string]interface{}{
			"status":          models.ReviewStatusPending,
			"submission_date": time.Now(),
		}
		err = h.store.Update(requestID, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка обновления запроса согласования")
		}
		return nil
	})
}

func (i impl) loadState(requestID string) ([]stageView, []dbmodels.ReviewRequestApproval, error) {
	instances, err := i.stageStore.ListByRequest(requestID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения этапов запроса")
	}
	approvals, err := i.approvalStore.ListEffectiveByRequest(requestID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения решений по запросу")
	}
	return stageViewsOf(instances), approvals, nil
}

// audit пишет след решения, ошибка записи не откатывает само решение
func (i impl) audit(oldStatus models.ReviewStatus, approval dbmodels.ReviewRequestApproval) {
	history := dbmodels.ReviewApprovalHistory{
		RequestID:      approval.RequestID,
		ApprovalRecID:  approval.ID,
		OrganizationID: approval.OrganizationID,
		ApprovalID:     approval.ApprovalID,
		Status:         approval.Status,
		Comment:        approval.Comments,
		Changes: dbmodels.EntityChanges{
			Description: "Решение по этапу согласования",
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: oldStatus, NewValue: approval.Status},
			},
		},
	}
	_, err := i.historyStore.Create(history)
	if err != nil {
		i.getLogger(approval.RequestID).WithError(err).Error("ошибка записи истории согласования")
	}
}

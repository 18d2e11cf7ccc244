package applicationhandler

import (
	"context"
	"estate-finance-backend/db"
	applicationstages "estate-finance-backend/lib/application-stages"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	applicationstore "estate-finance-backend/lib/application/store"
	declinereasonstore "estate-finance-backend/lib/dicts/decline-reason/store"
	documentstore "estate-finance-backend/lib/file-storage/store"
	notifyhandler "estate-finance-backend/lib/notify"
	offerletterhandler "estate-finance-backend/lib/offer-letter"
	organizationstore "estate-finance-backend/lib/organization/store"
	reviewrequesthandler "estate-finance-backend/lib/review-request"
	reviewrequeststore "estate-finance-backend/lib/review-request/store"
	"estate-finance-backend/lib/utils/lock"
	"estate-finance-backend/models"
	applicationapimodels "estate-finance-backend/models/api/application"
	reviewapimodels "estate-finance-backend/models/api/review"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(buyerID string, data applicationapimodels.ApplicationCreateData) (id string, err error)
	GetByID(id string) (view applicationapimodels.ApplicationView, err error)
	List(buyerID string, filter applicationapimodels.AppFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	RequestOfferLetter(ctx context.Context, applicationID string) (requestID string, err error)
	SubmitDocuments(applicationID string) (requestID string, err error)
	CompletePreQualification(applicationID string) error
	Decline(applicationID string, data applicationapimodels.ApplicationDeclineData) error
	Resubmit(applicationID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:         applicationstore.NewInstance(db.DB),
		orgStore:      organizationstore.NewInstance(db.DB),
		reasonStore:   declinereasonstore.NewInstance(db.DB),
		docStore:      documentstore.NewInstance(db.DB),
		requestStore:  reviewrequeststore.NewInstance(db.DB),
		reviewHandler: reviewrequesthandler.Instance,
		offerLetter:   offerletterhandler.Instance,
		lifecycle:     applicationlifecycle.Instance,
		notify:        notifyhandler.Instance,
	}
}

type impl struct {
	store         applicationstore.Provider
	orgStore      organizationstore.Provider
	reasonStore   declinereasonstore.Provider
	docStore      documentstore.Provider
	requestStore  reviewrequeststore.Provider
	reviewHandler reviewrequesthandler.Provider
	offerLetter   offerletterhandler.Provider
	lifecycle     applicationlifecycle.Provider
	notify        notifyhandler.Provider
}

func (i impl) getLogger(applicationID string) *log.Entry {
	return log.WithField("application_id", applicationID)
}

// Create заводит заявку на первом этапе своего типа покупки
func (i impl) Create(buyerID string, data applicationapimodels.ApplicationCreateData) (string, error) {
	if err := data.Validate(); err != nil {
		return "", err
	}
	developer, err := i.orgStore.GetByID(data.DeveloperID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения застройщика")
	}
	if developer == nil || developer.Type != models.OrganizationTypeDeveloper {
		return "", errors.Wrapf(models.ErrNotFound, "застройщик %v не найден", data.DeveloperID)
	}
	firstStage, err := applicationstages.FirstStage(data.PurchaseType)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Application{
		BuyerID:      buyerID,
		DeveloperID:  data.DeveloperID,
		PropertyName: data.PropertyName,
		PropertyCost: data.PropertyCost,
		PurchaseType: data.PurchaseType,
		CurrentStage: firstStage,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания заявки")
	}
	return id, nil
}

func (i impl) GetByID(id string) (view applicationapimodels.ApplicationView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return view, errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", id)
	}
	return applicationapimodels.ApplicationConvert(*rec), nil
}

func (i impl) List(buyerID string, filter applicationapimodels.AppFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(buyerID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка подсчёта заявок")
	}
	recs, err := i.store.List(buyerID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения заявок")
	}
	list = make([]applicationapimodels.ApplicationView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, applicationapimodels.ApplicationConvert(rec))
	}
	return list, rowCount, nil
}

// RequestOfferLetter формирует оферту и подаёт её на согласование.
// Доступно на этапе оферты для прямой покупки и рассрочки
func (i impl) RequestOfferLetter(ctx context.Context, applicationID string) (string, error) {
	rec, err := i.store.GetByID(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return "", errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	if rec.CurrentStage != models.AppStageOfferLetter {
		return "", errors.Wrapf(models.ErrInvalidState, "заявка на этапе %v, оферта недоступна", rec.CurrentStage)
	}
	var kind models.ReviewKind
	switch rec.PurchaseType {
	case models.PurchaseTypeOutright:
		kind = models.ReviewKindOfferLetterOutright
	case models.PurchaseTypeInstallment:
		kind = models.ReviewKindOfferLetterInstallment
	default:
		return "", errors.Wrapf(models.ErrInvalidState, "оферта недоступна для типа покупки %v", rec.PurchaseType)
	}
	// повторный запрос по той же заявке ждёт завершения первого
	requestID := ""
	locked, err := lock.WithDelay(ctx, "offer-letter-"+applicationID, 30*time.Second, func() error {
		_, genErr := i.offerLetter.Generate(ctx, applicationID)
		if genErr != nil {
			return genErr
		}
		view, startErr := i.reviewHandler.Start(rec.BuyerID, reviewapimodels.ReviewStartData{
			Kind:          kind,
			SubjectID:     applicationID,
			CandidateName: rec.PropertyName,
		})
		if startErr != nil {
			return startErr
		}
		requestID = view.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	if !locked {
		return "", errors.Wrapf(models.ErrConflict, "оферта по заявке %v уже формируется", applicationID)
	}
	return requestID, nil
}

// SubmitDocuments подаёт загруженные документы на проверку: запускается
// согласование документов для предварительного решения. Доступно ипотечной
// заявке на этапе загрузки документов
func (i impl) SubmitDocuments(applicationID string) (string, error) {
	rec, err := i.store.GetByID(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return "", errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	if rec.CurrentStage != models.AppStageUploadDocument {
		return "", errors.Wrapf(models.ErrInvalidState, "заявка на этапе %v, подача документов недоступна", rec.CurrentStage)
	}
	docs, err := i.docStore.ListByApplication(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения документов заявки")
	}
	if len(docs) == 0 {
		return "", errors.Wrapf(models.ErrInvalidState, "по заявке %v нет загруженных документов", applicationID)
	}
	requests, err := i.requestStore.ListBySubject(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения запросов согласования")
	}
	for _, request := range requests {
		if request.Status == models.ReviewStatusPending {
			return "", errors.Wrapf(models.ErrConflict, "документы по заявке %v уже на проверке", applicationID)
		}
	}
	view, err := i.reviewHandler.Start(rec.BuyerID, reviewapimodels.ReviewStartData{
		Kind:          models.ReviewKindDipDocumentReview,
		SubjectID:     applicationID,
		CandidateName: rec.PropertyName,
	})
	if err != nil {
		return "", err
	}
	return view.ID, nil
}

func (i impl) CompletePreQualification(applicationID string) error {
	outcome, err := i.lifecycle.OnPreQualificationCompleted(applicationID)
	if err != nil {
		return err
	}
	if outcome.Advanced {
		i.notify.Notify(outcome.BuyerID, models.NotifyApplicationAdvanced, outcome.NewStage.ToHuman())
	}
	return nil
}

// Decline отклоняет заявку с причиной из справочника. Этап не меняется -
// отклонённую заявку можно подать повторно с того же места
func (i impl) Decline(applicationID string, data applicationapimodels.ApplicationDeclineData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.store.GetByID(applicationID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	reason, err := i.reasonStore.GetByID(data.DeclineReasonID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения причины отклонения")
	}
	if reason == nil {
		return errors.Wrapf(models.ErrNotFound, "причина отклонения %v не найдена", data.DeclineReasonID)
	}
	updMap := map[string]interface{}{
		"declined":          true,
		"decline_reason_id": data.DeclineReasonID,
		"decline_comment":   data.Comment,
	}
	err = i.store.Update(applicationID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка отклонения заявки")
	}
	i.notify.Notify(rec.BuyerID, models.NotifyApplicationDeclined, reason.Name)
	return nil
}

// Resubmit возвращает отклонённую заявку в работу: последнее согласование
// перезапускается с первого этапа, прежние решения замещаются
func (i impl) Resubmit(applicationID string) error {
	rec, err := i.store.GetByID(applicationID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	if !rec.Declined {
		return errors.Wrapf(models.ErrConflict, "заявка %v не отклонена", applicationID)
	}
	requests, err := i.requestStore.ListBySubject(applicationID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения запросов согласования")
	}
	if len(requests) > 0 {
		last := requests[len(requests)-1]
		if last.Status == models.ReviewStatusRejected {
			err = i.reviewHandler.Restart(last.ID)
			if err != nil {
				return err
			}
		}
	}
	updMap := map[string]interface{}{
		"declined":          false,
		"decline_reason_id": nil,
		"decline_comment":   "",
	}
	err = i.store.Update(applicationID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка возврата заявки в работу")
	}
	return nil
}

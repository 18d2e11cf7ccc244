package offerletterhandler

import (
	"context"
	"estate-finance-backend/db"
	applicationstore "estate-finance-backend/lib/application/store"
	pdfexport "estate-finance-backend/lib/export/pdf"
	filestorage "estate-finance-backend/lib/file-storage"
	organizationstore "estate-finance-backend/lib/organization/store"
	orgusersstore "estate-finance-backend/lib/organization/users/store"
	"estate-finance-backend/models"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// шаблон тела оферты, поля подставляются из OfferLetterData
const offerLetterTemplate = `<b>Оферта на приобретение объекта недвижимости</b><br><br>` +
	`Покупатель: {{.BuyerFIO}}<br>` +
	`Объект: {{.PropertyName}}<br>` +
	`Стоимость: {{.PropertyCost}}<br>` +
	`Форма покупки: {{.PurchaseTypeName}}<br>` +
	`Застройщик: {{.DeveloperName}}<br>` +
	`Дата составления: {{.OfferDate}}<br>`

type Provider interface {
	Generate(ctx context.Context, applicationID string) (docID string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		appStore:   applicationstore.NewInstance(db.DB),
		usersStore: orgusersstore.NewInstance(db.DB),
		orgStore:   organizationstore.NewInstance(db.DB),
		storage:    filestorage.Instance,
	}
}

type impl struct {
	appStore   applicationstore.Provider
	usersStore orgusersstore.Provider
	orgStore   organizationstore.Provider
	storage    filestorage.Provider
}

// Generate собирает PDF оферты и кладёт её в хранилище документов заявки
func (i impl) Generate(ctx context.Context, applicationID string) (string, error) {
	app, err := i.appStore.GetByID(applicationID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if app == nil {
		return "", errors.Wrapf(models.ErrNotFound, "заявка %v не найдена", applicationID)
	}
	buyer, err := i.usersStore.GetByID(app.BuyerID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения покупателя")
	}
	if buyer == nil {
		return "", errors.Wrapf(models.ErrNotFound, "покупатель %v не найден", app.BuyerID)
	}
	developer, err := i.orgStore.GetByID(app.DeveloperID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения застройщика")
	}
	if developer == nil {
		return "", errors.Wrapf(models.ErrNotFound, "застройщик %v не найден", app.DeveloperID)
	}

	tplData := models.OfferLetterData{
		BuyerFIO:         buyer.GetFullName(),
		PropertyName:     app.PropertyName,
		PropertyCost:     fmt.Sprintf("%.2f", app.PropertyCost),
		PurchaseTypeName: app.PurchaseType.ToHuman(),
		DeveloperName:    developer.Name,
		DeveloperAddress: developer.Address,
		OfferDate:        time.Now().Format("02.01.2006"),
	}
	pdfFile, err := pdfexport.GenerateOfferLetter(offerLetterTemplate, tplData)
	if err != nil {
		return "", errors.Wrap(err, "ошибка формирования pdf оферты")
	}
	docID, err := i.storage.UploadDocument(ctx, app.ID, app.BuyerID, "offer_letter.pdf", "application/pdf", pdfFile)
	if err != nil {
		return "", err
	}
	return docID, nil
}

package applicationapimodels

import (
	"estate-finance-backend/models"
	apimodels "estate-finance-backend/models/api"
	dbmodels "estate-finance-backend/models/db"

	"github.com/pkg/errors"
)

type ApplicationCreateData struct {
	DeveloperID  string              `json:"developer_id"`
	PropertyName string              `json:"property_name"`
	PropertyCost float64             `json:"property_cost"`
	PurchaseType models.PurchaseType `json:"purchase_type"`
}

func (r ApplicationCreateData) Validate() error {
	if !r.PurchaseType.IsValid() {
		return errors.Errorf("неизвестный тип покупки: %v", r.PurchaseType)
	}
	if r.DeveloperID == "" {
		return errors.New("не указан застройщик")
	}
	if r.PropertyName == "" {
		return errors.New("не указан объект недвижимости")
	}
	if r.PropertyCost <= 0 {
		return errors.New("стоимость объекта должна быть больше нуля")
	}
	return nil
}

type ApplicationDeclineData struct {
	DeclineReasonID string `json:"decline_reason_id"`
	Comment         string `json:"comment"`
}

func (r ApplicationDeclineData) Validate() error {
	if r.DeclineReasonID == "" {
		return errors.New("не указана причина отклонения")
	}
	return nil
}

type ApplicationView struct {
	ID            string                  `json:"id"`
	BuyerID       string                  `json:"buyer_id"`
	DeveloperID   string                  `json:"developer_id"`
	PropertyName  string                  `json:"property_name"`
	PropertyCost  float64                 `json:"property_cost"`
	PurchaseType  models.PurchaseType     `json:"purchase_type"`
	CurrentStage  models.ApplicationStage `json:"current_stage"`
	StageName     string                  `json:"stage_name"`
	Declined      bool                    `json:"declined"`
	DeclineReason string                  `json:"decline_reason,omitempty"`
}

func ApplicationConvert(rec dbmodels.Application) ApplicationView {
	view := ApplicationView{
		ID:           rec.ID,
		BuyerID:      rec.BuyerID,
		DeveloperID:  rec.DeveloperID,
		PropertyName: rec.PropertyName,
		PropertyCost: rec.PropertyCost,
		PurchaseType: rec.PurchaseType,
		CurrentStage: rec.CurrentStage,
		StageName:    rec.CurrentStage.ToHuman(),
		Declined:     rec.Declined,
	}
	if rec.DeclineReason != nil {
		view.DeclineReason = rec.DeclineReason.Name
	}
	return view
}

type AppFilter struct {
	PurchaseType models.PurchaseType     `json:"purchase_type,omitempty"`
	Stage        models.ApplicationStage `json:"stage,omitempty"`
	apimodels.Pagination
}

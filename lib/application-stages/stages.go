package applicationstages

import (
	"estate-finance-backend/models"

	"github.com/pkg/errors"
)

// Канонические цепочки этапов заявки по типам покупки.
// Единственный источник порядка этапов: никакой другой код
// не должен знать, какой этап следует за каким

var stagesByType = map[models.PurchaseType][]models.ApplicationStage{
	models.PurchaseTypeOutright: {
		models.AppStageOfferLetter,
		models.AppStagePropertyClosing,
		models.AppStageEscrowMeeting,
		models.AppStagePaymentTracker,
		models.AppStagePurchased,
	},
	models.PurchaseTypeMortgage: {
		models.AppStagePreQualification,
		models.AppStageDecisionInPrinciple,
		models.AppStageUploadDocument,
		models.AppStageLoanDecision,
		models.AppStageLoanOffer,
		models.AppStageConditionPrecedent,
		models.AppStageRepayment,
		models.AppStagePurchased,
	},
	models.PurchaseTypeInstallment: {
		models.AppStagePaymentCalculator,
		models.AppStagePreQualification,
		models.AppStageOfferLetter,
		models.AppStagePropertyClosing,
		models.AppStageRepayment,
		models.AppStagePurchased,
	},
}

func StagesFor(purchaseType models.PurchaseType) ([]models.ApplicationStage, error) {
	stages, ok := stagesByType[purchaseType]
	if !ok {
		return nil, errors.Wrapf(models.ErrInvalidState, "неизвестный тип покупки: %v", purchaseType)
	}
	result := make([]models.ApplicationStage, len(stages))
	copy(result, stages)
	return result, nil
}

func FirstStage(purchaseType models.PurchaseType) (models.ApplicationStage, error) {
	stages, err := StagesFor(purchaseType)
	if err != nil {
		return "", err
	}
	return stages[0], nil
}

func IsValidStage(purchaseType models.PurchaseType, stage models.ApplicationStage) bool {
	for _, s := range stagesByType[purchaseType] {
		if s == stage {
			return true
		}
	}
	return false
}

// NextStage возвращает следующий этап жизненного цикла заявки.
// Для последнего этапа (PURCHASED) возвращает terminal=true.
// Этап вне канонического списка своего типа - ошибка, без молчаливого fallback
func NextStage(purchaseType models.PurchaseType, current models.ApplicationStage) (next models.ApplicationStage, terminal bool, err error) {
	stages, ok := stagesByType[purchaseType]
	if !ok {
		return "", false, errors.Wrapf(models.ErrInvalidState, "неизвестный тип покупки: %v", purchaseType)
	}
	for idx, s := range stages {
		if s != current {
			continue
		}
		if idx == len(stages)-1 {
			return "", true, nil
		}
		return stages[idx+1], false, nil
	}
	return "", false, errors.Wrapf(models.ErrInvalidState, "этап %v не входит в цепочку типа %v", current, purchaseType)
}

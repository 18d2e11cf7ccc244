package applicationstages

import (
	"testing"

	"estate-finance-backend/models"

	"github.com/stretchr/testify/require"
)

func TestStagesFor(t *testing.T) {
	t.Run("цепочки всех типов покупки заканчиваются покупкой", func(t *testing.T) {
		for _, purchaseType := range []models.PurchaseType{
			models.PurchaseTypeOutright,
			models.PurchaseTypeMortgage,
			models.PurchaseTypeInstallment,
		} {
			stages, err := StagesFor(purchaseType)
			require.Nil(t, err)
			require.NotEmpty(t, stages)
			require.Equal(t, models.AppStagePurchased, stages[len(stages)-1])
		}
	})

	t.Run("неизвестный тип покупки", func(t *testing.T) {
		_, err := StagesFor("RENT")
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
	})

	t.Run("результат не разделяет память с каноническим списком", func(t *testing.T) {
		stages, err := StagesFor(models.PurchaseTypeOutright)
		require.Nil(t, err)
		stages[0] = "MUTATED"
		again, err := StagesFor(models.PurchaseTypeOutright)
		require.Nil(t, err)
		require.Equal(t, models.AppStageOfferLetter, again[0])
	})
}

func TestFirstStage(t *testing.T) {
	stage, err := FirstStage(models.PurchaseTypeMortgage)
	require.Nil(t, err)
	require.Equal(t, models.AppStagePreQualification, stage)

	stage, err = FirstStage(models.PurchaseTypeOutright)
	require.Nil(t, err)
	require.Equal(t, models.AppStageOfferLetter, stage)

	_, err = FirstStage("RENT")
	require.NotNil(t, err)
}

func TestNextStage(t *testing.T) {
	t.Run("переходы ипотечной цепочки", func(t *testing.T) {
		cases := map[models.ApplicationStage]models.ApplicationStage{
			models.AppStagePreQualification:    models.AppStageDecisionInPrinciple,
			models.AppStageDecisionInPrinciple: models.AppStageUploadDocument,
			models.AppStageUploadDocument:      models.AppStageLoanDecision,
			models.AppStageLoanDecision:        models.AppStageLoanOffer,
			models.AppStageLoanOffer:           models.AppStageConditionPrecedent,
			models.AppStageConditionPrecedent:  models.AppStageRepayment,
			models.AppStageRepayment:           models.AppStagePurchased,
		}
		for current, expected := range cases {
			next, terminal, err := NextStage(models.PurchaseTypeMortgage, current)
			require.Nil(t, err)
			require.False(t, terminal)
			require.Equal(t, expected, next)
		}
	})

	t.Run("последний этап терминален", func(t *testing.T) {
		_, terminal, err := NextStage(models.PurchaseTypeMortgage, models.AppStagePurchased)
		require.Nil(t, err)
		require.True(t, terminal)
	})

	t.Run("этап чужой цепочки", func(t *testing.T) {
		// калькулятор платежей есть только в рассрочке
		_, _, err := NextStage(models.PurchaseTypeMortgage, models.AppStagePaymentCalculator)
		require.NotNil(t, err)
		require.True(t, models.IsInvalidState(err))
	})

	t.Run("детерминированность", func(t *testing.T) {
		first, _, err := NextStage(models.PurchaseTypeInstallment, models.AppStageOfferLetter)
		require.Nil(t, err)
		for i := 0; i < 10; i++ {
			next, _, err := NextStage(models.PurchaseTypeInstallment, models.AppStageOfferLetter)
			require.Nil(t, err)
			require.Equal(t, first, next)
		}
	})

	t.Run("валидность этапа", func(t *testing.T) {
		require.True(t, IsValidStage(models.PurchaseTypeInstallment, models.AppStagePaymentCalculator))
		require.False(t, IsValidStage(models.PurchaseTypeOutright, models.AppStagePaymentCalculator))
	})
}

package webhooksapi

import (
	"estate-finance-backend/controllers"
	diphandler "estate-finance-backend/lib/dip"
	"estate-finance-backend/models"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type paymentWebhookController struct {
	controllers.BaseAPIController
}

func InitPaymentWebhookApiRouters(app *fiber.App) {
	controller := paymentWebhookController{}
	app.Route("webhooks", func(router fiber.Router) {
		router.Post("dip_payment", controller.dipPayment)
	})
}

type dipPaymentNotification struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

func (r dipPaymentNotification) Validate() error {
	if r.ApplicationID == "" {
		return errors.New("не указана заявка")
	}
	return nil
}

// @Summary Уведомление об оплате предварительного решения
// @Tags Webhooks
// @Description Уведомление платёжного провайдера об оплате предварительного решения
// @Param	body				body		dipPaymentNotification	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/webhooks/dip_payment [post]
func (c *paymentWebhookController) dipPayment(ctx *fiber.Ctx) error {
	var payload dipPaymentNotification
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logger := log.
		WithField("application_id", payload.ApplicationID).
		WithField("status", payload.Status)
	if payload.Status != "succeeded" {
		logger.Info("уведомление об оплате пропущено")
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	}
	err := diphandler.Instance.ConfirmPayment(payload.ApplicationID)
	if err != nil {
		// повтор уведомления провайдером не ошибка
		if models.IsNotFound(err) || models.IsConflict(err) {
			logger.WithError(err).Warn("уведомление об оплате не применено")
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
		}
		logger.WithError(err).Error("ошибка обработки уведомления об оплате")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("ошибка обработки уведомления"))
	}
	logger.Info("оплата предварительного решения подтверждена")
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

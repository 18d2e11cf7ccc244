package apiv1

import (
	"estate-finance-backend/controllers"
	reviewcataloghandler "estate-finance-backend/lib/review-catalog"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type reviewCatalogApiController struct {
	controllers.BaseAPIController
}

func InitReviewCatalogApiRouters(app *fiber.App) {
	controller := reviewCatalogApiController{}
	app.Route("review_catalog", func(router fiber.Router) {
		router.Put("stages/:id/disable", controller.disableStage)
	})
}

// @Summary Выключить этап согласования
// @Tags Каталог согласования
// @Description Выключить связку тип-этап, для изменения порядка создаётся новая строка
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id связки тип-этап"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_catalog/stages/{id}/disable [put]
func (c *reviewCatalogApiController) disableStage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = reviewcataloghandler.Instance.DisableStage(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка выключения этапа согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

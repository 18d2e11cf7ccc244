package apiv1

import (
	"estate-finance-backend/controllers"
	diphandler "estate-finance-backend/lib/dip"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type dipApiController struct {
	controllers.BaseAPIController
}

func InitDipApiRouters(app *fiber.App) {
	controller := dipApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Get(":id/dip", controller.get)
	})
}

// @Summary Предварительное решение по заявке
// @Tags Предварительное решение
// @Description Предварительное решение о кредитовании (DIP) по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/dip [get]
func (c *dipApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := diphandler.Instance.GetByApplication(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения предварительного решения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

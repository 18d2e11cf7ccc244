package dict

import (
	"estate-finance-backend/controllers"
	"estate-finance-backend/db"
	declinereasonstore "estate-finance-backend/lib/dicts/decline-reason/store"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type declineReasonApiController struct {
	controllers.BaseAPIController
}

func InitDeclineReasonDictApiRouters(app *fiber.App) {
	controller := declineReasonApiController{}
	app.Route("decline_reasons", func(router fiber.Router) {
		router.Get("", controller.list)
	})
}

// @Summary Справочник причин отклонения
// @Tags Справочники
// @Description Список причин отклонения заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/decline_reasons [get]
func (c *declineReasonApiController) list(ctx *fiber.Ctx) error {
	list, err := declinereasonstore.NewInstance(db.DB).List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения справочника причин отклонения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

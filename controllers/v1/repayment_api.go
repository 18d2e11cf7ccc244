package apiv1

import (
	"estate-finance-backend/controllers"
	repaymenthandler "estate-finance-backend/lib/repayment"
	apimodels "estate-finance-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type repaymentApiController struct {
	controllers.BaseAPIController
}

func InitRepaymentApiRouters(app *fiber.App) {
	controller := repaymentApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Get(":id/repayments", controller.schedule)
		router.Get(":id/repayments/export", controller.export)
	})
	app.Route("repayments", func(router fiber.Router) {
		router.Put(":id/pay", controller.pay)
	})
}

// @Summary График платежей
// @Tags Погашение
// @Description График платежей по кредиту
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/repayments [get]
func (c *repaymentApiController) schedule(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := repaymenthandler.Instance.Schedule(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения графика платежей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Выгрузка графика платежей
// @Tags Погашение
// @Description Выгрузка графика платежей в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/repayments/export [get]
func (c *repaymentApiController) export(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := repaymenthandler.Instance.ExportSchedule(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка выгрузки графика платежей")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename=\"repayment_schedule.xlsx\"")
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Оплатить платёж
// @Tags Погашение
// @Description Зафиксировать оплату платежа по графику
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id платежа"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/repayments/{id}/pay [put]
func (c *repaymentApiController) pay(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = repaymenthandler.Instance.MarkPaid(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка оплаты платежа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

package apiv1

import (
	"estate-finance-backend/controllers"
	loanhandler "estate-finance-backend/lib/loan"
	"estate-finance-backend/middleware"
	apimodels "estate-finance-backend/models/api"
	loanapimodels "estate-finance-backend/models/api/loan"

	"github.com/gofiber/fiber/v2"
)

type loanApiController struct {
	controllers.BaseAPIController
}

func InitLoanApiRouters(app *fiber.App) {
	controller := loanApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Post(":id/condition_precedent", controller.createConditionPrecedent)
		router.Get(":id/condition_precedents", controller.listConditionPrecedents)
		router.Get(":id/loan_offer", controller.getOffer)
		router.Put(":id/loan_offer/accept", controller.acceptOffer)
	})
	app.Route("condition_precedents", func(router fiber.Router) {
		router.Put(":id/complete", controller.completeConditionPrecedent)
	})
}

// @Summary Создать отлагательное условие
// @Tags Кредитование
// @Description Создать отлагательное условие и подать его на согласование
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Param	body				body		loanapimodels.ConditionPrecedentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/condition_precedent [post]
func (c *loanApiController) createConditionPrecedent(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload loanapimodels.ConditionPrecedentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	cpID, err := loanhandler.Instance.CreateConditionPrecedent(id, middleware.GetUserID(ctx), payload.Name)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка создания отлагательного условия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(cpID))
}

// @Summary Список отлагательных условий
// @Tags Кредитование
// @Description Список отлагательных условий по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/condition_precedents [get]
func (c *loanApiController) listConditionPrecedents(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := loanhandler.Instance.ListConditionPrecedents(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения отлагательных условий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Закрыть отлагательное условие
// @Tags Кредитование
// @Description Закрыть отлагательное условие после принятия кредитного предложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id отлагательного условия"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/condition_precedents/{id}/complete [put]
func (c *loanApiController) completeConditionPrecedent(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = loanhandler.Instance.CompleteConditionPrecedent(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка закрытия отлагательного условия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Кредитное предложение
// @Tags Кредитование
// @Description Кредитное предложение по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/loan_offer [get]
func (c *loanApiController) getOffer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := loanhandler.Instance.GetOffer(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения кредитного предложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Принять кредитное предложение
// @Tags Кредитование
// @Description Принять кредитное предложение, заявка переходит на следующий этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/loan_offer/accept [put]
func (c *loanApiController) acceptOffer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = loanhandler.Instance.AcceptOffer(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка принятия кредитного предложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

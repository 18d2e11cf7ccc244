package apiv1

import (
	"estate-finance-backend/controllers"
	reviewrequesthandler "estate-finance-backend/lib/review-request"
	"estate-finance-backend/middleware"
	apimodels "estate-finance-backend/models/api"
	reviewapimodels "estate-finance-backend/models/api/review"

	"github.com/gofiber/fiber/v2"
)

type reviewRequestApiController struct {
	controllers.BaseAPIController
}

func InitReviewRequestApiRouters(app *fiber.App) {
	controller := reviewRequestApiController{}
	app.Route("review_requests", func(router fiber.Router) {
		router.Get(":id", controller.get)
		router.Get(":id/current_stage", controller.currentStage)
		router.Put(":id/decide", controller.decide)
		router.Get(":id/approvals", controller.approvals)
		router.Get(":id/history", controller.history)
	})
}

// @Summary Получить заявку на согласование
// @Tags Согласования
// @Description Получить заявку на согласование по идентификатору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки на согласование"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.ReviewRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_requests/{id} [get]
func (c *reviewRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := reviewrequesthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения заявки на согласование")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Текущий этап согласования
// @Tags Согласования
// @Description Текущий этап цепочки согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки на согласование"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.CurrentStageView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_requests/{id}/current_stage [get]
func (c *reviewRequestApiController) currentStage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := reviewrequesthandler.Instance.CurrentStage(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения текущего этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Вынести решение
// @Tags Согласования
// @Description Одобрить или отклонить заявку на текущем этапе согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки на согласование"
// @Param	body				body		reviewapimodels.ReviewDecideData	true	"request body"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_requests/{id}/decide [put]
func (c *reviewRequestApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload reviewapimodels.ReviewDecideData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := reviewrequesthandler.Instance.Decide(id,
		middleware.GetUserOrganization(ctx), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка вынесения решения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Решения по заявке
// @Tags Согласования
// @Description Действующие решения по этапам согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки на согласование"
// @Success 200 {object} apimodels.Response{data=[]reviewapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_requests/{id}/approvals [get]
func (c *reviewRequestApiController) approvals(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := reviewrequesthandler.Instance.Approvals(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения решений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary История согласования
// @Tags Согласования
// @Description Полная история решений по заявке, включая отменённые перезапуском
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки на согласование"
// @Success 200 {object} apimodels.Response{data=[]reviewapimodels.ApprovalHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review_requests/{id}/history [get]
func (c *reviewRequestApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := reviewrequesthandler.Instance.History(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

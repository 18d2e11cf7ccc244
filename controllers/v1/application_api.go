package apiv1

import (
	"io"

	"estate-finance-backend/controllers"
	applicationhandler "estate-finance-backend/lib/application"
	filestorage "estate-finance-backend/lib/file-storage"
	"estate-finance-backend/middleware"
	"estate-finance-backend/models"
	apimodels "estate-finance-backend/models/api"
	applicationapimodels "estate-finance-backend/models/api/application"

	"github.com/gofiber/fiber/v2"
)

type applicationApiController struct {
	controllers.BaseAPIController
}

// предел размера загружаемого документа
const maxDocumentSize = 20 * 1024 * 1024

func InitApplicationApiRouters(app *fiber.App) {
	controller := applicationApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Get(":id", controller.get)
		router.Put(":id/prequalification/complete", controller.completePreQualification)
		router.Put(":id/offer_letter", controller.requestOfferLetter)
		router.Put(":id/decline", controller.decline)
		router.Put(":id/resubmit", controller.resubmit)
		router.Post(":id/documents", middleware.WithBodyLimit(maxDocumentSize), controller.uploadDocument)
		router.Put(":id/documents/submit", controller.submitDocuments)
		router.Get(":id/documents", controller.listDocuments)
		router.Get(":id/documents/:doc_id", controller.downloadDocument)
	})
}

// @Summary Создать заявку на покупку
// @Tags Заявки
// @Description Создать заявку на покупку недвижимости
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		applicationapimodels.ApplicationCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications [post]
func (c *applicationApiController) create(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ApplicationCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := applicationhandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список заявок
// @Tags Заявки
// @Description Список заявок с фильтром, покупатель видит только свои
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		applicationapimodels.AppFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/list [post]
func (c *applicationApiController) list(ctx *fiber.Ctx) error {
	var payload applicationapimodels.AppFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buyerID := ""
	if middleware.GetUserRole(ctx) == models.BuyerRole {
		buyerID = middleware.GetUserID(ctx)
	}
	list, rowCount, err := applicationhandler.Instance.List(buyerID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получить заявку
// @Tags Заявки
// @Description Получить заявку по идентификатору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id} [get]
func (c *applicationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := applicationhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Завершить предварительную квалификацию
// @Tags Заявки
// @Description Перевести заявку с этапа предварительной квалификации дальше
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/prequalification/complete [put]
func (c *applicationApiController) completePreQualification(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = applicationhandler.Instance.CompletePreQualification(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка завершения предварительной квалификации")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Запросить оферту
// @Tags Заявки
// @Description Сформировать оферту и подать её на согласование
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/offer_letter [put]
func (c *applicationApiController) requestOfferLetter(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requestID, err := applicationhandler.Instance.RequestOfferLetter(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка запроса оферты")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(requestID))
}

// @Summary Отклонить заявку
// @Tags Заявки
// @Description Отклонить заявку с указанием причины из справочника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Param	body				body		applicationapimodels.ApplicationDeclineData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/decline [put]
func (c *applicationApiController) decline(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.ApplicationDeclineData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = applicationhandler.Instance.Decline(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Повторно подать заявку
// @Tags Заявки
// @Description Повторная подача отклонённой заявки, цепочка согласования перезапускается
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/resubmit [put]
func (c *applicationApiController) resubmit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = applicationhandler.Instance.Resubmit(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка повторной подачи заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузить документ
// @Tags Заявки
// @Description Загрузить документ по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Param	file				formData	file	true	"файл"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents [post]
func (c *applicationApiController) uploadDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан файл"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось открыть файл"))
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}
	docID, err := filestorage.Instance.UploadDocument(ctx.UserContext(), id, middleware.GetUserID(ctx),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка загрузки документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docID))
}

// @Summary Подать документы на проверку
// @Tags Заявки
// @Description Подать загруженные документы на согласование
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents/submit [put]
func (c *applicationApiController) submitDocuments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requestID, err := applicationhandler.Instance.SubmitDocuments(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка подачи документов на проверку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(requestID))
}

// @Summary Список документов
// @Tags Заявки
// @Description Список документов по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents [get]
func (c *applicationApiController) listDocuments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := filestorage.Instance.ListByApplication(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения списка документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Скачать документ
// @Tags Заявки
// @Description Скачать документ по заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id					path		string	true	"id заявки"
// @Param	doc_id				path		string	true	"id документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/documents/{doc_id} [get]
func (c *applicationApiController) downloadDocument(ctx *fiber.Ctx) error {
	docID, err := c.GetIDByKey(ctx, "doc_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, rec, err := filestorage.Instance.GetDocument(ctx.UserContext(), docID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения документа")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+rec.FileName+"\"")
	return ctx.Status(fiber.StatusOK).Send(body)
}

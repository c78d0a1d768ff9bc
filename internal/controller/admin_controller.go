package controller

import (
	"strconv"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/pkg/serverutils"
	"tutorly-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)

	GetWaitlist(ctx *fiber.Ctx) error

	GetReports(ctx *fiber.Ctx) error
	GetReport(ctx *fiber.Ctx) error

	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminOnly)

	// Waitlist
	h.Get("/waitlist", c.GetWaitlist)

	// Session archive
	h.Get("/reports", c.GetReports)
	h.Get("/reports/:id", c.GetReport)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func paging(ctx *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	return page, limit
}

func (c *adminController) GetWaitlist(ctx *fiber.Ctx) error {
	page, limit := paging(ctx)

	items, total, err := c.service.ListWaitlist(ctx.Context(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waitlist entries", serverutils.PagedData[dto.WaitlistEntryResponse]{
		Items: items,
		Meta:  serverutils.PageMeta{Page: page, Limit: limit, Total: total},
	}))
}

func (c *adminController) GetReports(ctx *fiber.Ctx) error {
	page, limit := paging(ctx)
	subject := ctx.Query("subject", "")

	items, total, err := c.service.ListReports(ctx.Context(), page, limit, subject)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reports", serverutils.PagedData[*dto.SessionReportResponse]{
		Items: items,
		Meta:  serverutils.PageMeta{Page: page, Limit: limit, Total: total},
	}))
}

func (c *adminController) GetReport(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid report ID"))
	}

	res, err := c.service.GetReport(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session report", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, limit := paging(ctx)
	level := ctx.Query("level", "")
	module := ctx.Query("module", "")

	logs, total, err := c.service.GetSystemLogs(ctx.Context(), page, limit, level, module)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", serverutils.PagedData[*dto.LogListResponse]{
		Items: logs,
		Meta:  serverutils.PageMeta{Page: page, Limit: limit, Total: total},
	}))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // MD5 of the log line, not a UUID

	l, err := c.service.GetLogDetail(ctx.Context(), logId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

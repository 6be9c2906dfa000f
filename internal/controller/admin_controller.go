package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docs-assistant-be/internal/admin"
	"docs-assistant-be/internal/dto"
	"docs-assistant-be/internal/pkg/logger"
	"docs-assistant-be/internal/pkg/serverutils"
	"docs-assistant-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
}

type adminController struct {
	settings      *admin.SettingsManager
	corpusService service.ICorpusService
	logger        logger.ILogger
}

func NewAdminController(settings *admin.SettingsManager, corpusService service.ICorpusService, log logger.ILogger) IAdminController {
	return &adminController{
		settings:      settings,
		corpusService: corpusService,
		logger:        log,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Get("settings", c.GetSettings)
	h.Put("settings", c.UpdateSettings)
	h.Get("logs", c.GetLogs)
	h.Get("logs/:id", c.GetLogDetail)
	h.Post("reload", c.Reload)
}

func (c *adminController) GetSettings(ctx *fiber.Ctx) error {
	s, err := c.settings.Load()
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Assistant settings", s))
}

func (c *adminController) UpdateSettings(ctx *fiber.Ctx) error {
	var req admin.Settings
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.settings.Save(&req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Settings updated", &req))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))
	level := ctx.Query("level", "")

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Log not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", entry))
}

// Reload re-reads the corpus directory on demand, same path the file watcher
// takes on changes.
func (c *adminController) Reload(ctx *fiber.Ctx) error {
	if err := c.corpusService.Reload(ctx.Context()); err != nil {
		return err
	}

	g, err := c.corpusService.Graph(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Corpus reloaded", &dto.ReloadResponse{
		Components: g.ComponentCount,
		Topics:     g.TopicCount,
	}))
}

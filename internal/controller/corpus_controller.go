package controller

import (
	"github.com/gofiber/fiber/v2"

	"docs-assistant-be/internal/pkg/serverutils"
	"docs-assistant-be/internal/service"
)

type ICorpusController interface {
	RegisterRoutes(r fiber.Router)
	Graph(ctx *fiber.Ctx) error
	Components(ctx *fiber.Ctx) error
	Component(ctx *fiber.Ctx) error
	Topics(ctx *fiber.Ctx) error
}

type corpusController struct {
	corpusService service.ICorpusService
}

func NewCorpusController(corpusService service.ICorpusService) ICorpusController {
	return &corpusController{
		corpusService: corpusService,
	}
}

func (c *corpusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/corpus/v1")
	h.Get("graph", c.Graph)
	h.Get("components", c.Components)
	h.Get("components/:id", c.Component)
	h.Get("topics", c.Topics)
}

func (c *corpusController) Graph(ctx *fiber.Ctx) error {
	res, err := c.corpusService.Graph(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dependency graph", res))
}

func (c *corpusController) Components(ctx *fiber.Ctx) error {
	res, err := c.corpusService.Components(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component list", res))
}

func (c *corpusController) Component(ctx *fiber.Ctx) error {
	res, err := c.corpusService.Component(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Component detail", res))
}

func (c *corpusController) Topics(ctx *fiber.Ctx) error {
	res, err := c.corpusService.Topics(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Topic list", res))
}

package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"docs-assistant-be/internal/dto"
	"docs-assistant-be/internal/pkg/serverutils"
	"docs-assistant-be/internal/service"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	DestroySession(ctx *fiber.Ctx) error
}

type askController struct {
	askService service.IAskService
}

func NewAskController(askService service.IAskService) IAskController {
	return &askController{
		askService: askService,
	}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("ask", c.Ask)
	h.Delete("session/:id", c.DestroySession)
}

// Ask streams the answer as server-sent events. Validation happens before the
// stream opens so malformed requests still get a plain 400 JSON response.
func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question must not be empty")
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber ctx is recycled once the handler returns, so the stream
	// writer must not touch it. The request context is detached for the
	// same reason.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		c.askService.Ask(context.Background(), &req, func(event dto.AskEvent) {
			payload, err := json.Marshal(event)
			if err != nil {
				return
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			// Flush per event; the client disconnecting surfaces here and
			// remaining events are dropped on the floor.
			_ = w.Flush()
		})
	}))

	return nil
}

// DestroySession ends a session explicitly. Unknown ids are not an error; the
// response just reports non-existence.
func (c *askController) DestroySession(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session id is required")
	}

	res := c.askService.DestroySession(id)
	return ctx.JSON(serverutils.SuccessResponse("Session destroyed", res))
}

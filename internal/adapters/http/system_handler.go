package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/melih/dockhouse/internal/core/ports"
)

type SystemHandler struct {
	service ports.SystemService
	resp    *Responder
}

func NewSystemHandler(service ports.SystemService, resp *Responder) *SystemHandler {
	return &SystemHandler{service: service, resp: resp}
}

// Info relays the daemon's info document as is.
func (h *SystemHandler) Info(c *fiber.Ctx) error {
	info, err := h.service.Info(c.Context())
	if err != nil {
		return h.resp.Fail(c, "retrieve Docker info", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(info)
}

// Health answers 200 while the daemon responds to pings.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	if err := h.service.Ping(c.Context()); err != nil {
		return h.resp.Fail(c, "reach Docker daemon", err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

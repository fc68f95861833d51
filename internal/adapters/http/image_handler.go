package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/melih/dockhouse/internal/core/domain"
	"github.com/melih/dockhouse/internal/core/ports"
)

// BuildResponse names the image produced by POST /build.
type BuildResponse struct {
	Message string `json:"message"`
	Image   string `json:"image"`
}

type ImageHandler struct {
	service ports.ImageService
	builder ports.BuilderService
	resp    *Responder
}

func NewImageHandler(service ports.ImageService, builder ports.BuilderService, resp *Responder) *ImageHandler {
	return &ImageHandler{service: service, builder: builder, resp: resp}
}

func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	images, err := h.service.ListImages(c.Context())
	if err != nil {
		return h.resp.Fail(c, "list images", err)
	}
	return c.JSON(images)
}

// BuildImage handles POST /build. It blocks until the daemon finishes the build.
func (h *ImageHandler) BuildImage(c *fiber.Ctx) error {
	var spec domain.BuildSpec
	if err := parseBody(c, &spec); err != nil {
		return h.resp.Invalid(c, err)
	}

	tag, err := h.builder.BuildImage(c.Context(), spec)
	if err != nil {
		return h.resp.Fail(c, "build image", err)
	}
	return c.Status(fiber.StatusCreated).JSON(BuildResponse{Message: "Image built", Image: tag})
}

package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/melih/dockhouse/internal/core/domain"
	"github.com/melih/dockhouse/internal/core/ports"
)

const defaultTail = 100

// MessageResponse acknowledges a state change.
type MessageResponse struct {
	Message string `json:"message"`
}

// LogsResponse carries the decoded log text of one container.
type LogsResponse struct {
	ID   string `json:"id"`
	Logs string `json:"logs"`
}

// RunResponse identifies the container created by POST /run.
type RunResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	ExitCode *int64 `json:"exit_code,omitempty"`
}

type ContainerHandler struct {
	service ports.ContainerService
	resp    *Responder
}

func NewContainerHandler(service ports.ContainerService, resp *Responder) *ContainerHandler {
	return &ContainerHandler{service: service, resp: resp}
}

// ListContainers handles GET /containers?all=<bool>.
func (h *ContainerHandler) ListContainers(c *fiber.Ctx) error {
	all, err := queryBool(c, "all", false)
	if err != nil {
		return h.resp.Invalid(c, err)
	}

	containers, err := h.service.ListContainers(c.Context(), all)
	if err != nil {
		return h.resp.Fail(c, "list containers", err)
	}
	return c.JSON(containers)
}

// GetContainer handles GET /containers/:id.
func (h *ContainerHandler) GetContainer(c *fiber.Ctx) error {
	detail, err := h.service.GetContainer(c.Context(), c.Params("id"))
	if err != nil {
		return h.resp.Fail(c, "inspect container", err)
	}
	return c.JSON(detail)
}

func (h *ContainerHandler) StartContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.StartContainer(c.Context(), id); err != nil {
		return h.resp.Fail(c, "start container", err)
	}
	return c.JSON(MessageResponse{Message: fmt.Sprintf("Container %s started successfully.", id)})
}

func (h *ContainerHandler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return h.resp.Fail(c, "stop container", err)
	}
	return c.JSON(MessageResponse{Message: fmt.Sprintf("Container %s stopped successfully.", id)})
}

func (h *ContainerHandler) RestartContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.RestartContainer(c.Context(), id); err != nil {
		return h.resp.Fail(c, "restart container", err)
	}
	return c.JSON(MessageResponse{Message: fmt.Sprintf("Container %s restarted successfully.", id)})
}

// RemoveContainer handles DELETE /remove/:id. Removal is forced unless ?force=false.
func (h *ContainerHandler) RemoveContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	force, err := queryBool(c, "force", true)
	if err != nil {
		return h.resp.Invalid(c, err)
	}

	if err := h.service.RemoveContainer(c.Context(), id, force); err != nil {
		return h.resp.Fail(c, "remove container", err)
	}
	return c.JSON(MessageResponse{Message: fmt.Sprintf("Container %s removed successfully.", id)})
}

// GetContainerLogs handles GET /logs/:id?tail=<n>.
func (h *ContainerHandler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	tail, err := queryInt(c, "tail", defaultTail)
	if err != nil {
		return h.resp.Invalid(c, err)
	}

	logs, err := h.service.GetContainerLogs(c.Context(), id, tail)
	if err != nil {
		return h.resp.Fail(c, "get logs", err)
	}
	return c.JSON(LogsResponse{ID: id, Logs: logs})
}

// RunContainer handles POST /run.
func (h *ContainerHandler) RunContainer(c *fiber.Ctx) error {
	var spec domain.RunSpec
	if err := parseBody(c, &spec); err != nil {
		return h.resp.Invalid(c, err)
	}

	result, err := h.service.RunContainer(c.Context(), spec)
	if err != nil {
		return h.resp.Fail(c, "run container", err)
	}

	if result.ExitCode != nil {
		return c.JSON(RunResponse{Message: "Container exited", ID: result.ID, ExitCode: result.ExitCode})
	}
	return c.JSON(RunResponse{Message: "Container started", ID: result.ID})
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"github.com/melih/dockhouse/internal/core/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Adapter failures keep the historical blanket 500. Strict mode gives each kind its own status.
var (
	defaultStatus = map[error]int{
		domain.ErrValidation:        fiber.StatusUnprocessableEntity,
		domain.ErrNotFound:          fiber.StatusInternalServerError,
		domain.ErrImageNotFound:     fiber.StatusInternalServerError,
		domain.ErrOperationFailed:   fiber.StatusInternalServerError,
		domain.ErrDaemonUnavailable: fiber.StatusInternalServerError,
	}
	strictStatus = map[error]int{
		domain.ErrValidation:        fiber.StatusBadRequest,
		domain.ErrNotFound:          fiber.StatusNotFound,
		domain.ErrImageNotFound:     fiber.StatusNotFound,
		domain.ErrOperationFailed:   fiber.StatusConflict,
		domain.ErrDaemonUnavailable: fiber.StatusServiceUnavailable,
	}
)

// Responder turns failures into status codes and JSON bodies.
type Responder struct {
	strict bool
	log    logrus.FieldLogger
}

func NewResponder(strict bool, log logrus.FieldLogger) *Responder {
	return &Responder{strict: strict, log: log}
}

// Status returns the HTTP status for err.
func (r *Responder) Status(err error) int {
	table := defaultStatus
	if r.strict {
		table = strictStatus
	}
	if status, ok := table[domain.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// Fail reports a failed operation as {"detail": "Failed to <action>: <cause>"}.
func (r *Responder) Fail(c *fiber.Ctx, action string, err error) error {
	return r.send(c, err, "Failed to "+action+": "+err.Error())
}

// Invalid reports malformed input. The message is the validation error itself.
func (r *Responder) Invalid(c *fiber.Ctx, err error) error {
	if domain.KindOf(err) == nil {
		err = domain.NewError("validate", domain.ErrValidation, err)
	}
	return r.send(c, err, err.Error())
}

func (r *Responder) send(c *fiber.Ctx, err error, detail string) error {
	status := r.Status(err)

	entry := r.log.WithError(err).WithFields(logrus.Fields{
		"status": status,
		"path":   c.Path(),
	})
	var typed *domain.Error
	if errors.As(err, &typed) {
		entry = entry.WithField("op", typed.Op)
	}
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	return c.Status(status).JSON(ErrorResponse{Detail: detail})
}

// ErrorHandler renders errors that escape the handlers, such as unknown routes or recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Detail: utils.StatusMessage(code)})
}

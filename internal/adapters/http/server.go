package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/melih/dockhouse/internal/core/ports"
)

// Options wires the ports served by the API.
type Options struct {
	Containers ports.ContainerService
	Images     ports.ImageService
	System     ports.SystemService
	// Builder is optional; POST /build is only mounted when it is set.
	Builder ports.BuilderService

	StrictStatus bool
	Logger       logrus.FieldLogger
}

// NewApp builds the fiber application with every route mounted.
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dockhouse",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
	})

	// recover sits inside the access logger so a panicking request is still logged.
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(opts.Logger.WithField("component", "http")))
	app.Use(recover.New())

	resp := NewResponder(opts.StrictStatus, opts.Logger.WithField("component", "http"))
	containerHandler := NewContainerHandler(opts.Containers, resp)
	imageHandler := NewImageHandler(opts.Images, opts.Builder, resp)
	systemHandler := NewSystemHandler(opts.System, resp)

	// Routes for Container operations
	app.Get("/containers", containerHandler.ListContainers)
	app.Get("/containers/:id", containerHandler.GetContainer)
	app.Post("/start/:id", containerHandler.StartContainer)
	app.Post("/stop/:id", containerHandler.StopContainer)
	app.Post("/restart/:id", containerHandler.RestartContainer)
	app.Delete("/remove/:id", containerHandler.RemoveContainer)
	app.Get("/logs/:id", containerHandler.GetContainerLogs)
	app.Post("/run", containerHandler.RunContainer)

	// Routes for Image operations
	app.Get("/images", imageHandler.ListImages)
	if opts.Builder != nil {
		app.Post("/build", imageHandler.BuildImage)
	}

	app.Get("/info", systemHandler.Info)
	app.Get("/healthz", systemHandler.Health)

	return app
}

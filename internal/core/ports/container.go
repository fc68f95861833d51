package ports

import (
	"context"

	"github.com/melih/dockhouse/internal/core/domain"
)

// ContainerService defines the container operations the daemon offers.
// Every call is one round trip; failures carry a domain failure kind.
type ContainerService interface {
	ListContainers(ctx context.Context, all bool) ([]domain.ContainerSummary, error)
	GetContainer(ctx context.Context, id string) (*domain.ContainerDetail, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	RestartContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	GetContainerLogs(ctx context.Context, id string, tail int) (string, error)
	RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error)
}

// ImageService lists the images known to the daemon.
type ImageService interface {
	ListImages(ctx context.Context) ([]domain.ImageSummary, error)
}

// SystemService exposes daemon-wide information.
type SystemService interface {
	Ping(ctx context.Context) error
	Info(ctx context.Context) (domain.DaemonInfo, error)
}

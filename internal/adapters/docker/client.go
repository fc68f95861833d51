package docker

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/melih/dockhouse/internal/core/domain"
)

// DefaultSocket is where the daemon listens on a stock Linux host.
const DefaultSocket = "/var/run/docker.sock"

// DaemonClient is the subset of the Docker SDK client the adapter calls.
// *client.Client satisfies it.
type DaemonClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ClientVersion() string
	HTTPClient() *http.Client

	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRestart(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)

	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
}

// Connect opens a client on the daemon's unix socket and pings it.
// DOCKER_HOST, DOCKER_TLS_VERIFY and DOCKER_CERT_PATH are never consulted,
// so the connection always targets the local socket.
func Connect(ctx context.Context, socketPath string) (*client.Client, error) {
	cli, err := client.NewClientWithOpts(
		client.WithHost("unix://"+socketPath),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	ping, err := cli.Ping(ctx)
	if err != nil {
		cli.Close()
		return nil, domain.NewError("ping", domain.ErrDaemonUnavailable,
			fmt.Errorf("failed to connect to docker daemon at %s: %w", socketPath, err))
	}
	// Settle the API version now; Info builds its request path from it.
	cli.NegotiateAPIVersionPing(ping)
	return cli, nil
}

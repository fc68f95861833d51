package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"

	"github.com/melih/dockhouse/internal/core/domain"
)

// Adapter implements ports.ContainerService, ports.ImageService and
// ports.SystemService on top of a single daemon client.
type Adapter struct {
	cli DaemonClient
	log logrus.FieldLogger
}

// NewAdapter creates a new Docker adapter instance around an already connected client.
func NewAdapter(cli DaemonClient, log logrus.FieldLogger) *Adapter {
	return &Adapter{cli: cli, log: log.WithField("component", "docker")}
}

// ListContainers returns running containers, or all of them when all is set.
func (a *Adapter) ListContainers(ctx context.Context, all bool) ([]domain.ContainerSummary, error) {
	const op = "list containers"

	containers, err := a.cli.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, wrap(op, domain.ErrDaemonUnavailable, err)
	}

	// Tags live on the image, so resolve them with one image listing instead of one inspect per container.
	tagsByImage, err := a.imageTags(ctx)
	if err != nil {
		return nil, wrap(op, domain.ErrDaemonUnavailable, err)
	}

	result := make([]domain.ContainerSummary, 0, len(containers))
	for _, c := range containers {
		tags := tagsByImage[c.ImageID]
		if tags == nil {
			tags = []string{}
		}
		result = append(result, domain.ContainerSummary{
			ID:     shortID(c.ID),
			Name:   containerName(c.Names),
			Status: c.State,
			Image:  tags,
		})
	}
	return result, nil
}

// GetContainer resolves a full id, unambiguous prefix or name to a container.
func (a *Adapter) GetContainer(ctx context.Context, id string) (*domain.ContainerDetail, error) {
	const op = "inspect container"

	c, err := a.resolve(ctx, op, domain.ErrOperationFailed, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ContainerDetail{
		ID:     shortID(c.ID),
		FullID: c.ID,
		Name:   strings.TrimPrefix(c.Name, "/"),
		Image:  c.Image,
		Tags:   []string{},
	}
	if c.State != nil {
		detail.Status = c.State.Status
	}
	if c.Config != nil {
		detail.TTY = c.Config.Tty
	}

	img, _, err := a.cli.ImageInspectWithRaw(ctx, c.Image)
	switch {
	case err == nil:
		detail.Tags = repoTags(img.RepoTags)
	case errdefs.IsNotFound(err):
		// image was removed while the container kept running
	default:
		return nil, wrap(op, domain.ErrOperationFailed, err)
	}
	return detail, nil
}

// StartContainer starts a stopped container.
func (a *Adapter) StartContainer(ctx context.Context, id string) error {
	const op = "start container"

	c, err := a.resolve(ctx, op, domain.ErrOperationFailed, id)
	if err != nil {
		return err
	}
	if err := a.cli.ContainerStart(ctx, c.ID, container.StartOptions{}); err != nil {
		return wrap(op, domain.ErrOperationFailed, err)
	}
	a.log.WithField("container", shortID(c.ID)).Info("container started")
	return nil
}

// StopContainer stops a running container using the daemon's default grace period.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	const op = "stop container"

	c, err := a.resolve(ctx, op, domain.ErrOperationFailed, id)
	if err != nil {
		return err
	}
	if err := a.cli.ContainerStop(ctx, c.ID, container.StopOptions{}); err != nil {
		return wrap(op, domain.ErrOperationFailed, err)
	}
	a.log.WithField("container", shortID(c.ID)).Info("container stopped")
	return nil
}

// RestartContainer stops and starts a container again.
func (a *Adapter) RestartContainer(ctx context.Context, id string) error {
	const op = "restart container"

	c, err := a.resolve(ctx, op, domain.ErrOperationFailed, id)
	if err != nil {
		return err
	}
	if err := a.cli.ContainerRestart(ctx, c.ID, container.StopOptions{}); err != nil {
		return wrap(op, domain.ErrOperationFailed, err)
	}
	a.log.WithField("container", shortID(c.ID)).Info("container restarted")
	return nil
}

// RemoveContainer deletes a container. With force a running container is killed first.
func (a *Adapter) RemoveContainer(ctx context.Context, id string, force bool) error {
	const op = "remove container"

	c, err := a.resolve(ctx, op, domain.ErrOperationFailed, id)
	if err != nil {
		return err
	}
	if err := a.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: force}); err != nil {
		return wrap(op, domain.ErrOperationFailed, err)
	}
	a.log.WithFields(logrus.Fields{"container": shortID(c.ID), "force": force}).Info("container removed")
	return nil
}

// GetContainerLogs returns the last tail lines of combined stdout and stderr.
// A negative tail returns the whole log.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string, tail int) (string, error) {
	const op = "get logs"

	c, err := a.resolve(ctx, op, domain.ErrDaemonUnavailable, id)
	if err != nil {
		return "", err
	}

	tailOpt := "all"
	if tail >= 0 {
		tailOpt = strconv.Itoa(tail)
	}
	options := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     false,
		Tail:       tailOpt,
	}
	reader, err := a.cli.ContainerLogs(ctx, c.ID, options)
	if err != nil {
		return "", wrap(op, domain.ErrDaemonUnavailable, err)
	}
	defer reader.Close()

	// Without a TTY the daemon multiplexes both streams behind 8-byte frame headers.
	var buf bytes.Buffer
	if c.Config != nil && c.Config.Tty {
		_, err = io.Copy(&buf, reader)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, reader)
	}
	if err != nil {
		return "", wrap(op, domain.ErrDaemonUnavailable, fmt.Errorf("failed to read log stream: %w", err))
	}
	return strings.ToValidUTF8(buf.String(), "\uFFFD"), nil
}

// resolve inspects id so that every operation fails with NotFound the same way
// and then acts on the daemon's full id.
func (a *Adapter) resolve(ctx context.Context, op string, fallback error, id string) (types.ContainerJSON, error) {
	c, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return types.ContainerJSON{}, wrap(op, fallback, err)
	}
	if c.ContainerJSONBase == nil {
		return types.ContainerJSON{}, domain.NewError(op, domain.ErrOperationFailed,
			fmt.Errorf("daemon returned an empty record for container %s", id))
	}
	return c, nil
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

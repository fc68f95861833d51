package docker

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"
	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/melih/dockhouse/internal/core/domain"
)

// RunContainer creates a container from spec and starts it. A missing image is
// pulled once. Without detach the call returns after the container has stopped.
func (a *Adapter) RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error) {
	const op = "run container"

	config, hostConfig, err := containerConfig(spec)
	if err != nil {
		return nil, domain.NewError(op, domain.ErrValidation, err)
	}

	// 1. Create Container
	resp, err := a.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if errdefs.IsNotFound(err) {
		// 2. Image Pull, then try again
		if err := a.pullImage(ctx, spec.Image); err != nil {
			return nil, err
		}
		resp, err = a.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	}
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, domain.NewError(op, domain.ErrImageNotFound, err)
		}
		return nil, wrap(op, domain.ErrOperationFailed, err)
	}
	for _, w := range resp.Warnings {
		a.log.WithField("image", spec.Image).Warn(w)
	}

	// 3. Start Container
	if err := a.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		a.discard(ctx, resp.ID)
		return nil, wrap(op, domain.ErrOperationFailed, err)
	}

	result := &domain.RunResult{ID: shortID(resp.ID)}
	a.log.WithFields(logrus.Fields{"container": result.ID, "image": spec.Image}).Info("container started")
	if spec.Detached() {
		return result, nil
	}

	statusCh, errCh := a.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return nil, wrap(op, domain.ErrOperationFailed, err)
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return nil, domain.NewError(op, domain.ErrOperationFailed, fmt.Errorf("wait for container: %s", status.Error.Message))
		}
		code := status.StatusCode
		result.ExitCode = &code
	}
	return result, nil
}

// discard removes a container that was created but never started.
func (a *Adapter) discard(ctx context.Context, id string) {
	err := a.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
	if err != nil {
		a.log.WithField("container", shortID(id)).WithError(err).Warn("failed to remove container that did not start")
		return
	}
	a.log.WithField("container", shortID(id)).Debug("removed container that did not start")
}

func (a *Adapter) pullImage(ctx context.Context, ref string) error {
	const op = "pull image"

	a.log.WithField("image", ref).Info("image not present locally, pulling")
	reader, err := a.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return domain.NewError(op, pullFailureKind(err), err)
	}
	defer reader.Close()

	// Errors such as "manifest unknown" only show up inside the progress stream.
	if err := jsonmessage.DisplayJSONMessagesStream(reader, io.Discard, 0, false, nil); err != nil {
		return domain.NewError(op, pullFailureKind(err), err)
	}
	return nil
}

func pullFailureKind(err error) error {
	if kind := classify(err, domain.ErrImageNotFound); kind == domain.ErrDaemonUnavailable {
		return kind
	}
	return domain.ErrImageNotFound
}

// containerConfig turns a RunSpec into the daemon's create payload.
func containerConfig(spec domain.RunSpec) (*container.Config, *container.HostConfig, error) {
	config := &container.Config{
		Image: spec.Image,
		Env:   envList(spec.Environment),
	}
	if spec.Command != "" {
		cmd, err := shlex.Split(spec.Command)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid command %q: %w", spec.Command, err)
		}
		config.Cmd = cmd
	}

	exposed, bindings, err := portBindings(spec.Ports)
	if err != nil {
		return nil, nil, err
	}
	config.ExposedPorts = exposed

	return config, &container.HostConfig{PortBindings: bindings}, nil
}

// portBindings maps "80", "80/tcp" or "53/udp" to a host port or "ip:port".
func portBindings(ports map[string]string) (nat.PortSet, nat.PortMap, error) {
	if len(ports) == 0 {
		return nil, nil, nil
	}

	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for containerPort, hostPort := range ports {
		proto, port := nat.SplitProtoPort(containerPort)
		p, err := nat.NewPort(proto, port)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %q: %w", containerPort, err)
		}

		binding := nat.PortBinding{HostPort: hostPort}
		if i := strings.LastIndex(hostPort, ":"); i >= 0 {
			binding.HostIP = hostPort[:i]
			binding.HostPort = hostPort[i+1:]
		}

		exposed[p] = struct{}{}
		bindings[p] = append(bindings[p], binding)
	}
	return exposed, bindings, nil
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}

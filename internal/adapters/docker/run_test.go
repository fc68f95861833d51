package docker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/melih/dockhouse/internal/core/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestRunContainer_Detached(t *testing.T) {
	a, m := newTestAdapter(t)
	ctx := context.Background()

	spec := domain.RunSpec{
		Image:       "alpine:latest",
		Name:        "hello",
		Command:     `sh -c "echo hi"`,
		Ports:       map[string]string{"80": "8080", "53/udp": "127.0.0.1:5353"},
		Environment: map[string]string{"B": "2", "A": "1"},
	}

	matchConfig := mock.MatchedBy(func(c *container.Config) bool {
		return c.Image == "alpine:latest" &&
			assert.ObjectsAreEqual([]string{"sh", "-c", "echo hi"}, []string(c.Cmd)) &&
			assert.ObjectsAreEqual([]string{"A=1", "B=2"}, c.Env) &&
			len(c.ExposedPorts) == 2
	})
	matchHost := mock.MatchedBy(func(h *container.HostConfig) bool {
		return h.PortBindings[nat.Port("80/tcp")][0].HostPort == "8080" &&
			h.PortBindings[nat.Port("53/udp")][0].HostIP == "127.0.0.1"
	})

	m.On("ContainerCreate", ctx, matchConfig, matchHost, mock.Anything, mock.Anything, "hello").
		Return(container.CreateResponse{ID: fullID}, nil)
	m.On("ContainerStart", ctx, fullID, container.StartOptions{}).Return(nil)

	got, err := a.RunContainer(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, fullID[:12], got.ID)
	assert.Len(t, got.ID, 12)
	assert.Nil(t, got.ExitCode)
}

func TestRunContainer_PullsMissingImage(t *testing.T) {
	a, m := newTestAdapter(t)
	ctx := context.Background()

	missing := errdefs.NotFound(errors.New("No such image: alpine:latest"))
	m.On("ContainerCreate", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(container.CreateResponse{}, missing).Once()
	m.On("ImagePull", ctx, "alpine:latest", image.PullOptions{}).
		Return(io.NopCloser(strings.NewReader(`{"status":"Pulling from library/alpine"}`+"\n"+`{"status":"Download complete"}`+"\n")), nil)
	m.On("ContainerCreate", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(container.CreateResponse{ID: fullID}, nil).Once()
	m.On("ContainerStart", ctx, fullID, container.StartOptions{}).Return(nil)

	got, err := a.RunContainer(ctx, domain.RunSpec{Image: "alpine:latest"})
	require.NoError(t, err)
	assert.Equal(t, fullID[:12], got.ID)
}

func TestRunContainer_ImageNotFound(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *MockDaemonClient)
	}{
		{
			name: "pull request rejected",
			setup: func(m *MockDaemonClient) {
				m.On("ImagePull", mock.Anything, "nosuch/image:1", mock.Anything).
					Return(nil, errdefs.NotFound(errors.New("pull access denied for nosuch/image")))
			},
		},
		{
			name: "error inside pull stream",
			setup: func(m *MockDaemonClient) {
				m.On("ImagePull", mock.Anything, "nosuch/image:1", mock.Anything).
					Return(io.NopCloser(strings.NewReader(`{"errorDetail":{"message":"manifest unknown"},"error":"manifest unknown"}`+"\n")), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newTestAdapter(t)
			m.On("ContainerCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
				Return(container.CreateResponse{}, errdefs.NotFound(errors.New("No such image: nosuch/image:1")))
			tt.setup(m)

			_, err := a.RunContainer(context.Background(), domain.RunSpec{Image: "nosuch/image:1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrImageNotFound)
		})
	}
}

func TestRunContainer_NameConflict(t *testing.T) {
	a, m := newTestAdapter(t)

	m.On("ContainerCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "web").
		Return(container.CreateResponse{}, errdefs.Conflict(errors.New(`Conflict. The container name "/web" is already in use`)))

	_, err := a.RunContainer(context.Background(), domain.RunSpec{Image: "nginx", Name: "web"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Contains(t, err.Error(), "already in use")
}

func TestRunContainer_PortAllocated(t *testing.T) {
	a, m := newTestAdapter(t)

	m.On("ContainerCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(container.CreateResponse{ID: fullID}, nil)
	m.On("ContainerStart", mock.Anything, fullID, container.StartOptions{}).
		Return(errors.New("Bind for 0.0.0.0:8080 failed: port is already allocated"))
	m.On("ContainerRemove", mock.Anything, fullID, container.RemoveOptions{Force: true}).Return(nil).Once()

	_, err := a.RunContainer(context.Background(), domain.RunSpec{Image: "nginx", Ports: map[string]string{"80/tcp": "8080"}})
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Contains(t, err.Error(), "port is already allocated")
}

func TestRunContainer_StartFailsAndCleanupFails(t *testing.T) {
	a, m := newTestAdapter(t)

	m.On("ContainerCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "web").
		Return(container.CreateResponse{ID: fullID}, nil)
	m.On("ContainerStart", mock.Anything, fullID, container.StartOptions{}).
		Return(errors.New("OCI runtime create failed: exec: \"nope\": executable file not found"))
	m.On("ContainerRemove", mock.Anything, fullID, container.RemoveOptions{Force: true}).
		Return(errors.New("removal of container is already in progress")).Once()

	_, err := a.RunContainer(context.Background(), domain.RunSpec{Image: "alpine", Name: "web", Command: "nope"})
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestRunContainer_Attached(t *testing.T) {
	a, m := newTestAdapter(t)
	ctx := context.Background()

	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	statusCh <- container.WaitResponse{StatusCode: 3}

	m.On("ContainerCreate", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(container.CreateResponse{ID: fullID}, nil)
	m.On("ContainerStart", ctx, fullID, container.StartOptions{}).Return(nil)
	m.On("ContainerWait", ctx, fullID, container.WaitConditionNotRunning).
		Return((<-chan container.WaitResponse)(statusCh), (<-chan error)(errCh))

	got, err := a.RunContainer(ctx, domain.RunSpec{Image: "alpine", Command: "false", Detach: boolPtr(false)})
	require.NoError(t, err)
	require.NotNil(t, got.ExitCode)
	assert.Equal(t, int64(3), *got.ExitCode)
}

func TestRunContainer_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		spec domain.RunSpec
	}{
		{"unterminated quote", domain.RunSpec{Image: "alpine", Command: `echo "hi`}},
		{"bad port", domain.RunSpec{Image: "alpine", Ports: map[string]string{"http": "8080"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAdapter(t)

			_, err := a.RunContainer(context.Background(), tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPortBindings(t *testing.T) {
	exposed, bindings, err := portBindings(map[string]string{"8000": "", "443/tcp": "0.0.0.0:8443"})
	require.NoError(t, err)

	assert.Contains(t, exposed, nat.Port("8000/tcp"))
	assert.Equal(t, []nat.PortBinding{{HostPort: ""}}, bindings[nat.Port("8000/tcp")])
	assert.Equal(t, []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "8443"}}, bindings[nat.Port("443/tcp")])

	exposed, bindings, err = portBindings(nil)
	require.NoError(t, err)
	assert.Nil(t, exposed)
	assert.Nil(t, bindings)
}

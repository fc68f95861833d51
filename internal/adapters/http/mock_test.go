package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/melih/dockhouse/internal/core/domain"
)

type MockContainerService struct {
	mock.Mock
}

func (m *MockContainerService) ListContainers(ctx context.Context, all bool) ([]domain.ContainerSummary, error) {
	args := m.Called(ctx, all)
	result, _ := args.Get(0).([]domain.ContainerSummary)
	return result, args.Error(1)
}

func (m *MockContainerService) GetContainer(ctx context.Context, id string) (*domain.ContainerDetail, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*domain.ContainerDetail)
	return result, args.Error(1)
}

func (m *MockContainerService) StartContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContainerService) StopContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContainerService) RestartContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContainerService) RemoveContainer(ctx context.Context, id string, force bool) error {
	return m.Called(ctx, id, force).Error(0)
}

func (m *MockContainerService) GetContainerLogs(ctx context.Context, id string, tail int) (string, error) {
	args := m.Called(ctx, id, tail)
	return args.String(0), args.Error(1)
}

func (m *MockContainerService) RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error) {
	args := m.Called(ctx, spec)
	result, _ := args.Get(0).(*domain.RunResult)
	return result, args.Error(1)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).([]domain.ImageSummary)
	return result, args.Error(1)
}

type MockSystemService struct {
	mock.Mock
}

func (m *MockSystemService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSystemService) Info(ctx context.Context) (domain.DaemonInfo, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(domain.DaemonInfo)
	return result, args.Error(1)
}

type MockBuilderService struct {
	mock.Mock
}

func (m *MockBuilderService) BuildImage(ctx context.Context, spec domain.BuildSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

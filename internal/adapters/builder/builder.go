package builder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"github.com/melih/dockhouse/internal/core/domain"
)

const defaultDockerfile = "Dockerfile"

// ImageBuilder is the part of the Docker SDK client used for builds.
type ImageBuilder interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
}

// CloneFunc fetches repoURL into dir.
type CloneFunc func(ctx context.Context, dir, repoURL string, progress io.Writer) error

type Adapter struct {
	cli   ImageBuilder
	clone CloneFunc
	log   logrus.FieldLogger
}

// NewBuilderAdapter shares the daemon client the container adapter already holds.
func NewBuilderAdapter(cli ImageBuilder, log logrus.FieldLogger) *Adapter {
	return &Adapter{cli: cli, clone: shallowClone, log: log.WithField("component", "builder")}
}

// BuildImage clones a repo and builds a Docker image
func (a *Adapter) BuildImage(ctx context.Context, spec domain.BuildSpec) (string, error) {
	const op = "build image"
	log := a.log.WithFields(logrus.Fields{"repo": spec.RepoURL, "image": spec.Tag})

	dockerfile := spec.Dockerfile
	if dockerfile == "" {
		dockerfile = defaultDockerfile
	}

	// 1. Create temporary directory
	tmpDir, err := os.MkdirTemp("", "dockhouse-build-*")
	if err != nil {
		return "", domain.NewError(op, domain.ErrOperationFailed, fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer os.RemoveAll(tmpDir)

	// 2. Clone Repository
	log.WithField("dir", tmpDir).Info("cloning repository")
	progress := log.WriterLevel(logrus.DebugLevel)
	defer progress.Close()
	if err := a.clone(ctx, tmpDir, spec.RepoURL, progress); err != nil {
		return "", domain.NewError(op, domain.ErrValidation, fmt.Errorf("failed to clone repo: %w", err))
	}

	// 3. Create Build Context (Tar)
	tar, err := archive.TarWithOptions(tmpDir, &archive.TarOptions{ExcludePatterns: []string{".git"}})
	if err != nil {
		return "", domain.NewError(op, domain.ErrOperationFailed, fmt.Errorf("failed to create build context: %w", err))
	}
	defer tar.Close()

	// 4. Build Docker Image
	log.Info("building image")
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{spec.Tag},
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return "", domain.NewError(op, buildFailureKind(err), fmt.Errorf("failed to build image: %w", err))
	}
	defer resp.Body.Close()

	// The build only finishes once the stream is drained; step failures are reported inside it.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, progress, 0, false, nil); err != nil {
		return "", domain.NewError(op, domain.ErrOperationFailed, fmt.Errorf("failed to build image: %w", err))
	}

	log.Info("image built")
	return spec.Tag, nil
}

func shallowClone(ctx context.Context, dir, repoURL string, progress io.Writer) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      repoURL,
		Progress: progress,
		Depth:    1,
	})
	return err
}

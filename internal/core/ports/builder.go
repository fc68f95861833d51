package ports

import (
	"context"

	"github.com/melih/dockhouse/internal/core/domain"
)

// BuilderService defines operations for building container images from source code.
type BuilderService interface {
	// BuildImage clones a repository and builds an image from it.
	// It returns the tag of the built image or an error.
	BuildImage(ctx context.Context, spec domain.BuildSpec) (string, error)
}

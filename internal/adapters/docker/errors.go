package docker

import (
	"context"
	"errors"

	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/melih/dockhouse/internal/core/domain"
)

// classify picks the failure kind for a daemon error. Connection problems and
// unresolved identifiers win over the operation's fallback kind.
func classify(err error, fallback error) error {
	switch {
	case client.IsErrConnectionFailed(err),
		errdefs.IsUnavailable(err),
		errors.Is(err, context.DeadlineExceeded):
		return domain.ErrDaemonUnavailable
	case errdefs.IsNotFound(err):
		return domain.ErrNotFound
	default:
		return fallback
	}
}

func wrap(op string, fallback error, err error) error {
	if err == nil {
		return nil
	}
	var typed *domain.Error
	if errors.As(err, &typed) {
		return err
	}
	return domain.NewError(op, classify(err, fallback), err)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

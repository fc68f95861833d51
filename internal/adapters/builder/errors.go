package builder

import (
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/melih/dockhouse/internal/core/domain"
)

func buildFailureKind(err error) error {
	if client.IsErrConnectionFailed(err) || errdefs.IsUnavailable(err) {
		return domain.ErrDaemonUnavailable
	}
	return domain.ErrOperationFailed
}

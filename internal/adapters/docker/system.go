package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/melih/dockhouse/internal/core/domain"
)

// apiHost is the placeholder host the SDK puts on requests it sends over the
// unix socket. The transport dials the socket whatever the host says.
const apiHost = "api.moby.localhost"

// Ping checks that the daemon still answers on the socket.
func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.cli.Ping(ctx)
	return wrap("ping", domain.ErrDaemonUnavailable, err)
}

// Info returns the daemon's /info document exactly as the daemon sent it.
// The SDK's Info decodes into a fixed struct, which drops fields newer
// daemons add, so the body is read through the client's own transport.
func (a *Adapter) Info(ctx context.Context) (domain.DaemonInfo, error) {
	url := fmt.Sprintf("http://%s/v%s/info", apiHost, a.cli.ClientVersion())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewError("info", domain.ErrOperationFailed, err)
	}

	resp, err := a.cli.HTTPClient().Do(req)
	if err != nil {
		return nil, wrap("info", domain.ErrDaemonUnavailable,
			fmt.Errorf("failed to query docker daemon info: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap("info", domain.ErrDaemonUnavailable,
			fmt.Errorf("failed to read docker daemon info: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError("info", domain.ErrDaemonUnavailable,
			fmt.Errorf("docker daemon answered %d: %s", resp.StatusCode, daemonMessage(body)))
	}
	if !json.Valid(body) {
		return nil, domain.NewError("info", domain.ErrDaemonUnavailable,
			fmt.Errorf("docker daemon info is not valid JSON"))
	}
	return domain.DaemonInfo(body), nil
}

// daemonMessage pulls the "message" field out of a daemon error body, falling
// back to the trimmed body itself.
func daemonMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return strings.TrimSpace(string(body))
}

package docker

import (
	"context"
	"math"
	"strings"

	"github.com/docker/docker/api/types/image"

	"github.com/melih/dockhouse/internal/core/domain"
)

const untagged = "<none>:<none>"

// ListImages returns the top-level images stored by the daemon.
func (a *Adapter) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	images, err := a.cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, wrap("list images", domain.ErrDaemonUnavailable, err)
	}

	result := make([]domain.ImageSummary, 0, len(images))
	for _, img := range images {
		result = append(result, domain.ImageSummary{
			ID:     shortImageID(img.ID),
			Tags:   repoTags(img.RepoTags),
			SizeMB: math.Round(float64(img.Size)/(1024*1024)*100) / 100,
		})
	}
	return result, nil
}

func (a *Adapter) imageTags(ctx context.Context) (map[string][]string, error) {
	images, err := a.cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, err
	}
	tags := make(map[string][]string, len(images))
	for _, img := range images {
		tags[img.ID] = repoTags(img.RepoTags)
	}
	return tags, nil
}

// shortImageID keeps the digest algorithm prefix, e.g. "sha256:4a2b1c3d5e6f".
func shortImageID(id string) string {
	if rest, ok := strings.CutPrefix(id, "sha256:"); ok {
		return "sha256:" + shortID(rest)
	}
	return shortID(id)
}

func repoTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != untagged {
			result = append(result, t)
		}
	}
	return result
}

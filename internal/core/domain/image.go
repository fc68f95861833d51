package domain

// ImageSummary is the list view of a local image.
type ImageSummary struct {
	ID     string   `json:"id"`
	Tags   []string `json:"tags"`
	SizeMB float64  `json:"size_MB"`
}

// BuildSpec describes an image to build from a git repository.
type BuildSpec struct {
	RepoURL    string `json:"repo_url" validate:"required"`
	Tag        string `json:"tag" validate:"required"`
	Dockerfile string `json:"dockerfile,omitempty"`
}

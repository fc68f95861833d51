package domain

// ContainerSummary is the list view of a container as reported by the daemon.
type ContainerSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"` // running, exited, paused, etc.
	Image  []string `json:"image"`
}

// ContainerDetail is the resolved handle returned when a single container is looked up.
type ContainerDetail struct {
	ID     string   `json:"id"`
	FullID string   `json:"full_id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Image  string   `json:"image"`
	Tags   []string `json:"tags"`
	TTY    bool     `json:"tty"`
}

// RunSpec describes a container to create from an image.
type RunSpec struct {
	Image       string            `json:"image" validate:"required"`
	Name        string            `json:"name,omitempty"`
	Command     string            `json:"command,omitempty"`
	Detach      *bool             `json:"detach,omitempty"`
	Ports       map[string]string `json:"ports,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Detached reports whether the container should be left running in the background.
// A missing flag means true.
func (s RunSpec) Detached() bool {
	return s.Detach == nil || *s.Detach
}

// RunResult is what the daemon handed back for a new container.
type RunResult struct {
	ID       string
	ExitCode *int64
}

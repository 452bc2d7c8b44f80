package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDropdownWarmup refreshes the cached dropdown and side lists.
	TaskDropdownWarmup = "dropdown:warmup"
)

// DropdownWarmupPayload limits a warmup run to some resources. An empty list
// warms every registered resource.
type DropdownWarmupPayload struct {
	Resources []string `json:"resources,omitempty"`
}

// NewDropdownWarmupTask constructs the warmup task.
func NewDropdownWarmupTask(payload DropdownWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDropdownWarmup, data, asynq.Queue(QueueDefault)), nil
}

// NewTask builds a task by name for the CLI.
func NewTask(name string, resources []string) (*asynq.Task, error) {
	switch name {
	case TaskDropdownWarmup:
		return NewDropdownWarmupTask(DropdownWarmupPayload{Resources: resources})
	default:
		return nil, fmt.Errorf("jobs: unknown task %q", name)
	}
}

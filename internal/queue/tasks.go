// Package queue is the NATS task boundary: rebuild work is enqueued by the
// web-facing process and consumed by worker processes, never executed
// inline.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// TaskType identifies a queued task.
type TaskType string

const (
	// TaskCloneRepository performs the idempotent first-time repository setup.
	TaskCloneRepository TaskType = "clone_repository"
	// TaskUpdate fetches the latest repository state and rebuilds the site.
	TaskUpdate TaskType = "update"
)

// Task is one unit of queued work.
type Task struct {
	ID        string    `json:"id"`
	Type      TaskType  `json:"type"`
	Trigger   string    `json:"trigger,omitempty"` // e.g. "webhook", "schedule", "startup"
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a task with a fresh ID.
func NewTask(taskType TaskType, trigger string) Task {
	return Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Trigger:   trigger,
		CreatedAt: time.Now().UTC(),
	}
}

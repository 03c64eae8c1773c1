package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state clients poll for. A job moves from
// pending to generating and ends completed or failed.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusGenerating TaskStatus = "generating"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Terminal reports whether s is a final state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskTypeDeckGeneration generates a full wrapped deck for an address.
const TaskTypeDeckGeneration = "deck_generation"

// Task is a unit of background work.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Payload is the JSON form of the task's input, kept for logs and recovery.
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consuming side of a queue, used by workers.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a queue. Enqueue never blocks; it
// fails with ErrQueueFull or ErrQueueClosed instead.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}

// TaskStore records job state. Tracker is the in-memory implementation.
type TaskStore interface {
	SaveTask(ctx context.Context, task Task) error
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
	GetPendingTasks(ctx context.Context) ([]Task, error)
	// GetProcessingTasks returns generating tasks. A non-zero olderThan keeps
	// only those that have not been updated for that long.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)
}

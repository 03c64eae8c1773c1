package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultJobTTL is how long finished jobs stay queryable.
const DefaultJobTTL = time.Hour

var (
	// ErrTaskNotFound is returned for unknown or expired task IDs.
	ErrTaskNotFound = errors.New("task not found")
	// ErrJobFinished is returned when a completed or failed job would change
	// status again.
	ErrJobFinished = errors.New("job already finished")
)

// Job is the pollable view of a task.
type Job struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Status    TaskStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	Result    any        `json:"result,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type jobEntry struct {
	job  Job
	task Task
}

// Tracker is an in-memory TaskStore that also keeps each task's result so
// clients can poll it. Entries expire after the configured TTL.
type Tracker struct {
	mu   sync.Mutex
	jobs *cache.Cache
	now  func() time.Time
}

// NewTracker creates a Tracker. cleanupInterval controls how often expired
// jobs are purged; zero disables background purging.
func NewTracker(ttl, cleanupInterval time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &Tracker{
		jobs: cache.New(ttl, cleanupInterval),
		now:  time.Now,
	}
}

// SaveTask implements TaskStore.
func (t *Tracker) SaveTask(_ context.Context, task Task) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	entry := &jobEntry{
		job: Job{
			ID:        task.ID(),
			Type:      task.Type(),
			Status:    TaskStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		task: task,
	}
	if err := t.jobs.Add(task.ID().String(), entry, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("save task %s: %w", task.ID(), err)
	}
	return nil
}

// UpdateTaskStatus implements TaskStore.
func (t *Tracker) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entry(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if entry.job.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrJobFinished, taskID, entry.job.Status)
	}
	entry.job.Status = status
	entry.job.Error = errorMsg
	entry.job.UpdatedAt = t.now().UTC()
	t.jobs.Set(taskID.String(), entry, cache.DefaultExpiration)
	return nil
}

// SetResult attaches the outcome of a task.
func (t *Tracker) SetResult(taskID uuid.UUID, result any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.entry(taskID); ok {
		entry.job.Result = result
	}
}

// Get returns a snapshot of the job with id.
func (t *Tracker) Get(id uuid.UUID) (Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entry(id)
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return entry.job, nil
}

// GetPendingTasks implements TaskStore.
func (t *Tracker) GetPendingTasks(_ context.Context) ([]Task, error) {
	return t.filter(func(j Job) bool { return j.Status == TaskStatusPending }), nil
}

// GetProcessingTasks implements TaskStore.
func (t *Tracker) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Task, error) {
	cutoff := t.now().UTC().Add(-olderThan)
	return t.filter(func(j Job) bool {
		return j.Status == TaskStatusGenerating && (olderThan == 0 || !j.UpdatedAt.After(cutoff))
	}), nil
}

func (t *Tracker) filter(keep func(Job) bool) []Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Task
	for _, item := range t.jobs.Items() {
		entry := item.Object.(*jobEntry)
		if keep(entry.job) {
			out = append(out, entry.task)
		}
	}
	return out
}

func (t *Tracker) entry(id uuid.UUID) (*jobEntry, bool) {
	v, ok := t.jobs.Get(id.String())
	if !ok {
		return nil, false
	}
	return v.(*jobEntry), true
}

package tasks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

// MemoryRepository keeps tasks in process memory in insertion order. It is
// safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*models.Task)}
}

func (r *MemoryRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return nil, oops.Code("TASK_EXISTS").With("task_id", task.ID).Wrap(common.ErrConflict)
	}
	stored := cloneTask(task)
	r.tasks[task.ID] = stored
	r.order = append(r.order, task.ID)
	return cloneTask(stored), nil
}

// ListByOwner returns the most recently created tasks first.
func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Task, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.tasks[r.order[i]]
		if t.OwnerID == ownerID {
			out = append(out, *cloneTask(t))
		}
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, err := r.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	return cloneTask(t), nil
}

func (r *MemoryRepository) Update(_ context.Context, ownerID, id string, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	t.Apply(patch, now)
	return cloneTask(t), nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(ownerID, id); err != nil {
		return err
	}
	delete(r.tasks, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryRepository) Delay(_ context.Context, ownerID, id string, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	t.Delay(now)
	return cloneTask(t), nil
}

// owned must be called with r.mu held.
func (r *MemoryRepository) owned(ownerID, id string) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, oops.Code("TASK_NOT_FOUND").With("owner_id", ownerID, "task_id", id).Wrap(common.ErrNotFound)
	}
	return t, nil
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

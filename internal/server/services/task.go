package services

import (
	"context"
	"strings"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/repositories/repomanager"
	"github.com/taskflow-app/taskflow/internal/server/repositories/tasks"
)

const (
	msgTitleRequired   = "Title is required"
	msgTaskNotFound    = "Task not found"
	msgInvalidPriority = "Invalid priority"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     models.OptionalDate `json:"dueDate"`
	Priority    models.Priority     `json:"priority"`
}

// TaskService implements the task lifecycle for one owner at a time.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	deps
}

func NewTaskService(m repomanager.RepositoryManager) *TaskService {
	return &TaskService{repomanager: m, deps: defaultDeps()}
}

func (s *TaskService) store(ownerID string) *tasks.OwnerScoped {
	return tasks.ForOwner(s.repomanager.Tasks(s.repomanager.DB()), ownerID)
}

// Create stores a new pending task for ownerID. Priority defaults to medium.
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.NewPublicError(common.ErrValidation, msgTitleRequired)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, common.NewPublicError(common.ErrValidation, msgInvalidPriority)
	}

	now := s.now()
	task := &models.Task{
		ID:          s.newID(),
		Title:       title,
		Description: in.Description,
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     in.DueDate.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.store(ownerID).Create(ctx, task)
}

// List returns the owner's tasks, newest first.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.store(ownerID).List(ctx)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	t, err := s.store(ownerID).Get(ctx, id)
	if err != nil {
		return nil, asPublic(err, common.ErrNotFound, msgTaskNotFound)
	}
	return t, nil
}

// Update applies patch to the owner's task. Absent fields are left alone.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	t, err := s.store(ownerID).Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, asPublic(err, common.ErrNotFound, msgTaskNotFound)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store(ownerID).Delete(ctx, id); err != nil {
		return asPublic(err, common.ErrNotFound, msgTaskNotFound)
	}
	return nil
}

// Delay moves the task's due date, if any, one day later and marks it
// delayed. Every call moves it again.
func (s *TaskService) Delay(ctx context.Context, ownerID, id string) (*models.Task, error) {
	t, err := s.store(ownerID).Delay(ctx, id, s.now())
	if err != nil {
		return nil, asPublic(err, common.ErrNotFound, msgTaskNotFound)
	}
	return t, nil
}

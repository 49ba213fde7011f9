// Package tasks persists tasks. Every read and write is qualified by the
// owning user's id; a task owned by someone else is indistinguishable from a
// missing one.
package tasks

import (
	"context"
	"time"

	"github.com/taskflow-app/taskflow/internal/server/models"
)

// Repository is the task store. Methods that address a single task return an
// error matching common.ErrNotFound when no task with that id belongs to
// ownerID.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, patch models.TaskPatch, now time.Time) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	// Delay advances the due date by one day and sets status delayed in a
	// single atomic step.
	Delay(ctx context.Context, ownerID, id string, now time.Time) (*models.Task, error)
}

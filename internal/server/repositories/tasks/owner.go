package tasks

import (
	"context"
	"time"

	"github.com/taskflow-app/taskflow/internal/server/models"
)

// OwnerScoped is a Repository view fixed to one owner.
type OwnerScoped struct {
	repo    Repository
	ownerID string
}

// ForOwner binds repo to ownerID.
func ForOwner(repo Repository, ownerID string) *OwnerScoped {
	return &OwnerScoped{repo: repo, ownerID: ownerID}
}

func (s *OwnerScoped) OwnerID() string { return s.ownerID }

// Create stores task as owned by the bound owner, whatever task.OwnerID held.
func (s *OwnerScoped) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.OwnerID = s.ownerID
	return s.repo.Create(ctx, task)
}

func (s *OwnerScoped) List(ctx context.Context) ([]models.Task, error) {
	return s.repo.ListByOwner(ctx, s.ownerID)
}

func (s *OwnerScoped) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.repo.Get(ctx, s.ownerID, id)
}

func (s *OwnerScoped) Update(ctx context.Context, id string, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	return s.repo.Update(ctx, s.ownerID, id, patch, now)
}

func (s *OwnerScoped) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, s.ownerID, id)
}

func (s *OwnerScoped) Delay(ctx context.Context, id string, now time.Time) (*models.Task, error) {
	return s.repo.Delay(ctx, s.ownerID, id, now)
}

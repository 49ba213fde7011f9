// Package users persists user accounts.
package users

import (
	"context"
	"time"

	"github.com/taskflow-app/taskflow/internal/server/models"
)

// Repository stores users keyed by id and by normalized email. Lookups of
// missing users return an error matching common.ErrNotFound; inserting a
// taken email returns one matching common.ErrConflict.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

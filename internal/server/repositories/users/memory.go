package users

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is safe for concurrent
// use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, oops.Code("USER_EMAIL_TAKEN").With("email", user.Email).Wrap(common.ErrConflict)
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID

	out := *user
	return &out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(common.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(common.ErrNotFound)
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id, passwordHash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(common.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	r.byID[id] = u
	return nil
}

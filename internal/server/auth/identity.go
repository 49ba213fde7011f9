package auth

import (
	"context"

	"github.com/taskflow-app/taskflow/internal/server/models"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Role   models.Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

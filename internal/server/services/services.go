// Package services contains the server's business logic: account
// registration and login, and the task lifecycle. Services return
// *common.PublicError for failures a caller may see; anything else is an
// internal error.
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID string, role models.Role) (string, error)
}

// clock and id generation are swappable in tests.
type deps struct {
	now   func() time.Time
	newID func() string
}

func defaultDeps() deps {
	return deps{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// asPublic turns a store-level kind into a PublicError with msg, and passes
// any other error through unchanged.
func asPublic(err error, kind error, msg string) error {
	if errors.Is(err, kind) {
		return common.NewPublicError(kind, msg)
	}
	return err
}

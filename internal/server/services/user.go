package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/dbx"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/repositories/repomanager"
)

const (
	msgRegisterRequired   = "Full name, email and password are required"
	msgEmailTaken         = "Email is already registered"
	msgLoginRequired      = "Email and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordsRequired  = "Current password and new password are required"
	msgUserNotFound       = "User not found"
	msgWrongPassword      = "Current password is incorrect"
)

// dummyPassword is hashed once and checked on logins for unknown emails so
// that both failure paths do the same bcrypt work.
const dummyPassword = "taskflow-dummy-password"

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// UserService handles registration, login and password changes.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	deps

	dummyHash func() (string, error)
}

func NewUserService(m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		deps:        defaultDeps(),
		dummyHash:   sync.OnceValues(func() (string, error) { return hasher.Hash(dummyPassword) }),
	}
}

// Register creates a student account. The email is stored trimmed and
// lower-cased and must not already be registered.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*models.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = models.NormalizeEmail(email)
	if fullName == "" || email == "" || password == "" {
		return nil, common.NewPublicError(common.ErrValidation, msgRegisterRequired)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("HASH_FAILED").Wrap(err)
	}

	now := s.now()
	user := &models.User{
		ID:           s.newID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrConflict
		case !errors.Is(err, common.ErrNotFound):
			return err
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, asPublic(err, common.ErrConflict, msgEmailTaken)
	}

	pub := user.Public()
	return &pub, nil
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewPublicError(common.ErrValidation, msgLoginRequired)
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		if err := s.burnDummyCheck(password); err != nil {
			return nil, err
		}
		return nil, common.NewPublicError(common.ErrInvalidCredentials, msgInvalidCredentials)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, oops.Code("PASSWORD_CHECK_FAILED").With("user_id", user.ID).Wrap(err)
	}
	if !ok {
		return nil, common.NewPublicError(common.ErrInvalidCredentials, msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, oops.Code("TOKEN_ISSUE_FAILED").With("user_id", user.ID).Wrap(err)
	}

	return &LoginResult{Token: token, User: user.Profile()}, nil
}

func (s *UserService) burnDummyCheck(password string) error {
	hash, err := s.dummyHash()
	if err != nil {
		return oops.Code("HASH_FAILED").Wrap(err)
	}
	_, _ = s.hasher.Verify(password, hash)
	return nil
}

// ChangePassword replaces the password of userID after checking the current
// one. A wrong current password leaves the stored hash untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return common.NewPublicError(common.ErrValidation, msgPasswordsRequired)
	}

	repo := s.repomanager.Users(s.repomanager.DB())
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return asPublic(err, common.ErrNotFound, msgUserNotFound)
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return oops.Code("PASSWORD_CHECK_FAILED").With("user_id", userID).Wrap(err)
	}
	if !ok {
		return common.NewPublicError(common.ErrInvalidCredentials, msgWrongPassword)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("HASH_FAILED").With("user_id", userID).Wrap(err)
	}

	if err := repo.UpdatePassword(ctx, userID, hash, s.now()); err != nil {
		return asPublic(err, common.ErrNotFound, msgUserNotFound)
	}
	return nil
}

// Me returns the profile of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, userID)
	if err != nil {
		return nil, asPublic(err, common.ErrNotFound, msgUserNotFound)
	}
	p := user.Profile()
	return &p, nil
}

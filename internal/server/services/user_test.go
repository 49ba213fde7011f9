package services

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/auth"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/repositories/repomanager"
)

const testSecret = "test-secret"

// countingHasher records how many times Verify runs.
type countingHasher struct {
	*auth.BcryptHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(password, hash string) (bool, error) {
	h.verifies.Add(1)
	return h.BcryptHasher.Verify(password, hash)
}

type userFixture struct {
	svc    *UserService
	rm     *repomanager.MemoryRepositoryManager
	hasher *countingHasher
	tokens *auth.TokenService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	hasher := &countingHasher{BcryptHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
	tokens := auth.NewTokenService([]byte(testSecret), 24*time.Hour)
	return &userFixture{svc: NewUserService(rm, hasher, tokens), rm: rm, hasher: hasher, tokens: tokens}
}

func (f *userFixture) register(t *testing.T, name, email, password string) *models.PublicUser {
	t.Helper()
	u, err := f.svc.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return u
}

func publicMessage(t *testing.T, err error, kind error) string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	var pe *common.PublicError
	require.ErrorAs(t, err, &pe)
	return pe.Message
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "  Ann Lee ", " Ann@Example.com ", "s3cret!")

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ann Lee", u.FullName)
	assert.Equal(t, "ann@example.com", u.Email)

	stored, err := f.rm.Users(nil).GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.Equal(t, models.RoleStudent, stored.Role)

	ok, err := f.hasher.BcryptHasher.Verify("s3cret!", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_RequiredFields(t *testing.T) {
	f := newUserFixture(t)

	for _, in := range [][3]string{
		{"", "a@b.c", "pw"},
		{"   ", "a@b.c", "pw"},
		{"Ann", " ", "pw"},
		{"Ann", "a@b.c", ""},
	} {
		_, err := f.svc.Register(context.Background(), in[0], in[1], in[2])
		assert.Equal(t, msgRegisterRequired, publicMessage(t, err, common.ErrValidation))
	}
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "Ann", "ann@example.com", "pw1")

	_, err := f.svc.Register(context.Background(), "Other Ann", "ANN@example.COM", "pw2")
	assert.Equal(t, msgEmailTaken, publicMessage(t, err, common.ErrConflict))
}

func TestRegister_ConcurrentInsertUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager(db)
	svc := NewUserService(rm, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenService([]byte(testSecret), time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "password_hash", "role", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	_, err = svc.Register(context.Background(), "Ann", "ann@example.com", "pw")
	assert.Equal(t, msgEmailTaken, publicMessage(t, err, common.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager(db)
	svc := NewUserService(rm, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenService([]byte(testSecret), time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+users`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = svc.Register(context.Background(), "Ann", "ann@example.com", "pw")
	require.Error(t, err)
	var pe *common.PublicError
	assert.False(t, errors.As(err, &pe))
}

func TestLogin_TokenCarriesIdentity(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Ann", "ann@example.com", "pw")

	res, err := f.svc.Login(context.Background(), " ANN@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, models.Profile{ID: u.ID, FullName: "Ann", Email: "ann@example.com", Role: models.RoleStudent}, res.User)

	id, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, models.RoleStudent, id.Role)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "Ann", "ann@example.com", "pw")

	before := f.hasher.verifies.Load()
	_, errWrong := f.svc.Login(context.Background(), "ann@example.com", "nope")
	afterWrong := f.hasher.verifies.Load()
	_, errUnknown := f.svc.Login(context.Background(), "ghost@example.com", "nope")
	afterUnknown := f.hasher.verifies.Load()

	assert.Equal(t, msgInvalidCredentials, publicMessage(t, errWrong, common.ErrInvalidCredentials))
	assert.Equal(t, msgInvalidCredentials, publicMessage(t, errUnknown, common.ErrInvalidCredentials))
	assert.Equal(t, errWrong.Error(), errUnknown.Error())

	assert.EqualValues(t, 1, afterWrong-before, "wrong password runs one bcrypt check")
	assert.EqualValues(t, 1, afterUnknown-afterWrong, "unknown email runs one bcrypt check too")
}

func TestLogin_RequiredFields(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Login(context.Background(), "", "pw")
	assert.Equal(t, msgLoginRequired, publicMessage(t, err, common.ErrValidation))
	_, err = f.svc.Login(context.Background(), "a@b.c", "")
	assert.Equal(t, msgLoginRequired, publicMessage(t, err, common.ErrValidation))
	assert.Zero(t, f.hasher.verifies.Load())
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	u := f.register(t, "Ann", "ann@example.com", "old-pw")

	before, err := f.rm.Users(nil).GetByID(ctx, u.ID)
	require.NoError(t, err)

	t.Run("wrong current password keeps hash", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, u.ID, "not-it", "new-pw")
		assert.Equal(t, msgWrongPassword, publicMessage(t, err, common.ErrInvalidCredentials))

		after, err := f.rm.Users(nil).GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, u.ID, "", "new-pw")
		assert.Equal(t, msgPasswordsRequired, publicMessage(t, err, common.ErrValidation))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, "ghost", "old-pw", "new-pw")
		assert.Equal(t, msgUserNotFound, publicMessage(t, err, common.ErrNotFound))
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "old-pw", "new-pw"))

		_, err := f.svc.Login(ctx, "ann@example.com", "old-pw")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		_, err = f.svc.Login(ctx, "ann@example.com", "new-pw")
		assert.NoError(t, err)
	})
}

func TestMe(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Ann", "ann@example.com", "pw")

	p, err := f.svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, p.Role)
	assert.Equal(t, "ann@example.com", p.Email)

	_, err = f.svc.Me(context.Background(), "missing")
	assert.Equal(t, msgUserNotFound, publicMessage(t, err, common.ErrNotFound))
}

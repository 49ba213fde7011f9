package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/dbx"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, role, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, full_name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("USER_EMAIL_TAKEN").With("email", user.Email).Wrap(common.ErrConflict)
		}
		return nil, oops.Code("DB_ERROR").With("operation", "insert user").Wrap(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(common.ErrNotFound)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapLookup(err, "user_id", id)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapLookup(err, "email", email)
	}
	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	query :=
		`UPDATE users SET password_hash = $2, updated_at = $3
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return oops.Code("DB_ERROR").With("operation", "update password", "user_id", id).Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code("DB_ERROR").With("operation", "update password", "user_id", id).Wrap(err)
	}
	if n == 0 {
		return oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(common.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var role string
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func wrapLookup(err error, key, value string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return oops.Code("USER_NOT_FOUND").With(key, value).Wrap(common.ErrNotFound)
	}
	return oops.Code("DB_ERROR").With("operation", "select user", key, value).Wrap(err)
}

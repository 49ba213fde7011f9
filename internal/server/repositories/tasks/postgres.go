package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

const taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (id, owner_id, title, description, status, priority, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, oops.Code("DB_ERROR").With("operation", "insert task", "owner_id", task.OwnerID).Wrap(err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, oops.Code("DB_ERROR").With("operation", "list tasks", "owner_id", ownerID).Wrap(err)
	}
	defer rows.Close()

	out := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, oops.Code("DB_ERROR").With("operation", "scan task", "owner_id", ownerID).Wrap(err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("DB_ERROR").With("operation", "list tasks", "owner_id", ownerID).Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, notFound(ownerID, id)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, wrapRowErr(err, "select task", ownerID, id)
	}
	return t, nil
}

// Update writes only the columns present in patch, plus updated_at.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	if !validID(id) {
		return nil, notFound(ownerID, id)
	}

	args := []any{id, ownerID}
	var sets []string
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.DueDate.Set {
		add("due_date", patch.DueDate.Date)
	}
	add("updated_at", now)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + `
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapRowErr(err, "update task", ownerID, id)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return notFound(ownerID, id)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return oops.Code("DB_ERROR").With("operation", "delete task", "owner_id", ownerID, "task_id", id).Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code("DB_ERROR").With("operation", "delete task", "owner_id", ownerID, "task_id", id).Wrap(err)
	}
	if n == 0 {
		return notFound(ownerID, id)
	}
	return nil
}

// Delay relies on date + integer arithmetic; a NULL due date stays NULL.
func (r *PostgresRepository) Delay(ctx context.Context, ownerID, id string, now time.Time) (*models.Task, error) {
	if !validID(id) {
		return nil, notFound(ownerID, id)
	}

	query :=
		`UPDATE tasks SET due_date = due_date + 1, status = $3, updated_at = $4
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID, string(models.StatusDelayed), now))
	if err != nil {
		return nil, wrapRowErr(err, "delay task", ownerID, id)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var (
		status, priority string
		due              sql.Null[models.Date]
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &status, &priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = models.TaskStatus(status)
	t.Priority = models.Priority(priority)
	if due.Valid {
		d := due.V
		t.DueDate = &d
	}
	return t, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(ownerID, id string) error {
	return oops.Code("TASK_NOT_FOUND").With("owner_id", ownerID, "task_id", id).Wrap(common.ErrNotFound)
}

func wrapRowErr(err error, operation, ownerID, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(ownerID, id)
	}
	return oops.Code("DB_ERROR").With("operation", operation, "owner_id", ownerID, "task_id", id).Wrap(err)
}

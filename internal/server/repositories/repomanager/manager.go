package repomanager

import (
	"context"

	"github.com/taskflow-app/taskflow/internal/dbx"
	"github.com/taskflow-app/taskflow/internal/server/repositories/tasks"
	"github.com/taskflow-app/taskflow/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound either to the shared handle
// (DB) or to a transaction obtained through WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	DB() dbx.DBTX
	WithTx(ctx context.Context, fn dbx.TxFunc) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Close() error
}

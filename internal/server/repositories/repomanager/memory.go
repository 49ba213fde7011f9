package repomanager

import (
	"context"
	"sync"

	"github.com/taskflow-app/taskflow/internal/dbx"
	"github.com/taskflow-app/taskflow/internal/server/repositories/tasks"
	"github.com/taskflow-app/taskflow/internal/server/repositories/users"
)

// MemoryRepositoryManager serves process-local repositories. The DBTX
// arguments are ignored; WithTx serializes callers instead of opening a
// transaction and hands fn a nil handle.
type MemoryRepositoryManager struct {
	txMu  sync.Mutex
	users *users.MemoryRepository
	tasks *tasks.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		tasks: tasks.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Tasks(dbx.DBTX) tasks.Repository { return m.tasks }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

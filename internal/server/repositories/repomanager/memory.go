package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/nodes"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/registry"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/users"
)

// MemoryRepositoryManager vends views over a single memstore.Store. The DBTX
// arguments are ignored; pair it with a dbx.LockTransactor.
type MemoryRepositoryManager struct {
	store *memstore.Store
}

// NewMemoryRepositoryManager wraps store, creating one when nil.
func NewMemoryRepositoryManager(store *memstore.Store) *MemoryRepositoryManager {
	if store == nil {
		store = memstore.New()
	}
	return &MemoryRepositoryManager{store: store}
}

// RunMigrations is a no-op: the store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Registry(dbx.DBTX) registry.Repository {
	return m.store.Registry()
}

func (m *MemoryRepositoryManager) Nodes(dbx.DBTX) nodes.Repository {
	return m.store.Nodes()
}

func (m *MemoryRepositoryManager) Transfers(dbx.DBTX) transfers.Repository {
	return m.store.Transfers()
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

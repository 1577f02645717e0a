package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/nodes"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/registry"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Registry(db dbx.DBTX) registry.Repository
	Nodes(db dbx.DBTX) nodes.Repository
	Transfers(db dbx.DBTX) transfers.Repository
	Users(db dbx.DBTX) users.Repository
}

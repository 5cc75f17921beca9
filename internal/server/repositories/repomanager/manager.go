package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filecrate/internal/dbx"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/files"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repository code against *sql.DB or inside a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
}

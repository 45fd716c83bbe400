package repomanager

import (
	"context"
	"database/sql"

	"github.com/dbelyakov/noteleaf/internal/dbx"
	"github.com/dbelyakov/noteleaf/internal/server/repositories/notes"
	"github.com/dbelyakov/noteleaf/internal/server/repositories/users"
)

// RepositoryManager builds repositories over a plain connection or a
// transaction, so services can run multi-statement operations under
// dbx.WithTx without the repositories knowing.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}

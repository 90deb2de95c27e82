package repomanager

import (
	"context"
	"database/sql"

	"github.com/avoroncov/itemvault/internal/dbx"
	"github.com/avoroncov/itemvault/internal/server/repositories/items"
	"github.com/avoroncov/itemvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
}

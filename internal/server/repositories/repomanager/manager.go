package repomanager

import (
	"context"
	"database/sql"

	"tiredepot/internal/dbx"
	"tiredepot/internal/server/repositories/clients"
	"tiredepot/internal/server/repositories/deposits"
	"tiredepot/internal/server/repositories/emails"
	"tiredepot/internal/server/repositories/history"
)

// RepositoryManager vends repositories bound to a specific DBTX, so services
// can run several repositories against one transaction handle.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Clients(db dbx.DBTX) clients.Repository
	Deposits(db dbx.DBTX) deposits.Repository
	History(db dbx.DBTX) history.Repository
	Emails(db dbx.DBTX) emails.Repository
}

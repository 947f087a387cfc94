// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"tiredepot/internal/dbx"
	"tiredepot/internal/server/migrations"
	"tiredepot/internal/server/repositories/clients"
	"tiredepot/internal/server/repositories/deposits"
	"tiredepot/internal/server/repositories/emails"
	"tiredepot/internal/server/repositories/history"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Clients returns a clients.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Clients(db dbx.DBTX) clients.Repository {
	return clients.NewPostgresRepository(db)
}

// Deposits returns a deposits.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Deposits(db dbx.DBTX) deposits.Repository {
	return deposits.NewPostgresRepository(db)
}

// History returns a history.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) History(db dbx.DBTX) history.Repository {
	return history.NewPostgresRepository(db)
}

// Emails returns an emails.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Emails(db dbx.DBTX) emails.Repository {
	return emails.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

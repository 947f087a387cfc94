// Package history provides the PostgreSQL-backed append-only audit log of
// deposit changes.
package history

import (
	"context"
	"fmt"

	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/server/models"
)

// PostgresRepository implements the audit log over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, entry *models.HistoryEntry) error {
	query := `
		INSERT INTO history (id, deposit_id, change_date, actor, description)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DepositID, entry.ChangeDate, entry.Actor, entry.Description)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return nil
}

// ListByDeposit returns the audit trail newest-first.
func (r *PostgresRepository) ListByDeposit(ctx context.Context, depositID string) ([]*models.HistoryEntry, error) {
	query := `
		SELECT id, deposit_id, change_date, actor, description
		FROM history
		WHERE deposit_id = $1
		ORDER BY change_date DESC;
	`
	rows, err := r.db.QueryContext(ctx, query, depositID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select history: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.DepositID, &e.ChangeDate, &e.Actor, &e.Description); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByDeposit(ctx context.Context, depositID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history WHERE deposit_id = $1;`, depositID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return n, nil
}

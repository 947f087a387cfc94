// Package emails provides the PostgreSQL-backed log of sent reminder
// emails.
package emails

import (
	"context"
	"fmt"

	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/server/models"
)

// PostgresRepository implements the sent-email log over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, email *models.SentEmail) error {
	query := `
		INSERT INTO email_history (id, to_address, subject, body, sent_date)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.ExecContext(ctx, query,
		email.ID, email.ToAddress, email.Subject, email.Body, email.SentDate)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return nil
}

// List returns the log newest-first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.SentEmail, error) {
	query := `
		SELECT id, to_address, subject, body, sent_date
		FROM email_history
		ORDER BY sent_date DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select email history: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.SentEmail
	for rows.Next() {
		var e models.SentEmail
		if err := rows.Scan(&e.ID, &e.ToAddress, &e.Subject, &e.Body, &e.SentDate); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Package clients provides the PostgreSQL-backed repository for customer
// records.
package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/server/models"
)

// PostgresRepository implements client storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const clientColumns = `id, name, phone, email, notes, discount, barcode`

func (r *PostgresRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, phone, email, notes, discount, barcode)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Phone, client.Email, client.Notes, client.Discount, client.Barcode)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $2, phone = $3, email = $4, notes = $5, discount = $6
		WHERE id = $1;
	`
	res, err := r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Phone, client.Email, client.Notes, client.Discount)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return requireRow(res)
}

// Delete removes the client; deposits and their history rows follow via
// FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1;`, id)
	return scanClient(row)
}

func (r *PostgresRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE barcode = $1;`, barcode)
	return scanClient(row)
}

// List returns clients ordered by name, optionally filtered by a
// case-insensitive substring match on name, phone, or email.
func (r *PostgresRepository) List(ctx context.Context, search string) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if search != "" {
		query += ` WHERE name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name;`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select clients: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.Discount, &c.Barcode); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetBarcode assigns (or clears, with nil) the client's barcode. A unique
// index on the column turns duplicate assignments into ErrBarcodeTaken.
func (r *PostgresRepository) SetBarcode(ctx context.Context, id string, barcode *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET barcode = $2 WHERE id = $1;`, id, barcode)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrBarcodeTaken
		}
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return exists, nil
}

func scanClient(row *sql.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.Discount, &c.Barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return &c, nil
}

// isUniqueViolation matches Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected error: %w", common.ErrStorage, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Package deposits provides the PostgreSQL-backed repository for tire
// deposits, including lifecycle views, the batch duration refresh, and the
// reminder-eligibility query.
package deposits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/server/models"
)

// PostgresRepository implements deposit storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const depositColumns = `d.id, d.client_id, d.car_model, d.registration_number, d.tire_brand,
	d.tire_size, d.quantity, d.location, d.washing, d.conservation, d.deposit_date,
	d.issue_date, d.status, d.duration, d.season, d.expected_return_date,
	d.technical_condition, d.storage_date, d.price`

func (r *PostgresRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (id, client_id, car_model, registration_number, tire_brand,
			tire_size, quantity, location, washing, conservation, deposit_date,
			issue_date, status, duration, season, expected_return_date,
			technical_condition, storage_date, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.db.ExecContext(ctx, query,
		deposit.ID, deposit.ClientID, deposit.CarModel, deposit.RegistrationNumber,
		deposit.TireBrand, deposit.TireSize, deposit.Quantity, deposit.Location,
		deposit.Washing, deposit.Conservation, deposit.DepositDate, deposit.IssueDate,
		deposit.Status, deposit.Duration, deposit.Season, deposit.ExpectedReturnDate,
		deposit.TechnicalCondition, deposit.StorageDate, deposit.Price)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return nil
}

// Update rewrites every mutable field. deposit_date and client_id are fixed
// at creation and deliberately absent from the statement.
func (r *PostgresRepository) Update(ctx context.Context, deposit *models.Deposit) error {
	query := `
		UPDATE deposits
		SET car_model = $2, registration_number = $3, tire_brand = $4, tire_size = $5,
			quantity = $6, location = $7, washing = $8, conservation = $9,
			issue_date = $10, status = $11, duration = $12, season = $13,
			expected_return_date = $14, technical_condition = $15, storage_date = $16,
			price = $17
		WHERE id = $1;
	`
	res, err := r.db.ExecContext(ctx, query,
		deposit.ID, deposit.CarModel, deposit.RegistrationNumber, deposit.TireBrand,
		deposit.TireSize, deposit.Quantity, deposit.Location, deposit.Washing,
		deposit.Conservation, deposit.IssueDate, deposit.Status, deposit.Duration,
		deposit.Season, deposit.ExpectedReturnDate, deposit.TechnicalCondition,
		deposit.StorageDate, deposit.Price)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return requireRow(res)
}

// Delete removes the deposit; its history rows follow via FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deposits WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Deposit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+depositColumns+` FROM deposits d WHERE d.id = $1;`, id)

	var d models.Deposit
	err := row.Scan(
		&d.ID, &d.ClientID, &d.CarModel, &d.RegistrationNumber, &d.TireBrand,
		&d.TireSize, &d.Quantity, &d.Location, &d.Washing, &d.Conservation,
		&d.DepositDate, &d.IssueDate, &d.Status, &d.Duration, &d.Season,
		&d.ExpectedReturnDate, &d.TechnicalCondition, &d.StorageDate, &d.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return &d, nil
}

// statusPredicate translates a StatusFilter into one SQL predicate. Active,
// issued and overdue views all go through here so they cannot diverge.
func statusPredicate(filter StatusFilter, now time.Time, args *[]any) string {
	switch filter {
	case FilterActive:
		return `d.status = 'active'`
	case FilterIssued:
		return `d.status = 'issued'`
	case FilterOverdue:
		*args = append(*args, now)
		return fmt.Sprintf(`d.status = 'active' AND d.expected_return_date < $%d::date`, len(*args))
	default:
		return `TRUE`
	}
}

// List returns deposits joined with the owning client, scoped by filter and
// optionally matched against client name or registration number.
func (r *PostgresRepository) List(ctx context.Context, filter StatusFilter, search string, now time.Time) ([]*models.DepositWithClient, error) {
	var args []any
	where := statusPredicate(filter, now, &args)
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(` AND (c.name ILIKE $%d OR d.registration_number ILIKE $%d)`, len(args), len(args))
	}

	query := `
		SELECT ` + depositColumns + `, c.name, c.email
		FROM deposits d
		JOIN clients c ON c.id = d.client_id
		WHERE ` + where + `
		ORDER BY d.deposit_date DESC;
	`
	return r.queryWithClient(ctx, query, args...)
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits d WHERE d.client_id = $1 ORDER BY d.deposit_date DESC;`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select deposits: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.Deposit
	for rows.Next() {
		var d models.Deposit
		if err := rows.Scan(
			&d.ID, &d.ClientID, &d.CarModel, &d.RegistrationNumber, &d.TireBrand,
			&d.TireSize, &d.Quantity, &d.Location, &d.Washing, &d.Conservation,
			&d.DepositDate, &d.IssueDate, &d.Status, &d.Duration, &d.Season,
			&d.ExpectedReturnDate, &d.TechnicalCondition, &d.StorageDate, &d.Price,
		); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshDurations recomputes the stored duration of all active deposits in
// one batch statement: whole days from deposit_date to now, floored and
// clamped at zero. Issued deposits keep the value frozen at issue time.
func (r *PostgresRepository) RefreshDurations(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE deposits
		SET duration = GREATEST(0, FLOOR(EXTRACT(EPOCH FROM ($1::timestamptz - deposit_date)) / 86400))::int
		WHERE status = 'active';
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected error: %w", common.ErrStorage, err)
	}
	return n, nil
}

// DueForReminder returns active deposits whose expected return date equals
// the given day and whose client has an email address. The equality match
// makes the 7-day reminder a single-shot trigger, not a retry queue.
func (r *PostgresRepository) DueForReminder(ctx context.Context, due time.Time) ([]*models.DepositWithClient, error) {
	query := `
		SELECT ` + depositColumns + `, c.name, c.email
		FROM deposits d
		JOIN clients c ON c.id = d.client_id
		WHERE d.status = 'active' AND c.email <> '' AND d.expected_return_date = $1::date;
	`
	return r.queryWithClient(ctx, query, due)
}

// Stats computes the summary counters in one pass over the table.
func (r *PostgresRepository) Stats(ctx context.Context, now time.Time) (*models.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'issued'),
			COUNT(*) FILTER (WHERE status = 'active' AND expected_return_date < $1::date),
			COALESCE(SUM(price) FILTER (WHERE status = 'active'), 0)
		FROM deposits;
	`
	var s models.Stats
	err := r.db.QueryRowContext(ctx, query, now).Scan(
		&s.ActiveCount, &s.IssuedCount, &s.OverdueCount, &s.ActiveValue)
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return &s, nil
}

func (r *PostgresRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deposits WHERE client_id = $1;`, clientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return n, nil
}

func (r *PostgresRepository) queryWithClient(ctx context.Context, query string, args ...any) ([]*models.DepositWithClient, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select deposits: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.DepositWithClient
	for rows.Next() {
		var d models.DepositWithClient
		if err := rows.Scan(
			&d.ID, &d.ClientID, &d.CarModel, &d.RegistrationNumber, &d.TireBrand,
			&d.TireSize, &d.Quantity, &d.Location, &d.Washing, &d.Conservation,
			&d.DepositDate, &d.IssueDate, &d.Status, &d.Duration, &d.Season,
			&d.ExpectedReturnDate, &d.TechnicalCondition, &d.StorageDate, &d.Price,
			&d.ClientName, &d.ClientEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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

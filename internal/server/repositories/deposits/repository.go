package deposits

import (
	"context"
	"time"

	"tiredepot/internal/server/models"
)

// StatusFilter scopes list queries to one lifecycle view. Overdue is not a
// stored status; it is the active view further restricted by expected
// return date.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterIssued  StatusFilter = "issued"
	FilterOverdue StatusFilter = "overdue"
)

// Valid reports whether f is a known filter value.
func (f StatusFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterIssued, FilterOverdue:
		return true
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, deposit *models.Deposit) error
	Update(ctx context.Context, deposit *models.Deposit) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Deposit, error)
	List(ctx context.Context, filter StatusFilter, search string, now time.Time) ([]*models.DepositWithClient, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Deposit, error)
	RefreshDurations(ctx context.Context, now time.Time) (int64, error)
	DueForReminder(ctx context.Context, due time.Time) ([]*models.DepositWithClient, error)
	Stats(ctx context.Context, now time.Time) (*models.Stats, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
}

package history

import (
	"context"

	"tiredepot/internal/server/models"
)

// Repository is the append-only audit log per deposit. There is no update
// or delete API; rows disappear only through the FK cascade when the owning
// deposit is removed.
type Repository interface {
	Append(ctx context.Context, entry *models.HistoryEntry) error
	ListByDeposit(ctx context.Context, depositID string) ([]*models.HistoryEntry, error)
	CountByDeposit(ctx context.Context, depositID string) (int, error)
}

package emails

import (
	"context"

	"tiredepot/internal/server/models"
)

// Repository logs reminder emails that were handed to the mail transport.
// Append-only, like deposit history, but independent of any deposit row.
type Repository interface {
	Append(ctx context.Context, email *models.SentEmail) error
	List(ctx context.Context) ([]*models.SentEmail, error)
}

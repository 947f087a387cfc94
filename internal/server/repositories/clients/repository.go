package clients

import (
	"context"

	"tiredepot/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Client, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Client, error)
	List(ctx context.Context, search string) ([]*models.Client, error)
	SetBarcode(ctx context.Context, id string, barcode *string) error
	Exists(ctx context.Context, id string) (bool, error)
}

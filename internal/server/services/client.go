package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/logging"
	"tiredepot/internal/server/models"
	"tiredepot/internal/server/repositories/repomanager"
)

// ClientService manages customer records. Deleting a client cascades to all
// of its deposits and their history, so the operation is logged with the
// number of deposits it takes down.
type ClientService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	logger   logging.Logger
	validate *validator.Validate
}

// NewClientService constructs a ClientService.
func NewClientService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *ClientService {
	return &ClientService{
		db:       db,
		rm:       rm,
		logger:   logger.With("service", "clients"),
		validate: validator.New(),
	}
}

// ClientParams carries the caller-settable fields of a client record.
type ClientParams struct {
	Name     string  `validate:"required"`
	Phone    string
	Email    string  `validate:"omitempty,email"`
	Notes    string
	Discount float64 `validate:"gte=0,lte=100"`
}

// Create stores a new client.
func (s *ClientService) Create(ctx context.Context, p ClientParams) (*models.Client, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	client := &models.Client{
		ID:       uuid.NewString(),
		Name:     p.Name,
		Phone:    p.Phone,
		Email:    p.Email,
		Notes:    p.Notes,
		Discount: p.Discount,
	}
	if err := s.rm.Clients(s.db).Create(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "client created", "client_id", client.ID)
	return client, nil
}

// Edit updates the mutable fields of a client.
func (s *ClientService) Edit(ctx context.Context, id string, p ClientParams) (*models.Client, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var client *models.Client
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Clients(tx)
		c, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		c.Name = p.Name
		c.Phone = p.Phone
		c.Email = p.Email
		c.Notes = p.Notes
		c.Discount = p.Discount
		client = c
		return repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client and, through FK cascades, all of its deposits and
// their audit history.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	var removedDeposits int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.rm.Deposits(tx).CountByClient(ctx, id)
		if err != nil {
			return err
		}
		removedDeposits = n
		return s.rm.Clients(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "client deleted", "client_id", id, "cascaded_deposits", removedDeposits)
	return nil
}

// Get returns one client by id.
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.rm.Clients(s.db).Get(ctx, id)
}

// GetByBarcode resolves a scanned barcode to a client.
func (s *ClientService) GetByBarcode(ctx context.Context, barcode string) (*models.Client, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", common.ErrValidation)
	}
	return s.rm.Clients(s.db).GetByBarcode(ctx, barcode)
}

// List returns clients, optionally filtered by a search string.
func (s *ClientService) List(ctx context.Context, search string) ([]*models.Client, error) {
	return s.rm.Clients(s.db).List(ctx, search)
}

// AssignBarcode attaches a barcode label to a client. An empty barcode
// clears the assignment.
func (s *ClientService) AssignBarcode(ctx context.Context, id, barcode string) error {
	var value *string
	if barcode != "" {
		value = &barcode
	}
	return s.rm.Clients(s.db).SetBarcode(ctx, id, value)
}

// ListDeposits returns all deposits belonging to a client.
func (s *ClientService) ListDeposits(ctx context.Context, clientID string) ([]*models.Deposit, error) {
	if _, err := s.rm.Clients(s.db).Get(ctx, clientID); err != nil {
		return nil, err
	}
	return s.rm.Deposits(s.db).ListByClient(ctx, clientID)
}

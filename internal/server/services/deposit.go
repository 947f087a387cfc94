// Package services contains the business logic of the deposit system. This
// file implements DepositService, the lifecycle engine: it validates and
// applies state transitions, derives duration and overdue classification,
// and writes the audit trail in the same transaction as every mutation.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiredepot/internal/clock"
	"tiredepot/internal/common"
	"tiredepot/internal/dbx"
	"tiredepot/internal/logging"
	"tiredepot/internal/server/models"
	"tiredepot/internal/server/repositories/deposits"
	"tiredepot/internal/server/repositories/repomanager"
)

// Audit descriptions recorded on deposit history entries.
const (
	historyCreated   = "Deposit created"
	historyUpdated   = "Deposit updated"
	historyIssued    = "Marked as issued"
	historyActivated = "Marked as active"
)

// DepositService is the lifecycle engine for tire deposits.
type DepositService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	clock    clock.Clock
	logger   logging.Logger
	validate *validator.Validate
}

// NewDepositService constructs the lifecycle engine.
func NewDepositService(db *sql.DB, rm repomanager.RepositoryManager, clk clock.Clock, logger logging.Logger) *DepositService {
	return &DepositService{
		db:       db,
		rm:       rm,
		clock:    clk,
		logger:   logger.With("service", "deposits"),
		validate: validator.New(),
	}
}

// CreateDepositParams carries the caller-settable fields of a new deposit.
// DepositDate, Status and Duration are assigned by the engine.
type CreateDepositParams struct {
	ClientID           string `validate:"required,uuid"`
	CarModel           string
	RegistrationNumber string
	TireBrand          string
	TireSize           string `validate:"required"`
	Quantity           int    `validate:"required,gt=0"`
	Location           string
	Washing            bool
	Conservation       bool
	Season             string
	ExpectedReturnDate *time.Time
	TechnicalCondition string
	StorageDate        *time.Time
	Price              decimal.Decimal
}

// EditDepositParams carries the fields an edit may change. The deposit date,
// owning client, status and duration are deliberately absent: the first two
// are immutable, the latter two belong to the state machine.
type EditDepositParams struct {
	CarModel           string
	RegistrationNumber string
	TireBrand          string
	TireSize           string `validate:"required"`
	Quantity           int    `validate:"required,gt=0"`
	Location           string
	Washing            bool
	Conservation       bool
	Season             string
	ExpectedReturnDate *time.Time
	TechnicalCondition string
	StorageDate        *time.Time
	Price              decimal.Decimal
}

// Create validates the parameters, stores the deposit as active with
// duration zero, and appends the creation audit entry atomically.
func (s *DepositService) Create(ctx context.Context, p CreateDepositParams, actor string) (*models.Deposit, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}

	now := s.clock.Now()
	deposit := &models.Deposit{
		ID:                 uuid.NewString(),
		ClientID:           p.ClientID,
		CarModel:           p.CarModel,
		RegistrationNumber: p.RegistrationNumber,
		TireBrand:          p.TireBrand,
		TireSize:           p.TireSize,
		Quantity:           p.Quantity,
		Location:           p.Location,
		Washing:            p.Washing,
		Conservation:       p.Conservation,
		DepositDate:        now,
		Status:             models.StatusActive,
		Duration:           0,
		Season:             p.Season,
		ExpectedReturnDate: p.ExpectedReturnDate,
		TechnicalCondition: p.TechnicalCondition,
		StorageDate:        p.StorageDate,
		Price:              p.Price,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := s.rm.Clients(tx).Exists(ctx, p.ClientID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: client %s", common.ErrNotFound, p.ClientID)
		}
		if err := s.rm.Deposits(tx).Create(ctx, deposit); err != nil {
			return err
		}
		return s.rm.History(tx).Append(ctx, s.newHistoryEntry(deposit.ID, actor, historyCreated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "deposit created", "deposit_id", deposit.ID, "client_id", deposit.ClientID)
	return deposit, nil
}

// Edit updates the caller-settable fields of a deposit and recomputes its
// duration. The deposit date and status are untouched; one audit entry is
// appended in the same transaction.
func (s *DepositService) Edit(ctx context.Context, id string, p EditDepositParams, actor string) (*models.Deposit, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}

	var deposit *models.Deposit
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deposits(tx)
		d, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		d.CarModel = p.CarModel
		d.RegistrationNumber = p.RegistrationNumber
		d.TireBrand = p.TireBrand
		d.TireSize = p.TireSize
		d.Quantity = p.Quantity
		d.Location = p.Location
		d.Washing = p.Washing
		d.Conservation = p.Conservation
		d.Season = p.Season
		d.ExpectedReturnDate = p.ExpectedReturnDate
		d.TechnicalCondition = p.TechnicalCondition
		d.StorageDate = p.StorageDate
		d.Price = p.Price
		d.Duration = d.DurationDays(s.clock.Now())

		if err := repo.Update(ctx, d); err != nil {
			return err
		}
		deposit = d
		return s.rm.History(tx).Append(ctx, s.newHistoryEntry(id, actor, historyUpdated))
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// MarkIssued transitions an active deposit to issued: the issue date is set
// once, the duration freezes at the issue instant, and an audit entry is
// appended. Calling it on an already issued deposit is rejected with
// ErrInvalidTransition.
func (s *DepositService) MarkIssued(ctx context.Context, id, actor string) (*models.Deposit, error) {
	var deposit *models.Deposit
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deposits(tx)
		d, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if d.Status == models.StatusIssued {
			return fmt.Errorf("%w: deposit %s is already issued", common.ErrInvalidTransition, id)
		}

		now := s.clock.Now()
		d.Status = models.StatusIssued
		d.IssueDate = &now
		d.Duration = d.DurationDays(now)

		if err := repo.Update(ctx, d); err != nil {
			return err
		}
		deposit = d
		return s.rm.History(tx).Append(ctx, s.newHistoryEntry(id, actor, historyIssued))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "deposit issued", "deposit_id", id)
	return deposit, nil
}

// MarkActive transitions an issued deposit back to active: the issue date is
// cleared, the duration runs against "now" again, and an audit entry is
// appended. Calling it on an already active deposit is rejected with
// ErrInvalidTransition.
func (s *DepositService) MarkActive(ctx context.Context, id, actor string) (*models.Deposit, error) {
	var deposit *models.Deposit
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deposits(tx)
		d, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if d.Status == models.StatusActive {
			return fmt.Errorf("%w: deposit %s is already active", common.ErrInvalidTransition, id)
		}

		d.Status = models.StatusActive
		d.IssueDate = nil
		d.Duration = d.DurationDays(s.clock.Now())

		if err := repo.Update(ctx, d); err != nil {
			return err
		}
		deposit = d
		return s.rm.History(tx).Append(ctx, s.newHistoryEntry(id, actor, historyActivated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "deposit reactivated", "deposit_id", id)
	return deposit, nil
}

// Delete hard-deletes a deposit. Its audit trail is removed by the FK
// cascade, so the deletion itself is recorded in the structured log only.
func (s *DepositService) Delete(ctx context.Context, id, actor string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Deposits(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "deposit deleted", "deposit_id", id, "actor", actor)
	return nil
}

// Get returns one deposit with its duration recomputed against the current
// clock, so reads between scheduler refreshes stay accurate.
func (s *DepositService) Get(ctx context.Context, id string) (*models.Deposit, error) {
	d, err := s.rm.Deposits(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Duration = d.DurationDays(s.clock.Now())
	return d, nil
}

// List returns deposits scoped by status filter and search text. The
// overdue view is derived in the repository through the same predicate as
// the active view.
func (s *DepositService) List(ctx context.Context, filter deposits.StatusFilter, search string) ([]*models.DepositWithClient, error) {
	if filter == "" {
		filter = deposits.FilterAll
	}
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown status filter %q", common.ErrValidation, filter)
	}

	now := s.clock.Now()
	result, err := s.rm.Deposits(s.db).List(ctx, filter, search, now)
	if err != nil {
		return nil, err
	}
	for _, d := range result {
		d.Duration = d.DurationDays(now)
	}
	return result, nil
}

// GetHistory returns the audit trail of a deposit, newest first.
func (s *DepositService) GetHistory(ctx context.Context, depositID string) ([]*models.HistoryEntry, error) {
	if _, err := s.rm.Deposits(s.db).Get(ctx, depositID); err != nil {
		return nil, err
	}
	return s.rm.History(s.db).ListByDeposit(ctx, depositID)
}

// RefreshDurations recomputes the stored duration of every active deposit
// in one batch. Invoked periodically by the scheduler.
func (s *DepositService) RefreshDurations(ctx context.Context) (int64, error) {
	return s.rm.Deposits(s.db).RefreshDurations(ctx, s.clock.Now())
}

// Stats returns the current summary of the deposit book.
func (s *DepositService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.rm.Deposits(s.db).Stats(ctx, s.clock.Now())
}

func (s *DepositService) newHistoryEntry(depositID, actor, description string) *models.HistoryEntry {
	return &models.HistoryEntry{
		ID:          uuid.NewString(),
		DepositID:   depositID,
		ChangeDate:  s.clock.Now(),
		Actor:       actor,
		Description: description,
	}
}

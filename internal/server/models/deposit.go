// Package models defines the persistent domain records of the deposit
// service and the pure lifecycle calculations (duration, overdue) that
// derive from them.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a deposit. A deposit is either still in
// storage (active) or returned to the customer (issued). Both states are
// navigable back and forth; deletion is the only true termination.
type Status string

const (
	StatusActive Status = "active"
	StatusIssued Status = "issued"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusIssued
}

// Deposit is a customer's set of tires held in storage.
//
// DepositDate is set once at creation and never changes. IssueDate is set
// exactly once per transition to issued and cleared on the way back.
// Duration is derived (whole days held) and is refreshed by the scheduler
// while the deposit is active; it is never accepted from callers.
type Deposit struct {
	ID                 string
	ClientID           string
	CarModel           string
	RegistrationNumber string
	TireBrand          string
	TireSize           string
	Quantity           int
	Location           string
	Washing            bool
	Conservation       bool
	DepositDate        time.Time
	IssueDate          *time.Time
	Status             Status
	Duration           int
	Season             string
	ExpectedReturnDate *time.Time
	TechnicalCondition string
	StorageDate        *time.Time
	Price              decimal.Decimal
}

// DepositWithClient is a deposit joined with the owning client's contact
// fields, used by reminder scans and list views.
type DepositWithClient struct {
	Deposit
	ClientName  string
	ClientEmail string
}

// DurationDays returns the whole days the deposit has been held: from
// DepositDate to IssueDate if issued, otherwise to now. Floor-rounded,
// never negative.
func (d *Deposit) DurationDays(now time.Time) int {
	end := now
	if d.IssueDate != nil {
		end = *d.IssueDate
	}
	days := int(end.Sub(d.DepositDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the deposit is active and its expected return
// date has passed. Overdue is a derived classification, never stored.
func (d *Deposit) IsOverdue(now time.Time) bool {
	if d.Status != StatusActive || d.ExpectedReturnDate == nil {
		return false
	}
	return civilDate(*d.ExpectedReturnDate).Before(civilDate(now))
}

// OverdueDays returns whole days past the expected return date, clamped to
// zero when the deposit is not overdue.
func (d *Deposit) OverdueDays(now time.Time) int {
	if !d.IsOverdue(now) {
		return 0
	}
	days := int(civilDate(now).Sub(civilDate(*d.ExpectedReturnDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// civilDate truncates t to its calendar date, normalized to UTC so that
// date arithmetic is immune to zone offsets.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package models

import "github.com/shopspring/decimal"

// Stats is a point-in-time summary of the deposit book.
type Stats struct {
	ActiveCount  int
	IssuedCount  int
	OverdueCount int
	ActiveValue  decimal.Decimal
}

package models

import "time"

// HistoryEntry is an immutable audit record of one change to a deposit.
// Entries are append-only: they are never updated and disappear only when
// the owning deposit is deleted (FK cascade).
type HistoryEntry struct {
	ID          string
	DepositID   string
	ChangeDate  time.Time
	Actor       string
	Description string
}

// SentEmail is a log record of one reminder email handed to the mail
// collaborator. Kept separately from deposit history because email delivery
// is a best-effort side effect that never touches deposit state.
type SentEmail struct {
	ID        string
	ToAddress string
	Subject   string
	Body      string
	SentDate  time.Time
}

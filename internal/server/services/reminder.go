package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tiredepot/internal/clock"
	"tiredepot/internal/logging"
	"tiredepot/internal/server/mailer"
	"tiredepot/internal/server/models"
	"tiredepot/internal/server/repositories/repomanager"
)

// ReminderService emails customers whose deposits are due for pickup in
// exactly leadDays. Delivery is at-most-once and best-effort: a failed send
// is logged and not retried, and the next scan will no longer match the
// deposit's return date.
type ReminderService struct {
	db          *sql.DB
	rm          repomanager.RepositoryManager
	mail        mailer.Mailer
	clock       clock.Clock
	logger      logging.Logger
	leadDays    int
	companyName string
}

// NewReminderService constructs a ReminderService.
func NewReminderService(db *sql.DB, rm repomanager.RepositoryManager, mail mailer.Mailer,
	clk clock.Clock, logger logging.Logger, leadDays int, companyName string) *ReminderService {
	return &ReminderService{
		db:          db,
		rm:          rm,
		mail:        mail,
		clock:       clk,
		logger:      logger.With("service", "reminders"),
		leadDays:    leadDays,
		companyName: companyName,
	}
}

// Scan finds active deposits whose expected return date is exactly leadDays
// ahead and whose client has an email address, and sends each one reminder.
// Successful sends are recorded in the email log; failures never affect
// deposit state. Returns the number of reminders sent.
func (s *ReminderService) Scan(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due := now.AddDate(0, 0, s.leadDays)

	eligible, err := s.rm.Deposits(s.db).DueForReminder(ctx, due)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range eligible {
		subject := "Tire pickup reminder"
		body := fmt.Sprintf(
			"Dear %s,\n\nThis is a reminder that your tire deposit is due for pickup on %s.\n\nBest regards,\n%s",
			d.ClientName, d.ExpectedReturnDate.Format("2006-01-02"), s.companyName)

		if err := s.mail.Send(ctx, d.ClientEmail, subject, body); err != nil {
			s.logger.Error(ctx, "reminder send failed",
				"deposit_id", d.ID, "to", d.ClientEmail, "error", err.Error())
			continue
		}

		record := &models.SentEmail{
			ID:        uuid.NewString(),
			ToAddress: d.ClientEmail,
			Subject:   subject,
			Body:      body,
			SentDate:  now,
		}
		if err := s.rm.Emails(s.db).Append(ctx, record); err != nil {
			// message is already out; losing a log row must not fail the scan
			s.logger.Error(ctx, "email log write failed", "deposit_id", d.ID, "error", err.Error())
		}

		sent++
		s.logger.Info(ctx, "reminder sent", "deposit_id", d.ID, "to", d.ClientEmail)
	}
	return sent, nil
}

// SentEmails returns the reminder log, newest first.
func (s *ReminderService) SentEmails(ctx context.Context) ([]*models.SentEmail, error) {
	return s.rm.Emails(s.db).List(ctx)
}

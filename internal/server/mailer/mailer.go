// Package mailer is the outbound email collaborator. The core hands it
// fully rendered reminder messages; delivery is best-effort and never
// affects deposit state.
package mailer

import "context"

// Mailer sends one email message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

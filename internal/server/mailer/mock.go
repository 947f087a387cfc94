package mailer

import (
	"context"
	"sync"
)

// SentMessage is one message captured by the Mock mailer.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// Mock is an in-memory Mailer for tests. Set Err to simulate transport
// failures.
type Mock struct {
	mu   sync.Mutex
	sent []SentMessage

	Err error
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Send(ctx context.Context, to, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all captured messages.
func (m *Mock) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

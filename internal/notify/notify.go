package notify

import (
	"context"
	"sync"
)

// Sender delivers notification emails. Failures must not abort the analysis
// that triggered them; callers log and move on.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Email is a captured message, used by MemorySender.
type Email struct {
	To      string
	Subject string
	Body    string
}

// MemorySender records emails instead of delivering them. It backs local runs
// and tests.
type MemorySender struct {
	mu     sync.Mutex
	emails []Email
}

// NewMemorySender constructs a MemorySender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// Send records the email.
func (s *MemorySender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, Email{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded emails.
func (s *MemorySender) Sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.emails...)
}

var _ Sender = (*MemorySender)(nil)

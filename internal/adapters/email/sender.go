package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Soft Reserves <noreply@example.org>")
	Subject string
	HTML    string // HTML body
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// DigestMailer adapts a Sender to the rollover digest hook: a fixed
// recipient list and from address, one HTML mail per rollover.
type DigestMailer struct {
	sender Sender
	from   string
	to     []string
}

// NewDigestMailer creates a DigestMailer.
// PRE: sender is non-nil; to has at least one recipient
func NewDigestMailer(sender Sender, from string, to []string) *DigestMailer {
	return &DigestMailer{sender: sender, from: from, to: to}
}

// SendDigest sends one rollover digest mail.
// POST: The mail is queued with the provider; the caller treats errors as
// non-fatal
func (m *DigestMailer) SendDigest(ctx context.Context, subject, html string) error {
	_, err := m.sender.Send(ctx, SendRequest{
		To:      m.to,
		From:    m.from,
		Subject: subject,
		HTML:    html,
	})
	return err
}

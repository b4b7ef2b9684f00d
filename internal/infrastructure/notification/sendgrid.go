package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier delivers transaction receipts over SendGrid. It
// implements usecase.Notifier.
type SendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridNotifier creates a new SendGridNotifier.
func NewSendGridNotifier(apiKey, fromEmail, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Notify sends an HTML email to the recipient.
func (s *SendGridNotifier) Notify(ctx context.Context, recipientEmail, recipientName, subject, htmlBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(recipientName, recipientEmail)

	// SendGrid rejects empty content parts, so the plain text falls back
	// to the subject line.
	message := mail.NewSingleEmail(from, subject, recipient, subject, htmlBody)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers transactional email to downstream providers.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer constructs an SMTP-backed mailer.
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

// Send dials the relay and delivers a single HTML message.
func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LoggerMailer is a stub implementation that writes outbound mail to the logger.
// Used in development when no SMTP relay is configured.
type LoggerMailer struct {
	logger *slog.Logger
}

// NewLoggerMailer constructs a logging mailer stub.
func NewLoggerMailer(logger *slog.Logger) *LoggerMailer {
	return &LoggerMailer{logger: logger}
}

// Send writes the message to the structured logger.
func (m *LoggerMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("outbound mail", "to", to, "subject", subject, "body", htmlBody)
	return nil
}

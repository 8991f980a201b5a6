package provider

import (
	"context"
	"strings"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	defaultSubject  = "Notification"
	defaultSMTPPort = 587
)

// SMTPCredentials are per-job provider credentials from the submission.
// A missing user switches the sender to simulation mode.
type SMTPCredentials struct {
	Host string
	Port int
	User string
	Pass string
}

// SimulationMode reports whether sends should be logged instead of
// delivered. This is the deliberate dry-run affordance for submissions
// without an authenticated SMTP user.
func (c SMTPCredentials) SimulationMode() bool {
	return strings.TrimSpace(c.User) == ""
}

// EmailSender delivers rendered messages over SMTP with STARTTLS.
type EmailSender struct {
	creds   SMTPCredentials
	subject string
	logger  *zap.Logger

	// transmit is swapped in tests to avoid real SMTP sessions.
	transmit func(ctx context.Context, creds SMTPCredentials, to, subject, body string) error
}

func NewEmailSender(creds SMTPCredentials, subject string, logger *zap.Logger) *EmailSender {
	if strings.TrimSpace(subject) == "" {
		subject = defaultSubject
	}
	if creds.Port <= 0 {
		creds.Port = defaultSMTPPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EmailSender{
		creds:    creds,
		subject:  subject,
		logger:   logger,
		transmit: smtpTransmit,
	}
}

func (s *EmailSender) Channel() domain.Channel { return domain.ChannelEmail }

func (s *EmailSender) Address(r domain.Recipient) string {
	return strings.TrimSpace(r.Email)
}

func (s *EmailSender) Send(ctx context.Context, address string, message string) error {
	if s.creds.SimulationMode() {
		s.logger.Info("simulation mode, skipping smtp delivery",
			zap.String("to", address),
		)
		return nil
	}

	if err := s.transmit(ctx, s.creds, address, s.subject, message); err != nil {
		return &SendError{
			Channel: domain.ChannelEmail,
			Message: "smtp delivery failed",
			Cause:   err,
		}
	}
	return nil
}

func smtpTransmit(ctx context.Context, creds SMTPCredentials, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(creds.User); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(creds.Host,
		mail.WithPort(creds.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.User),
		mail.WithPassword(creds.Pass),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}

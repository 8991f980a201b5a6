package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"go.uber.org/zap"
)

const defaultCountryCode = "+91"

// Automator drives an external messaging web client: open, type, send.
// Implementations block for the whole browser interaction.
type Automator interface {
	SendMessage(ctx context.Context, phone string, message string) error
}

// WhatsAppSender normalizes destination numbers and delegates to the
// automation bridge.
type WhatsAppSender struct {
	automator   Automator
	countryCode string
	logger      *zap.Logger
}

func NewWhatsAppSender(automator Automator, countryCode string, logger *zap.Logger) (*WhatsAppSender, error) {
	if automator == nil {
		return nil, fmt.Errorf("automator is required")
	}
	if strings.TrimSpace(countryCode) == "" {
		countryCode = defaultCountryCode
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WhatsAppSender{
		automator:   automator,
		countryCode: countryCode,
		logger:      logger,
	}, nil
}

func (s *WhatsAppSender) Channel() domain.Channel { return domain.ChannelWhatsApp }

func (s *WhatsAppSender) Address(r domain.Recipient) string {
	return strings.TrimSpace(r.Phone)
}

func (s *WhatsAppSender) Send(ctx context.Context, address string, message string) error {
	phone := s.NormalizePhone(address)

	// The automation call blocks at the host level. Run it off the
	// calling goroutine so a stuck browser session cannot pin the
	// scheduler; the current job still waits for its own send.
	done := make(chan error, 1)
	go func() {
		done <- s.automator.SendMessage(ctx, phone, message)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		return &SendError{
			Channel: domain.ChannelWhatsApp,
			Message: fmt.Sprintf("automation send to %s failed", phone),
			Cause:   err,
		}
	}

	s.logger.Debug("automation send finished", zap.String("phone", phone))
	return nil
}

// NormalizePhone applies the destination number rules: keep numbers
// already in international form, prefix bare 10-digit numbers with the
// default country code, prefix everything else with "+".
func (s *WhatsAppSender) NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if len(phone) == 10 && isDigits(phone) {
		return s.countryCode + phone
	}
	return "+" + phone
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

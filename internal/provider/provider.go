package provider

import (
	"context"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
)

// Sender is the outbound delivery port for one channel.
type Sender interface {
	// Channel identifies the delivery medium this sender serves.
	Channel() domain.Channel
	// Address extracts the recipient's destination for this channel.
	// Empty means the channel does not apply to the recipient and no
	// attempt is made.
	Address(r domain.Recipient) string
	// Send delivers one rendered message. Failures come back as
	// *SendError and are never retried.
	Send(ctx context.Context, address string, message string) error
}

package provider

import (
	"fmt"
	"strings"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
)

// SendError is a per-channel delivery failure. The worker folds it into
// a job log line and a failure counter; it never aborts the job.
type SendError struct {
	Channel domain.Channel
	Message string
	Cause   error
}

func (e *SendError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 3)
	parts = append(parts, fmt.Sprintf("%s send error", strings.ToLower(e.Channel.String())))

	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *SendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

package ratelimit

import (
	"context"
	"time"
)

// Pacer enforces the inter-recipient delay within one job. Pacing is
// per job: one job's pacer never affects another job.
type Pacer interface {
	Pace(ctx context.Context) error
}

// FixedDelayPacer waits a constant duration between recipients.
// Sequential sends plus this delay are the engine's only defense
// against provider throttling and automation-account bans.
type FixedDelayPacer struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func NewFixedDelayPacer(delay time.Duration) *FixedDelayPacer {
	if delay < 0 {
		delay = 0
	}
	return &FixedDelayPacer{
		delay: delay,
		sleep: sleepWithContext,
	}
}

func (p *FixedDelayPacer) Pace(ctx context.Context) error {
	if p.delay == 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, p.delay)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

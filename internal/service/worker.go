package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"github.com/kursadbilgin/bulk-notify/internal/observability"
	"github.com/kursadbilgin/bulk-notify/internal/provider"
	"github.com/kursadbilgin/bulk-notify/internal/ratelimit"
	"github.com/kursadbilgin/bulk-notify/internal/registry"
	"go.uber.org/zap"
)

// worker processes one job's recipients strictly in order. There is no
// cancellation: once started it runs to completion, and it is the only
// writer for its job record.
type worker struct {
	jobID      string
	recipients []domain.Recipient
	template   string
	senders    []provider.Sender
	registry   *registry.Registry
	pacer      ratelimit.Pacer
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

func (w *worker) run() {
	ctx := context.Background()
	total := len(w.recipients)
	successCount := 0
	failCount := 0

	for i, recipient := range w.recipients {
		// Progress counts recipients started, not completed, so the
		// final recipient begins below 100.
		progress := i * 100 / total
		w.update(func(job *domain.Job) { job.Progress = progress })

		name := recipient.DisplayName()
		message := domain.RenderTemplate(w.template, recipient)

		recipientFailed := false
		for _, sender := range w.senders {
			address := sender.Address(recipient)
			if address == "" {
				continue
			}

			channel := sender.Channel()
			sendStart := w.now()
			err := sender.Send(ctx, address, message)
			w.metrics.ObserveSendDuration(channel.String(), w.now().Sub(sendStart))
			w.metrics.IncSend(channel.String(), err == nil)

			if err != nil {
				// One bad channel never suppresses the other channel or
				// the remaining recipients.
				recipientFailed = true
				w.logger.Warn("send failed",
					zap.String("jobId", w.jobID),
					zap.String("channel", channel.String()),
					zap.Error(err),
				)
				w.appendLog(fmt.Sprintf("failed for %s: %v", name, err))
				continue
			}

			w.appendLog(successLogLine(channel, address))
		}

		if recipientFailed {
			failCount++
		} else {
			successCount++
		}
		w.metrics.IncRecipientProcessed(!recipientFailed)

		// Fixed pause after every recipient, the last one included.
		if err := w.pacer.Pace(ctx); err != nil {
			w.logger.Warn("pacing interrupted",
				zap.String("jobId", w.jobID),
				zap.Error(err),
			)
		}
	}

	summary := domain.FormatSummary(successCount, failCount)
	w.update(func(job *domain.Job) {
		job.Status = domain.JobStatusCompleted
		job.Progress = 100
		job.Summary = summary
	})
	w.metrics.IncJobCompleted()
	w.logger.Info("job completed",
		zap.String("jobId", w.jobID),
		zap.Int("total", total),
		zap.Int("succeeded", successCount),
		zap.Int("failed", failCount),
	)
}

func (w *worker) appendLog(line string) {
	w.update(func(job *domain.Job) {
		job.Logs = append(job.Logs, line)
	})
}

func (w *worker) update(mutate func(job *domain.Job)) {
	if err := w.registry.Update(w.jobID, mutate); err != nil {
		w.logger.Error("job update failed",
			zap.String("jobId", w.jobID),
			zap.Error(err),
		)
	}
}

func successLogLine(channel domain.Channel, address string) string {
	if channel == domain.ChannelWhatsApp {
		return "whatsapp queued for " + address
	}
	return "email sent to " + address
}

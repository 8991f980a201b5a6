package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"github.com/kursadbilgin/bulk-notify/internal/observability"
	"github.com/kursadbilgin/bulk-notify/internal/provider"
	"github.com/kursadbilgin/bulk-notify/internal/ratelimit"
	"github.com/kursadbilgin/bulk-notify/internal/registry"
	"go.uber.org/zap"
)

// Submission is one bulk-send request.
type Submission struct {
	Recipients  []domain.Recipient
	Channel     domain.ChannelSelector
	Template    string
	Subject     string
	Credentials provider.SMTPCredentials
}

// EmailDefaults fills in SMTP host/port when a submission omits them.
type EmailDefaults struct {
	Host string
	Port int
}

// BulkService validates submissions, creates the job record, and spawns
// exactly one worker goroutine per job. Submission never blocks on
// delivery: the returned id is the only handle the caller keeps.
type BulkService struct {
	registry      *registry.Registry
	whatsapp      *provider.WhatsAppSender
	emailDefaults EmailDefaults
	pacer         ratelimit.Pacer
	logger        *zap.Logger
	metrics       *observability.Metrics

	// spawn is swapped in tests to run workers synchronously.
	spawn func(fn func())
}

func NewBulkService(
	reg *registry.Registry,
	whatsapp *provider.WhatsAppSender,
	emailDefaults EmailDefaults,
	pacer ratelimit.Pacer,
	logger *zap.Logger,
) (*BulkService, error) {
	if reg == nil {
		return nil, fmt.Errorf("job registry is required")
	}
	if whatsapp == nil {
		return nil, fmt.Errorf("whatsapp sender is required")
	}
	if pacer == nil {
		return nil, fmt.Errorf("pacer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BulkService{
		registry:      reg,
		whatsapp:      whatsapp,
		emailDefaults: emailDefaults,
		pacer:         pacer,
		logger:        logger,
		spawn:         func(fn func()) { go fn() },
	}, nil
}

func (s *BulkService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// StartJob creates a job and fires its worker. The job record is in the
// registry before the worker starts, so status polls right after
// submission always find it.
func (s *BulkService) StartJob(sub Submission) (string, error) {
	if strings.TrimSpace(sub.Template) == "" {
		return "", fmt.Errorf("%w: template is required", domain.ErrValidation)
	}
	if !sub.Channel.IsValid() {
		return "", fmt.Errorf("%w: channel must include email or whatsapp", domain.ErrValidation)
	}

	senders := s.buildSenders(sub)

	jobID := s.registry.Create(len(sub.Recipients))
	s.metrics.IncJobStarted()
	s.logger.Info("job started",
		zap.String("jobId", jobID),
		zap.Int("total", len(sub.Recipients)),
		zap.String("channel", string(sub.Channel)),
	)

	w := &worker{
		jobID:      jobID,
		recipients: sub.Recipients,
		template:   sub.Template,
		senders:    senders,
		registry:   s.registry,
		pacer:      s.pacer,
		logger:     s.logger,
		metrics:    s.metrics,
		now:        time.Now,
	}
	s.spawn(w.run)

	return jobID, nil
}

// GetJob returns the job record verbatim.
func (s *BulkService) GetJob(id string) (*domain.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrValidation)
	}
	return s.registry.Get(id)
}

func (s *BulkService) buildSenders(sub Submission) []provider.Sender {
	senders := make([]provider.Sender, 0, 2)

	if sub.Channel.WantsEmail() {
		creds := sub.Credentials
		if strings.TrimSpace(creds.Host) == "" {
			creds.Host = s.emailDefaults.Host
		}
		if creds.Port <= 0 {
			creds.Port = s.emailDefaults.Port
		}
		senders = append(senders, provider.NewEmailSender(creds, sub.Subject, s.logger))
	}
	if sub.Channel.WantsWhatsApp() {
		senders = append(senders, s.whatsapp)
	}

	return senders
}

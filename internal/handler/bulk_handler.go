package handler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"github.com/kursadbilgin/bulk-notify/internal/provider"
	"github.com/kursadbilgin/bulk-notify/internal/service"
	"github.com/kursadbilgin/bulk-notify/internal/source"
)

// uploadPreviewSize caps the recipient preview returned by upload.
const uploadPreviewSize = 5

type BulkService interface {
	StartJob(sub service.Submission) (string, error)
	GetJob(id string) (*domain.Job, error)
}

type BulkHandler struct {
	service BulkService
	source  source.RecipientSource
}

func NewBulkHandler(svc BulkService, src source.RecipientSource) (*BulkHandler, error) {
	if svc == nil {
		return nil, fmt.Errorf("bulk service is required")
	}
	if src == nil {
		return nil, fmt.Errorf("recipient source is required")
	}
	return &BulkHandler{service: svc, source: src}, nil
}

func RegisterBulkRoutes(router fiber.Router, svc BulkService, src source.RecipientSource) error {
	h, err := NewBulkHandler(svc, src)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/bulk/upload", h.UploadRecipients)
	v1.Post("/bulk/send", h.SendBulk)
	v1.Get("/bulk/status/:id", h.GetStatus)

	return nil
}

type bulkSendRequest struct {
	Recipients []domain.Recipient `json:"recipients"`
	Channel    string             `json:"channel"`
	Template   string             `json:"template"`
	Subject    string             `json:"subject"`
	SMTPHost   string             `json:"smtpHost"`
	SMTPPort   int                `json:"smtpPort"`
	SMTPUser   string             `json:"smtpUser"`
	SMTPPass   string             `json:"smtpPass"`
}

type bulkSendResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type uploadResponse struct {
	Total      int                `json:"total"`
	Preview    []domain.Recipient `json:"preview"`
	Recipients []domain.Recipient `json:"recipients"`
}

type jobResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Total     int       `json:"total"`
	StartedAt time.Time `json:"startedAt"`
	Logs      []string  `json:"logs"`
	Summary   string    `json:"summary,omitempty"`
}

func (h *BulkHandler) UploadRecipients(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "recipient file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "recipient file could not be opened")
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "recipient file could not be read")
	}

	recipients, err := h.source.Parse(data)
	if err != nil {
		return toHTTPError(err)
	}

	previewEnd := len(recipients)
	if previewEnd > uploadPreviewSize {
		previewEnd = uploadPreviewSize
	}

	return c.Status(fiber.StatusOK).JSON(uploadResponse{
		Total:      len(recipients),
		Preview:    recipients[:previewEnd],
		Recipients: recipients,
	})
}

func (h *BulkHandler) SendBulk(c *fiber.Ctx) error {
	var req bulkSendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	jobID, err := h.service.StartJob(service.Submission{
		Recipients: req.Recipients,
		Channel:    domain.ChannelSelector(req.Channel),
		Template:   req.Template,
		Subject:    req.Subject,
		Credentials: provider.SMTPCredentials{
			Host: req.SMTPHost,
			Port: req.SMTPPort,
			User: req.SMTPUser,
			Pass: req.SMTPPass,
		},
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(bulkSendResponse{
		JobID:  jobID,
		Status: domain.JobStatusProcessing.String(),
	})
}

func (h *BulkHandler) GetStatus(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(jobResponse{
		ID:        job.ID,
		Status:    job.Status.String(),
		Progress:  job.Progress,
		Total:     job.Total,
		StartedAt: job.StartedAt,
		Logs:      job.Logs,
		Summary:   job.Summary,
	})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrParse):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}

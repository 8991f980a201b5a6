package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"github.com/kursadbilgin/bulk-notify/internal/service"
	"github.com/kursadbilgin/bulk-notify/internal/source"
	"github.com/kursadbilgin/bulk-notify/internal/transport"
	"go.uber.org/zap"
)

type stubBulkService struct {
	startJobFn func(sub service.Submission) (string, error)
	getJobFn   func(id string) (*domain.Job, error)
}

func (s *stubBulkService) StartJob(sub service.Submission) (string, error) {
	if s.startJobFn == nil {
		return "", fmt.Errorf("not implemented")
	}
	return s.startJobFn(sub)
}

func (s *stubBulkService) GetJob(id string) (*domain.Job, error) {
	if s.getJobFn == nil {
		return nil, fmt.Errorf("not implemented")
	}
	return s.getJobFn(id)
}

func newBulkTestApp(t *testing.T, svc BulkService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})
	if err := RegisterBulkRoutes(app, svc, source.NewFileSource(nil)); err != nil {
		t.Fatalf("RegisterBulkRoutes() error = %v", err)
	}
	return app
}

func performRequest(t *testing.T, app *fiber.App, method, target, body, contentType string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, respBody
}

func TestBulkHandlerUploadRecipients(t *testing.T) {
	t.Parallel()

	app := newBulkTestApp(t, &stubBulkService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "contacts.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("name,email,city\nAsha,asha@example.com,Pune\nBen,ben@example.com,Delhi\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	resp, body := performRequest(t, app, http.MethodPost, "/v1/bulk/upload", buf.String(), writer.FormDataContentType())
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Total      int                `json:"total"`
		Preview    []domain.Recipient `json:"preview"`
		Recipients []domain.Recipient `json:"recipients"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed.Total != 2 || len(parsed.Recipients) != 2 {
		t.Fatalf("total = %d, recipients = %d, want 2/2", parsed.Total, len(parsed.Recipients))
	}
	if len(parsed.Preview) != 2 {
		t.Fatalf("preview = %d entries, want 2", len(parsed.Preview))
	}
	if parsed.Recipients[0].Extra["city"] != "Pune" {
		t.Fatalf("extra = %v, want city preserved", parsed.Recipients[0].Extra)
	}
}

func TestBulkHandlerUploadRejectsGarbage(t *testing.T) {
	t.Parallel()

	app := newBulkTestApp(t, &stubBulkService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "contacts.bin")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte{0x00, 0xff, 0x00, 0x01}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/bulk/upload", buf.String(), writer.FormDataContentType())
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unparseable file", resp.StatusCode)
	}
}

func TestBulkHandlerUploadRequiresFile(t *testing.T) {
	t.Parallel()

	app := newBulkTestApp(t, &stubBulkService{})

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/bulk/upload", "", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when the file part is missing", resp.StatusCode)
	}
}

func TestBulkHandlerSendBulk(t *testing.T) {
	t.Parallel()

	var gotSub service.Submission
	svc := &stubBulkService{
		startJobFn: func(sub service.Submission) (string, error) {
			gotSub = sub
			return "job-123", nil
		},
	}
	app := newBulkTestApp(t, svc)

	reqBody := `{
		"recipients": [{"name":"Asha","email":"asha@example.com"}],
		"channel": "email,whatsapp",
		"template": "Hi {{name}}",
		"subject": "Launch",
		"smtpHost": "smtp.example.com",
		"smtpPort": 2525,
		"smtpUser": "mailer@example.com",
		"smtpPass": "secret"
	}`

	resp, body := performRequest(t, app, http.MethodPost, "/v1/bulk/send", reqBody, "application/json")
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202, body=%s", resp.StatusCode, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["jobId"] != "job-123" {
		t.Fatalf("jobId = %v, want job-123", parsed["jobId"])
	}
	if parsed["status"] != domain.JobStatusProcessing.String() {
		t.Fatalf("status = %v, want PROCESSING", parsed["status"])
	}

	if !gotSub.Channel.WantsEmail() || !gotSub.Channel.WantsWhatsApp() {
		t.Fatalf("channel = %q, want both channels selected", gotSub.Channel)
	}
	if gotSub.Credentials.User != "mailer@example.com" || gotSub.Credentials.Port != 2525 {
		t.Fatalf("credentials = %+v, not forwarded", gotSub.Credentials)
	}
	if len(gotSub.Recipients) != 1 || gotSub.Recipients[0].Name != "Asha" {
		t.Fatalf("recipients = %+v, not forwarded", gotSub.Recipients)
	}
}

func TestBulkHandlerSendBulkValidationError(t *testing.T) {
	t.Parallel()

	svc := &stubBulkService{
		startJobFn: func(sub service.Submission) (string, error) {
			return "", fmt.Errorf("%w: template is required", domain.ErrValidation)
		},
	}
	app := newBulkTestApp(t, svc)

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/bulk/send", `{"channel":"email"}`, "application/json")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBulkHandlerGetStatus(t *testing.T) {
	t.Parallel()

	startedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubBulkService{
		getJobFn: func(id string) (*domain.Job, error) {
			if id != "job-123" {
				return nil, fmt.Errorf("%w: job %q", domain.ErrNotFound, id)
			}
			return &domain.Job{
				ID:        "job-123",
				Status:    domain.JobStatusCompleted,
				Progress:  100,
				Total:     3,
				StartedAt: startedAt,
				Logs:      []string{"email sent to asha@example.com"},
				Summary:   "Sent: 3, Failed: 0",
			}, nil
		},
	}
	app := newBulkTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/bulk/status/job-123", "", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["status"] != domain.JobStatusCompleted.String() {
		t.Fatalf("status = %v, want COMPLETED", parsed["status"])
	}
	if parsed["summary"] != "Sent: 3, Failed: 0" {
		t.Fatalf("summary = %v", parsed["summary"])
	}
	if parsed["progress"].(float64) != 100 {
		t.Fatalf("progress = %v, want 100", parsed["progress"])
	}
}

func TestBulkHandlerGetStatusUnknownID(t *testing.T) {
	t.Parallel()

	svc := &stubBulkService{
		getJobFn: func(id string) (*domain.Job, error) {
			return nil, fmt.Errorf("%w: job %q", domain.ErrNotFound, id)
		},
	}
	app := newBulkTestApp(t, svc)

	resp, _ := performRequest(t, app, http.MethodGet, "/v1/bulk/status/nope", "", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

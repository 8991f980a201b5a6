package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const bridgeTimeoutMargin = 30 * time.Second

// ErrBridgeNotConfigured is returned by DisabledAutomator when no
// bridge URL was configured.
var ErrBridgeNotConfigured = errors.New("whatsapp bridge is not configured")

type bridgeRequest struct {
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	LoadWaitSeconds  int    `json:"loadWaitSeconds"`
	CloseWaitSeconds int    `json:"closeWaitSeconds"`
}

// BridgeAutomator sends through a WhatsApp Web automation bridge over
// HTTP. The bridge opens the web client, waits loadWait for it to load,
// types and sends the message, then waits closeWait before closing the
// tab; the HTTP call blocks for the whole interaction.
type BridgeAutomator struct {
	client    *resty.Client
	endpoint  string
	loadWait  time.Duration
	closeWait time.Duration
}

func NewBridgeAutomator(endpoint string, loadWait, closeWait time.Duration) (*BridgeAutomator, error) {
	client := resty.New()
	client.SetTimeout(loadWait + closeWait + bridgeTimeoutMargin)
	client.SetRetryCount(0)

	return NewBridgeAutomatorWithClient(endpoint, loadWait, closeWait, client)
}

func NewBridgeAutomatorWithClient(endpoint string, loadWait, closeWait time.Duration, client *resty.Client) (*BridgeAutomator, error) {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		return nil, fmt.Errorf("bridge endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmedEndpoint); err != nil {
		return nil, fmt.Errorf("invalid bridge endpoint: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	if loadWait < 0 || closeWait < 0 {
		return nil, fmt.Errorf("bridge wait durations must not be negative")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(loadWait + closeWait + bridgeTimeoutMargin)
	}
	client.SetRetryCount(0)

	return &BridgeAutomator{
		client:    client,
		endpoint:  trimmedEndpoint,
		loadWait:  loadWait,
		closeWait: closeWait,
	}, nil
}

func (a *BridgeAutomator) SendMessage(ctx context.Context, phone string, message string) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("automator is not initialized")
	}

	response, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(bridgeRequest{
			Phone:            phone,
			Message:          message,
			LoadWaitSeconds:  int(a.loadWait.Seconds()),
			CloseWaitSeconds: int(a.closeWait.Seconds()),
		}).
		Post(a.endpoint)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	if response == nil {
		return fmt.Errorf("bridge returned empty response")
	}

	statusCode := response.StatusCode()
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	body := strings.TrimSpace(response.String())
	if body == "" {
		return fmt.Errorf("bridge returned status %d", statusCode)
	}
	return fmt.Errorf("bridge returned status %d: %s", statusCode, body)
}

// DisabledAutomator stands in when no bridge URL is configured. Every
// send fails, which the worker records as a per-recipient failure
// without aborting the job.
type DisabledAutomator struct{}

func (DisabledAutomator) SendMessage(context.Context, string, string) error {
	return ErrBridgeNotConfigured
}

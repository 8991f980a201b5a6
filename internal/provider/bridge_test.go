package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBridgeAutomatorSendMessageSuccess(t *testing.T) {
	t.Parallel()

	var gotBody bridgeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	automator, err := NewBridgeAutomator(server.URL, 20*time.Second, 4*time.Second)
	if err != nil {
		t.Fatalf("NewBridgeAutomator() error = %v", err)
	}

	if err := automator.SendMessage(context.Background(), "+919876543210", "Hi Asha"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if gotBody.Phone != "+919876543210" {
		t.Fatalf("request.phone = %q, want +919876543210", gotBody.Phone)
	}
	if gotBody.Message != "Hi Asha" {
		t.Fatalf("request.message = %q, want Hi Asha", gotBody.Message)
	}
	if gotBody.LoadWaitSeconds != 20 || gotBody.CloseWaitSeconds != 4 {
		t.Fatalf("waits = (%d, %d), want (20, 4)", gotBody.LoadWaitSeconds, gotBody.CloseWaitSeconds)
	}
}

func TestBridgeAutomatorSendMessageFailureStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("automation session crashed"))
	}))
	defer server.Close()

	automator, err := NewBridgeAutomator(server.URL, time.Second, time.Second)
	if err != nil {
		t.Fatalf("NewBridgeAutomator() error = %v", err)
	}

	sendErr := automator.SendMessage(context.Background(), "+919876543210", "hi")
	if sendErr == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(sendErr.Error(), "502") {
		t.Fatalf("error = %v, want status code in message", sendErr)
	}
	if !strings.Contains(sendErr.Error(), "automation session crashed") {
		t.Fatalf("error = %v, want bridge body in message", sendErr)
	}
}

func TestBridgeAutomatorRejectsInvalidEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := NewBridgeAutomator("", time.Second, time.Second); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
	if _, err := NewBridgeAutomator("not a url", time.Second, time.Second); err == nil {
		t.Fatal("expected error for malformed endpoint")
	}
}

func TestBridgeAutomatorSendMessageConnectionError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	automator, err := NewBridgeAutomator(server.URL, time.Second, time.Second)
	if err != nil {
		t.Fatalf("NewBridgeAutomator() error = %v", err)
	}

	if err := automator.SendMessage(context.Background(), "+919876543210", "hi"); err == nil {
		t.Fatal("expected error for unreachable bridge")
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Messenger delivers a text message to a phone number. Implementations
// attempt immediate delivery and return an error on failure; callers must
// handle failures per recipient.
type Messenger interface {
	Send(ctx context.Context, phone, message string) error
}

// GatewayMessenger delivers messages through an HTTP gateway that accepts a
// JSON body of the form {"to": ..., "message": ...}.
type GatewayMessenger struct {
	url    string
	client *http.Client
}

// NewGatewayMessenger constructs a gateway messenger with a per-call timeout.
func NewGatewayMessenger(url string, timeout time.Duration) *GatewayMessenger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GatewayMessenger{url: url, client: &http.Client{Timeout: timeout}}
}

// gatewayRequest is the JSON payload posted to the gateway.
type gatewayRequest struct {
	To      string `json:"to"`      // Recipient phone in international digits.
	Message string `json:"message"` // Message body.
}

// Send posts the message to the gateway and treats any non-2xx response as a
// delivery failure.
func (m *GatewayMessenger) Send(ctx context.Context, phone, message string) error {
	body, errMarshal := json.Marshal(gatewayRequest{To: phone, Message: message})
	if errMarshal != nil {
		return fmt.Errorf("notify: marshal gateway request: %w", errMarshal)
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if errReq != nil {
		return fmt.Errorf("notify: build gateway request: %w", errReq)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, errDo := m.client.Do(req)
	if errDo != nil {
		return fmt.Errorf("notify: deliver to %s: %w", phone, errDo)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: deliver to %s: gateway returned %d", phone, resp.StatusCode)
	}
	return nil
}

// LogMessenger writes messages to the log instead of delivering them. It is
// the fallback when no gateway is configured.
type LogMessenger struct{}

// NewLogMessenger constructs a log-only messenger.
func NewLogMessenger() *LogMessenger {
	return &LogMessenger{}
}

// Send logs the message and reports success.
func (m *LogMessenger) Send(_ context.Context, phone, message string) error {
	log.WithFields(log.Fields{"phone": phone, "message": message}).Info("messenger gateway not configured, message logged only")
	return nil
}

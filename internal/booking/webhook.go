package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxReasonBytes = 1024

// Webhook is a Port that POSTs each booking as JSON to a remote endpoint.
//
// 2xx responses accept the booking. 4xx responses reject it, using the
// response body as the reason. Anything else is a transport failure.
type Webhook struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{},
	}
}

// Submit implements Port.
func (w *Webhook) Submit(ctx context.Context, b Booking) error {
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}

	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", b.ID)

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, maxReasonBytes))
		text := strings.TrimSpace(string(reason))
		if text == "" {
			text = resp.Status
		}
		return Reject(text)
	default:
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
}

// Package alert delivers threshold breaches to an HTTP webhook.
package alert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind names the metric that crossed its threshold.
type Kind string

const (
	KindCPU Kind = "cpu"
	KindMem Kind = "mem"
)

// Alert is one threshold breach by one process.
type Alert struct {
	Kind      Kind      `json:"kind"`
	Pid       int       `json:"pid"`
	User      string    `json:"user"`
	Command   string    `json:"command"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Time      time.Time `json:"time"`
}

// Message is the human-readable form.
func (a Alert) Message() string {
	label := "CPU"
	if a.Kind == KindMem {
		label = "memory"
	}
	return fmt.Sprintf("High %s: PID %d (%s) at %.1f%% (threshold %.0f%%)",
		label, a.Pid, a.Command, a.Value, a.Threshold)
}

// payload keeps a top-level "content" field so Discord and Slack style
// webhooks display the message as-is.
type payload struct {
	Content string `json:"content"`
	Alert   Alert  `json:"alert"`
}

// Webhook posts alerts as JSON.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook uses client, or a client with a 10s timeout if nil.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{url: url, client: client}
}

// Send posts a and fails on any non-2xx response.
func (w *Webhook) Send(ctx context.Context, a Alert) error {
	body, err := json.Marshal(payload{Content: a.Message(), Alert: a})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

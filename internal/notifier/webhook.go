package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/common"
	"pagewatch/internal/models"
)

const webhookTimeout = 20 * time.Second

// webhookPayload is the JSON body posted to the webhook. The "content"
// field matches what Discord-style webhooks expect.
type webhookPayload struct {
	Content string `json:"content"`
}

// WebhookNotifier posts change notifications to a webhook URL.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(webhookURL string, logger zerolog.Logger) (*WebhookNotifier, error) {
	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return nil, common.WrapError(err, "invalid webhook URL")
	}

	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: webhookTimeout},
		logger:     logger.With().Str("component", "WebhookNotifier").Logger(),
	}, nil
}

// Name identifies this channel in dispatch logs.
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Notify posts the formatted change message to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	message := FormatSubject(event) + "\n" + FormatBody(event)

	payloadJSON, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return common.WrapError(err, "marshaling webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payloadJSON))
	if err != nil {
		return common.WrapError(err, "creating webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return common.WrapError(err, "sending webhook notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	n.logger.Debug().
		Str("target", event.TargetName).
		Int("status_code", resp.StatusCode).
		Msg("Webhook notification delivered")
	return nil
}

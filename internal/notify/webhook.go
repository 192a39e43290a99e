package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier avisa um canal (formato Slack) sobre aprovações, sem expor o token.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	if webhookURL == "" {
		return nil
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *WebhookNotifier) NotifyApproval(ctx context.Context, evt ApprovalEvent) error {
	if s == nil || s.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"text": formatApproval(evt),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode)
	}
	return nil
}

func formatApproval(evt ApprovalEvent) string {
	return ":white_check_mark: *Intenção aprovada*\n" + evt.Nome + " <" + evt.Email + ">, convite válido até " +
		evt.ExpiraEm.Format("02/01/2006 15:04")
}

package notify

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

// ResendSender delivers mail through the Resend HTTP API.
type ResendSender struct {
	APIKey  string
	BaseURL string
	From    string
	Client  *http.Client
}

// NewResendSender returns a sender posting to baseURL/emails.
func NewResendSender(apiKey, baseURL, from string) *ResendSender {
	return &ResendSender{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		From:    from,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *ResendSender) Send(ctx context.Context, m Message) error {
	if m.To == "" || !strings.Contains(m.To, "@") {
		return fmt.Errorf("invalid recipient email: %q", m.To)
	}
	body, err := json.Marshal(resendPayload{From: s.From, To: []string{m.To}, Subject: m.Subject, HTML: m.HTML})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

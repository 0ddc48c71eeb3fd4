package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultGmailBase is the production Gmail API origin.
const DefaultGmailBase = "https://gmail.googleapis.com"

// GmailSender sends mail through the Gmail API using the recipient's own
// OAuth access token, so the message is sent from their account.
type GmailSender struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewGmailSender(baseURL string, log *slog.Logger) *GmailSender {
	if baseURL == "" {
		baseURL = DefaultGmailBase
	}
	return &GmailSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

func (g *GmailSender) Accepts(d Delivery) bool {
	return d.To != "" && d.AccessToken != ""
}

type gmailSendRequest struct {
	Raw string `json:"raw"`
}

type gmailSendResponse struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// Send posts the message to users/me/messages/send.
func (g *GmailSender) Send(ctx context.Context, d Delivery) (string, error) {
	if !g.Accepts(d) {
		return "", fmt.Errorf("gmail: access token and recipient are required")
	}
	mime, err := BuildMessage(d.To, d)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(gmailSendRequest{Raw: base64.URLEncoding.EncodeToString(mime)})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/gmail/v1/users/me/messages/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+d.AccessToken)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gmail api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gmail api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var out gmailSendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	g.log.Debug("gmail message sent", "to", d.To, "message_id", out.ID, "bytes", len(mime))
	return out.ID, nil
}

// Close releases resources.
func (g *GmailSender) Close() {
	g.httpClient.CloseIdleConnections()
}

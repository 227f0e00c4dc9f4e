package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPProvider delivers email through a JSON HTTP API.
type HTTPProvider struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewHTTPProvider(logger *slog.Logger, apiURL, apiKey string, httpClient *http.Client) *HTTPProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{
		logger:     logger.With("provider", "http_mailer"),
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

type sendRequestBody struct {
	To       string            `json:"to"`
	ToName   string            `json:"to_name,omitempty"`
	From     string            `json:"from"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type sendErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (p *HTTPProvider) Send(ctx context.Context, email OutboundEmail) error {
	reqBody := sendRequestBody{
		To:      email.To,
		ToName:  email.ToName,
		From:    email.From,
		Subject: email.Subject,
		Body:    email.Body,
	}
	if email.TrackingID != "" {
		reqBody.Metadata = map[string]string{"tracking_id": email.TrackingID}
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp sendErrorResponse
	if jsonErr := json.Unmarshal(respBytes, &errResp); jsonErr == nil && errResp.Message != "" {
		p.logger.WarnContext(ctx, "Mail provider rejected send",
			"status", resp.StatusCode, "message", errResp.Message, "to", email.To)
		return fmt.Errorf("mail provider rejected send (status %d): %s", resp.StatusCode, errResp.Message)
	}
	p.logger.WarnContext(ctx, "Mail provider returned non-2xx",
		"status", resp.StatusCode, "to", email.To)
	return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
}

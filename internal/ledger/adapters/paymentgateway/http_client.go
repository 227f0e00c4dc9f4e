package paymentgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient reads completed sessions from the gateway's JSON API. The
// sessions listing is paginated with an opaque cursor.
type HTTPClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPClient(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		logger:     logger.With("provider", "payment_gateway"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type listSessionsResponse struct {
	Sessions   []PaidSession `json:"sessions"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (c *HTTPClient) ListPaidSessions(ctx context.Context, from, to time.Time) ([]PaidSession, error) {
	var sessions []PaidSession
	cursor := ""
	for {
		page, next, err := c.listPage(ctx, from, to, cursor)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, page...)
		if next == "" {
			return sessions, nil
		}
		cursor = next
	}
}

func (c *HTTPClient) listPage(ctx context.Context, from, to time.Time, cursor string) ([]PaidSession, string, error) {
	query := url.Values{}
	query.Set("status", "complete")
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions?"+query.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build sessions request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Payment gateway returned non-200", "status", resp.StatusCode)
		return nil, "", fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var body listSessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("failed to decode sessions response: %w", err)
	}
	return body.Sessions, body.NextCursor, nil
}

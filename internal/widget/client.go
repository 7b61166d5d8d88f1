package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/models"
)

// Client calls the assistant endpoint over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assistant request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/assistant", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed reading assistant response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Code != "" {
			return nil, fmt.Errorf("assistant returned status=%d code=%s", resp.StatusCode, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("assistant returned status=%d", resp.StatusCode)
	}

	var out struct {
		Reply *string `json:"reply"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse assistant response: %w", err)
	}
	if out.Reply == nil || strings.TrimSpace(*out.Reply) == "" {
		return nil, errors.New("assistant response has no reply")
	}
	return &models.AssistantReply{Reply: *out.Reply}, nil
}

// Package engagement talks to the GenAI service that turns risk
// assessments into retention advice. The service is stateless: every
// request carries the full role-tagged message list, and all conversation
// state lives in the caller's Consultation value.
package engagement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"attrition-advisor/internal/common/config"
	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/models"
)

const generatePath = "/api/ai/generate"

// Generator is the transport boundary the engine depends on. Tests and the
// CLI's offline mode substitute their own implementation.
type Generator interface {
	Generate(ctx context.Context, messages []models.Turn) (string, error)
}

// Client is the HTTP Generator against the configured GenAI endpoint.
type Client struct {
	config *config.GenAIConfig
	client *http.Client
}

// NewClient creates a client for the configured endpoint. The HTTP client
// carries no timeout of its own; deadlines come from the request context.
func NewClient(cfg *config.GenAIConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{},
	}
}

type generateRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []models.Turn `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate posts the message list and returns the completion text. Any
// transport failure, non-200 status, undecodable body, or empty completion
// comes back as ENGAGEMENT_UNAVAILABLE; retry policy belongs to the caller.
func (c *Client) Generate(ctx context.Context, messages []models.Turn) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout())
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", commonerrors.NewEngagementUnavailableError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+generatePath, bytes.NewBuffer(body))
	if err != nil {
		return "", commonerrors.NewEngagementUnavailableError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", commonerrors.NewEngagementUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", commonerrors.NewEngagementUnavailableError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", commonerrors.NewEngagementUnavailableError(fmt.Errorf("decode response: %w", err))
	}
	if strings.TrimSpace(decoded.Text) == "" {
		return "", commonerrors.NewEngagementUnavailableError(fmt.Errorf("empty completion"))
	}
	return decoded.Text, nil
}

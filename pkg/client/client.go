// Package client is the Go client for the convoy tracker API: the
// operation envelope over HTTP plus typed helpers for the common
// operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/picogrid/convoy-tracker/pkg/logger"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

// Client talks to one tracker instance.
type Client struct {
	baseURL    string
	apiKey     string
	dryRun     bool
	httpClient *http.Client
}

// Config holds the configuration for the tracker client. DryRun short-
// circuits every call before the network: operations log and return
// zero-valued results.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	DryRun  bool
}

// NewClient creates a new tracker client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: u.String(),
		apiKey:  cfg.APIKey,
		dryRun:  cfg.DryRun,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Execute runs one operation through the envelope endpoint and decodes
// the root field named by op into out. A nil out discards the result.
func (c *Client) Execute(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	if c.dryRun {
		logger.Debugf("[dry-run] %s", op)
		return nil
	}

	reqBody := map[string]interface{}{
		"query": query,
	}
	if len(variables) > 0 {
		reqBody["variables"] = variables
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			logger.Errorf("failed to close response body: %v", cerr)
		}
	}(resp.Body)

	var envelope models.OperationResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("HTTP %d: failed to decode response: %w", resp.StatusCode, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("operation %s failed: %s", op, envelope.Errors[0].Message)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d on operation %s", resp.StatusCode, op)
	}

	if out == nil {
		return nil
	}
	raw, ok := envelope.Data[op]
	if !ok {
		return fmt.Errorf("response missing field %q", op)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to re-encode result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode result field %q: %w", op, err)
	}
	return nil
}

// Health checks liveness of the tracker.
func (c *Client) Health(ctx context.Context) error {
	if c.dryRun {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			logger.Errorf("failed to close response body: %v", cerr)
		}
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

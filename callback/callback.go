// Package callback defines the job completion payload a connector reports
// to its scheduler, and the client that delivers it.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TypeCounts tallies one data type's outcomes for a job run.
type TypeCounts struct {
	Sent     int `json:"sent"`
	Modified int `json:"modified"`
	Failed   int `json:"failed"`
}

// Counters aggregates per-data-type counts for a job run.
type Counters struct {
	Assets   TypeCounts `json:"assets"`
	Findings TypeCounts `json:"findings"`
}

// Response is the payload delivered to the job scheduler when an
// invocation completes.
type Response struct {
	ExitCode int      `json:"exit_code"`
	Counts   Counters `json:"counts"`
}

// Client posts job completion callbacks.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a callback client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Post delivers the response payload to url, identifying the invocation
// with the X-Job-ID header.
func (c *Client) Post(ctx context.Context, url, jobID string, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding callback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Job-ID", jobID)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting callback: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		return fmt.Errorf("callback rejected with status %d", httpResp.StatusCode)
	}
	return nil
}

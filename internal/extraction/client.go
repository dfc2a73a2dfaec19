package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client implements Extractor against the extraction service's HTTP API.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a new extraction Client. model is optional and forwarded
// verbatim; the service picks its default when empty.
func NewClient(baseURL, model string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("extraction service URL is required")
	}
	if timeout == 0 {
		// Vision extraction can be slow for large invoices
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// extractRequest is the request body for the service's extract endpoint.
type extractRequest struct {
	Model       string `json:"model,omitempty"`
	Image       string `json:"image"` // base64 PNG
	ContentType string `json:"content_type"`
}

// extractResponse wraps the service's answer. Output is free text that
// should contain a JSON object but may carry markdown fences or prose
// around it.
type extractResponse struct {
	Output string `json:"output"`
}

// Extract submits a PNG image and parses the structured result.
func (c *Client) Extract(ctx context.Context, imageData []byte) (*Result, error) {
	reqBody := extractRequest{
		Model:       c.model,
		Image:       base64.StdEncoding.EncodeToString(imageData),
		ContentType: "image/png",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/extract", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("extraction service error (status %d): %s", resp.StatusCode, string(body))
	}

	var extractResp extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extractResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result, err := parseResult(extractResp.Output)
	if err != nil {
		return nil, fmt.Errorf("parsing extraction result: %w", err)
	}

	return result, nil
}

// Close closes the client (no-op for HTTP).
func (c *Client) Close() error {
	return nil
}

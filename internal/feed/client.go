package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tbraack/garagelog/internal/vehicle"
)

// Client consumes the vehicle history API. It never retries: failures are
// returned to the caller, which decides how to surface them.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewClient creates an API client. username/password are optional basic
// auth credentials.
func NewClient(baseURL, username, password string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ListEvents fetches the raw event list for a vehicle.
func (c *Client) ListEvents(ctx context.Context, vehicleID string) ([]vehicle.RawEvent, error) {
	var events []vehicle.RawEvent
	url := fmt.Sprintf("%s/api/vehicles/%s/events", c.baseURL, vehicleID)
	if err := c.do(ctx, http.MethodGet, url, nil, &events); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// ListImages fetches the image list, including processing statuses.
func (c *Client) ListImages(ctx context.Context, vehicleID string) ([]vehicle.LinkedImage, error) {
	var images []vehicle.LinkedImage
	url := fmt.Sprintf("%s/api/vehicles/%s/images", c.baseURL, vehicleID)
	if err := c.do(ctx, http.MethodGet, url, nil, &images); err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return images, nil
}

// ProcessImage asks the server to (re)start extraction for one image. The
// response is only an acknowledgement; progress arrives via ListImages.
func (c *Client) ProcessImage(ctx context.Context, vehicleID, imageID string) error {
	url := fmt.Sprintf("%s/api/vehicles/%s/photos/process", c.baseURL, vehicleID)
	body := map[string]string{"image_id": imageID}
	if err := c.do(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("requesting processing: %w", err)
	}
	return nil
}

// SetPrimary sets or clears the primary flag on an image.
func (c *Client) SetPrimary(ctx context.Context, vehicleID, imageID, action string) error {
	url := fmt.Sprintf("%s/api/vehicles/%s/images", c.baseURL, vehicleID)
	body := map[string]string{"image_id": imageID, "action": action}
	if err := c.do(ctx, http.MethodPatch, url, body, nil); err != nil {
		return fmt.Errorf("updating image: %w", err)
	}
	return nil
}

// DeleteEvent removes a timeline event.
func (c *Client) DeleteEvent(ctx context.Context, vehicleID, eventID string) error {
	url := fmt.Sprintf("%s/api/vehicles/%s/timeline/%s", c.baseURL, vehicleID, eventID)
	if err := c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// pattern: Imperative Shell

package instance

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"skillview/internal/catalog"
	"skillview/internal/usage"
)

// Client is a thin HTTP client for a running skillview instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 10*time.Second)
}

// NewClientWithTimeout creates a Client with a custom timeout. Rescans of
// large trees can take longer than the default.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Skills fetches the catalog as seen by the running instance.
func (c *Client) Skills() ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := c.do(http.MethodGet, "/api/skills", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Refresh asks the instance to rescan and returns the new catalog.
func (c *Client) Refresh() ([]catalog.Entry, error) {
	var resp struct {
		Entries []catalog.Entry `json:"entries"`
	}
	if err := c.do(http.MethodPost, "/api/skills/refresh", &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Use increments the usage counter of id and returns the new count.
func (c *Client) Use(id string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(http.MethodPost, "/api/skills/"+url.PathEscape(id)+"/use", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Usage fetches all usage records.
func (c *Client) Usage() (usage.Stats, error) {
	stats := usage.Stats{}
	if err := c.do(http.MethodGet, "/api/usage", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// do performs a request without a body and decodes a 2xx JSON response
// into out.
func (c *Client) do(method, path string, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to skillview: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("skillview returned status %d: %s", resp.StatusCode, extractErrorMessage(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// extractErrorMessage attempts to extract the error message from a JSON response body.
// If the body is not valid JSON or doesn't have an "error" field, returns the raw body string.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(body)
}

// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the activities API over HTTP. Used by the e2e suite and tooling.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoJSON sends a bodiless request to path and decodes the JSON response into out.
// out may be nil. The status code is returned even when it is not 2xx.
func (c *Client) DoJSON(ctx context.Context, method, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// ListActivities calls GET /activities.
func (c *Client) ListActivities(ctx context.Context, out interface{}) (int, error) {
	return c.DoJSON(ctx, http.MethodGet, "/activities", out)
}

// Signup calls POST /activities/{name}/signup?email=.
func (c *Client) Signup(ctx context.Context, activity, email string, out interface{}) (int, error) {
	return c.DoJSON(ctx, http.MethodPost, participantPath(activity, "signup", email), out)
}

// Unregister calls DELETE /activities/{name}/unregister?email=.
func (c *Client) Unregister(ctx context.Context, activity, email string, out interface{}) (int, error) {
	return c.DoJSON(ctx, http.MethodDelete, participantPath(activity, "unregister", email), out)
}

func participantPath(activity, action, email string) string {
	return fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(activity), action, url.QueryEscape(email))
}

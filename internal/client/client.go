// Package client is the single egress point for all trading platform API
// calls. Every request leaves through the same dispatch path, which attaches
// the bearer credential to all paths except the two used to obtain one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/papertrade/portal/internal/credstore"
)

// exemptPaths lists the endpoints that must never carry a credential: they
// exist precisely to obtain one.
var exemptPaths = map[string]bool{
	"/auth/token":    true,
	"/auth/register": true,
}

// APIError is a non-2xx response from the trading API. Detail carries the
// server's human-readable message when it supplied one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// ErrorMessage returns the server-provided detail for an API error, or the
// given fallback for anything else (network failures, detail-less responses).
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// Client communicates with the trading platform REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credstore.Store
}

// New creates a client targeting the given API base URL. Credentials are read
// from creds at dispatch time, so a token stored after construction is picked
// up by the next request.
func New(baseURL string, creds credstore.Store) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		creds:      creds,
	}
}

// SetTimeout overrides the default request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// newRequest builds a request and attaches the bearer credential when one is
// stored and the path is not exempt.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	if token, ok := c.creds.Load(); ok && !exemptPaths[path] {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// send dispatches a request and returns the response body and status code.
// Network errors pass through wrapped; status codes are not interpreted here.
func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach trading API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// apiError builds an APIError from a non-2xx response body, extracting the
// server's "detail" field when present.
func apiError(status int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{Status: status, Detail: payload.Detail}
}

// getJSON issues a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	body, status, err := c.send(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// postJSON issues a POST with a JSON body and returns the raw response body
// for statuses in ok; other statuses become an APIError.
func (c *Client) postJSON(ctx context.Context, path string, in any, ok ...int) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.send(req)
	if err != nil {
		return nil, err
	}
	for _, s := range ok {
		if status == s {
			return body, nil
		}
	}
	return nil, apiError(status, body)
}

// deleteJSON issues a DELETE and returns the raw response body on 200/204.
func (c *Client) deleteJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return nil, err
	}

	body, status, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return nil, apiError(status, body)
	}
	return body, nil
}

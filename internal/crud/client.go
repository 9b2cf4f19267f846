// ABOUTME: JSON client for the {success, data, error} REST contract.
// ABOUTME: Pages talk to the API only through this client.

package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a failed request as reported by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// Client performs typed requests against one entity's endpoints.
type Client[T any] struct {
	http    *http.Client
	baseURL string
	header  http.Header
}

// NewClient creates a client. baseURL is prefixed to every endpoint path.
func NewClient[T any](hc *http.Client, baseURL string) *Client[T] {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client[T]{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// WithHeader returns a copy of the client that sends h on every request.
func (c *Client[T]) WithHeader(h http.Header) *Client[T] {
	cp := *c
	cp.header = h.Clone()
	return &cp
}

// List fetches every item at endpoint.
func (c *Client[T]) List(ctx context.Context, endpoint string) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Records fetches endpoint as loosely typed objects.
func (c *Client[T]) Records(ctx context.Context, endpoint string) ([]map[string]any, error) {
	var recs []map[string]any
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Create posts payload and returns the created item.
func (c *Client[T]) Create(ctx context.Context, endpoint string, payload any) (T, error) {
	var item T
	err := c.do(ctx, http.MethodPost, endpoint, payload, &item)
	return item, err
}

// Update puts payload and returns the updated item.
func (c *Client[T]) Update(ctx context.Context, endpoint string, payload any) (T, error) {
	var item T
	err := c.do(ctx, http.MethodPut, endpoint, payload, &item)
	return item, err
}

// Delete removes the item at endpoint.
func (c *Client[T]) Delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client[T]) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !env.Success {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
		}
	}
	return nil
}

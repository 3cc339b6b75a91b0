package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + "/" + path
}

// doRequest performs an HTTP request, attaching the bearer token when the
// token source has one.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON encodes payload as the JSON request body and performs the request.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	if payload == nil {
		return c.doRequest(ctx, method, path, nil, nil)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	return c.doRequest(ctx, method, path, bytes.NewReader(data), map[string]string{
		"Content-Type": "application/json",
	})
}

// decodeJSON decodes a JSON response into a Response[T].
// Returns an *APIError if the status is not 2xx. An empty 2xx body leaves
// Data at its zero value.
func decodeJSON[T any](resp *http.Response) (*Response[T], error) {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := parseErrorResponse(resp, bodyBytes); err != nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: resp.StatusCode, Header: resp.Header}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(bodyBytes, &out.Data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out, nil
}

// discardBody drains the response and returns its headers, or an *APIError
// for a non-2xx status.
func discardBody(resp *http.Response) (*Response[struct{}], error) {
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := parseErrorResponse(resp, bodyBytes); err != nil {
		return nil, err
	}

	return &Response[struct{}]{StatusCode: resp.StatusCode, Header: resp.Header}, nil
}

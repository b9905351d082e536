package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request describes a single API call.
type Request struct {
	Method string
	// Path is relative to the client's base URL and may already contain a query string.
	Path  string
	Query Params
	// Body is sent as-is when it is a string, []byte, json.RawMessage or io.Reader,
	// and JSON-encoded otherwise. Nil sends no body.
	Body any
	// Header entries replace the defaults (Content-Type) key by key.
	Header http.Header
}

// Do sends req and decodes a 2xx JSON response into out (which may be nil).
//
// A non-2xx response returns a RequestFailed *ClientError and a transport failure a
// NetworkUnreachable one. Any other failure (unencodable body, malformed
// response JSON, credential lookup, context cancellation) is returned wrapped.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, hasBody, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading auth token: %w", err)
	}

	target := c.baseURL + ensureLeadingSlash(appendQuery(req.Path, req.Query))

	send := func(ctx context.Context, attempt int) error {
		return c.send(ctx, method, target, req.Header, body, hasBody, token, out, attempt)
	}

	if method == http.MethodGet && c.retry.enabled() {
		return c.retry.do(ctx, c.logger, send)
	}
	return send(ctx, 1)
}

// Get sends a GET request with params appended to the endpoint's query string.
func (c *Client) Get(ctx context.Context, endpoint string, params Params, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: endpoint, Query: params}, out)
}

// Post sends data as the request body.
func (c *Client) Post(ctx context.Context, endpoint string, data any, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: endpoint, Body: data}, out)
}

// Put sends data as the request body.
func (c *Client) Put(ctx context.Context, endpoint string, data any, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: endpoint, Body: data}, out)
}

// Patch sends data as the request body.
func (c *Client) Patch(ctx context.Context, endpoint string, data any, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: endpoint, Body: data}, out)
}

// Delete sends a DELETE request without a body.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: endpoint}, out)
}

func (c *Client) send(ctx context.Context, method, target string, header http.Header, body []byte, hasBody bool, token string, out any, attempt int) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if hasBody {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, target, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	if httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	}

	start := time.Now()
	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		// caller cancellation is not a network failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, httpReq.URL.Path, ctxErr)
		}
		c.logAttempt(ctx, httpReq, 0, start, attempt)
		return NewClientConnectionError(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, httpReq.URL.Path, err)
	}

	c.logAttempt(ctx, httpReq, res.StatusCode, start, attempt)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return NewClientApiError(res.StatusCode, data)
	}

	return decodeBody(data, out)
}

func (c *Client) logAttempt(ctx context.Context, req *http.Request, status int, start time.Time, attempt int) {
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", status),
		slog.String("request_id", req.Header.Get(RequestIDHeader)),
		slog.Int("attempt", attempt),
		slog.Duration("duration", time.Since(start)),
	)
}

func encodeBody(body any) ([]byte, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(b), true, nil
	case []byte:
		return b, true, nil
	case json.RawMessage:
		return b, true, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, false, fmt.Errorf("reading request body: %w", err)
		}
		return data, true, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("encoding request body: %w", err)
	}
	return data, true, nil
}

// decodeBody parses a 2xx response. An empty body leaves out untouched.
func decodeBody(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if out == nil {
		if !json.Valid(data) {
			return fmt.Errorf("decoding response body: invalid JSON")
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func ensureLeadingSlash(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

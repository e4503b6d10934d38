package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/myloggi/internal/constants"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// Response is a successful (2xx) API response
type Response struct {
	Status int
	Data   json.RawMessage
}

// Decode unmarshals the response body into v
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Client talks JSON to the remote account API
type Client struct {
	baseURL    string
	host       string
	httpClient *http.Client
	breaker    *CircuitBreaker
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCircuitBreaker replaces the default circuit breaker
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithLogger sets the logger used for failed calls
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates an API client rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.DefaultAPITimeout,
		},
		breaker: NewCircuitBreaker(constants.CircuitFailureThreshold, constants.CircuitOpenTimeout),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if u, err := url.Parse(c.baseURL); err == nil {
		c.host = u.Host
	}
	return c
}

// Get issues a GET; token is sent as a bearer token when non-empty
func (c *Client) Get(ctx context.Context, path, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, token)
}

// Post issues a JSON POST; a nil body sends an empty object
func (c *Client) Post(ctx context.Context, path string, body any, token string) (*Response, error) {
	if body == nil {
		body = struct{}{}
	}
	return c.do(ctx, http.MethodPost, path, body, token)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path, token string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, token)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string) (*Response, error) {
	req, err := c.newRequest(ctx, method, path, body, token)
	if err != nil {
		c.logger.ErrorContext(ctx, "api: request error",
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, &Error{Body: ErrorBody{Error: err.Error()}, Cause: err}
	}

	if !c.breaker.Allow(c.host) {
		openErr := &CircuitOpenError{Host: c.host, Stats: c.breaker.Stats(c.host)}
		c.logger.WarnContext(ctx, "api: circuit open, failing fast",
			"method", method,
			"path", path,
			"host", c.host,
		)
		return nil, &Error{Body: ErrorBody{Error: constants.MsgNoResponse}, Cause: openErr}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.DebugContext(ctx, "api: request canceled by client",
				"method", method,
				"path", path,
			)
		} else {
			c.breaker.RecordFailure(c.host)
			c.logger.ErrorContext(ctx, "api: no response received",
				"method", method,
				"path", path,
				"error", err,
			)
		}
		return nil, &Error{Body: ErrorBody{Error: constants.MsgNoResponse}, Cause: err}
	}
	defer resp.Body.Close()

	c.breaker.RecordSuccess(c.host)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.ErrorContext(ctx, "api: failed to read response body",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", err,
		)
		return nil, &Error{Status: resp.StatusCode, Body: ErrorBody{Error: err.Error()}, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Body: decodeErrorBody(raw)}
		c.logger.ErrorContext(ctx, "api: response error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", apiErr.Body.Error,
			"field_errors", len(apiErr.Body.Errors),
		)
		return nil, apiErr
	}

	return &Response{Status: resp.StatusCode, Data: raw}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

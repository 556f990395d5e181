package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnauthorized indicates the backend rejected the bearer credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the backend refused the operation for this role.
	ErrForbidden = errors.New("forbidden")
	// ErrUnreachable indicates no response was received from the backend.
	ErrUnreachable = errors.New("cannot reach server")
)

// APIError carries the HTTP status and the human-readable message resolved
// from the response body, falling back to the generic status text.
type APIError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Unwrap maps authorization failures onto their sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// TokenSource supplies the bearer token for a client's scope. Returning ""
// sends the request anonymously.
type TokenSource func() string

// Client is one scoped HTTP client. Every outgoing request attaches
// `Authorization: Bearer <token>` when the scope has a token; a 401 response
// runs the configured cleanup hook exactly once before the error propagates.
// Requests are never retried: a failure is surfaced to the caller exactly once.
type Client struct {
	name           string
	endpoint       string
	http           *http.Client
	token          TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets the bearer token source for the client's scope.
func WithToken(source TokenSource) Option {
	return func(c *Client) { c.token = source }
}

// WithUnauthorizedHook installs the cleanup run when the backend answers 401.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// NewClient builds a scoped client rooted at endpoint.
func NewClient(name, endpoint string, httpClient *http.Client, logger *zap.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBearer returns a copy of the client bound to a fixed token. Used for the
// post-login profile fetch, where the token exists but has not been persisted
// yet; the copy carries no 401 cleanup hook because there is no session to clear.
func (c *Client) WithBearer(token string) *Client {
	clone := *c
	clone.token = func() string { return token }
	clone.onUnauthorized = nil
	return &clone
}

// Do issues one request and returns the raw response body. Callers that need
// the common `{data:…}` envelope unwrapped should use the JSON helpers.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.execute(req)
}

// GetJSON issues a GET and decodes the enveloped-or-bare payload into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return UnwrapData(body, out)
}

// PostJSON issues a POST and decodes the enveloped-or-bare payload into out.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	body, err := c.Do(ctx, http.MethodPost, path, query, in)
	if err != nil {
		return err
	}
	return UnwrapData(body, out)
}

// PutJSON issues a PUT and decodes the enveloped-or-bare payload into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.Do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	return UnwrapData(body, out)
}

// PatchJSON issues a PATCH and decodes the enveloped-or-bare payload into out.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.Do(ctx, http.MethodPatch, path, nil, in)
	if err != nil {
		return err
	}
	return UnwrapData(body, out)
}

// Delete issues a DELETE, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, in any) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, in)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.endpoint + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("client", c.name),
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(body, resp.StatusCode),
		}

		c.logger.Warn("request rejected",
			zap.String("client", c.name),
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))

		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}

		return nil, apiErr
	}

	return body, nil
}

// errorMessage resolves the user-facing message: server-provided message first,
// then the generic HTTP status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}

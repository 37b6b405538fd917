package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"
	DefaultTimeout = 15 * time.Second

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Body is a request payload together with its content type.
type Body struct {
	Reader      io.Reader
	ContentType string
}

// JSONBody encodes v as an application/json body.
func JSONBody(v any) (*Body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return &Body{Reader: bytes.NewReader(b), ContentType: contentTypeJSON}, nil
}

// FormBody encodes values as an application/x-www-form-urlencoded body.
func FormBody(values url.Values) *Body {
	return &Body{Reader: strings.NewReader(values.Encode()), ContentType: contentTypeForm}
}

type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithTimeout sets the per-request timeout of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the API rooted at baseURL. The token is read from
// tokens on every request.
func New(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, body *Body) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := contentTypeJSON
	if body != nil {
		reader = body.Reader
		if body.ContentType != "" {
			contentType = body.ContentType
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		token, err := c.tokens.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With("request_id", requestID, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		log.Info(ctx, "request rejected", "status", resp.StatusCode, "detail", apiErr.Detail)
		return nil, apiErr
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s %s returned non-JSON body", ErrBadResponse, method, path)
	}
	return json.RawMessage(raw), nil
}

// call performs the request and decodes a non-null result into out.
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body *Body, out any) error {
	raw, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || raw == nil || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

// callJSON is call with v encoded as the JSON body.
func (c *HTTPClient) callJSON(ctx context.Context, method, path string, v any, out any) error {
	body, err := JSONBody(v)
	if err != nil {
		return err
	}
	return c.call(ctx, method, path, nil, body, out)
}

func complaintPath(id int64, suffix string) string {
	return fmt.Sprintf("/complaints/%d%s", id, suffix)
}

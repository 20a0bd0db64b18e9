// Package graphql talks to the single GraphQL endpoint configured for the
// process and holds the lexical helpers used on query text.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"golang.org/x/time/rate"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// Request is the JSON body posted to the endpoint.
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Response is a decoded GraphQL response. Raw keeps the body as received.
type Response struct {
	Data       json.RawMessage        `json:"data,omitempty"`
	Errors     []Error                `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
	Raw        []byte                 `json:"-"`
}

// Pretty returns the raw response indented for display.
func (r *Response) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return buf.String()
}

// PrettyData returns the data member indented for display. A response
// without data renders as null.
func (r *Response) PrettyData() string {
	if len(r.Data) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Data, "", "  "); err != nil {
		return string(r.Data)
	}
	return buf.String()
}

// Error represents an error in a GraphQL response.
type Error struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Location represents the location of a GraphQL error.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ResponseError is returned when the endpoint answers with GraphQL errors.
type ResponseError struct {
	StatusCode int
	Errors     []Error
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "GraphQL errors: " + strings.Join(msgs, "; ")
}

// HTTPError is returned for non-GraphQL failures with a status >= 400.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Config holds configuration for the GraphQL client.
type Config struct {
	Endpoint  string
	Headers   map[string]string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
}

// Client executes queries against one GraphQL endpoint.
type Client struct {
	endpoint   string
	headers    http.Header
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config, logger *common.Logger) *Client {
	headers := make(http.Header)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		endpoint:   cfg.Endpoint,
		headers:    headers,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute posts the query with its variables. Transport failures, HTTP
// errors and GraphQL errors are all returned as errors; nothing is retried.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	payload, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	for key, vals := range c.headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("endpoint", c.endpoint).Int("variables", len(variables)).Msg("graphql request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("endpoint", c.endpoint).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("graphql request failed")
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("graphql response")

	var out Response
	decodeErr := json.Unmarshal(body, &out)
	out.Raw = body

	if decodeErr == nil && len(out.Errors) > 0 {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Errors: out.Errors}
	}
	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", decodeErr)
	}
	return &out, nil
}

// snippet trims a response body for inclusion in error messages.
func snippet(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

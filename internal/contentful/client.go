// Package contentful executes GraphQL queries against the Contentful
// content delivery API and reports every outcome as a result.Result.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	"go.uber.org/zap"
	"resty.dev/v3"

	"sitedata/internal/fetcher"
	"sitedata/internal/ratelimit"
	"sitedata/internal/result"
)

// Client sends queries for one Contentful space.
type Client struct {
	http    *resty.Client
	spaceID string
	logger  *zap.Logger
	limiter *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for failed queries.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLimiter makes every query wait on the contentful rate limit first.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client for the space at baseURL authenticated by accessToken.
func NewClient(baseURL, spaceID, accessToken string, opts ...Option) *Client {
	c := &Client{
		spaceID: spaceID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = fetcher.NewHTTPClient(baseURL, c.logger).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(accessToken)

	return c
}

// Logger returns the logger the client reports failures to.
func (c *Client) Logger() *zap.Logger { return c.logger }

// Validator is implemented by query projections that need more than a
// successful decode to count as well-formed.
type Validator interface {
	Validate() error
}

// Location points at the part of the query document an error refers to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of the top-level GraphQL errors list.
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Query executes queryDocument with optional variables and projects the
// response's data field onto T. It sends exactly one request and never
// panics: transport failures, protocol-level errors and shape mismatches
// all come back as Err.
func Query[T any](ctx context.Context, c *Client, queryDocument string, variables map[string]any) result.Result[T, error] {
	op := operationName(queryDocument)

	fail := func(err error) result.Result[T, error] {
		c.logger.Error("contentful query failed",
			zap.String("operation", op),
			zap.String("space", c.spaceID),
			zap.Error(err))
		return result.Err[T](err)
	}

	if err := c.limiter.Wait(ctx, ratelimit.APIContentful); err != nil {
		return fail(fetcher.NewNetworkError(err))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Query: queryDocument, Variables: variables}).
		Post("/" + url.PathEscape(c.spaceID))
	if err != nil {
		return fail(fetcher.NewNetworkError(err))
	}

	var env envelope
	if err := json.Unmarshal([]byte(resp.String()), &env); err != nil {
		if !resp.IsSuccess() {
			return fail(fetcher.ClassifyHTTPError(resp.StatusCode()))
		}
		return fail(fetcher.NewParseError("response is not a GraphQL envelope", err))
	}

	// A non-empty errors list is a failure whatever the HTTP status says.
	if len(env.Errors) > 0 {
		messages := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			messages[i] = e.Message
		}
		cmsErr := fetcher.NewCMSQueryError(messages)
		cmsErr.StatusCode = resp.StatusCode()
		return fail(cmsErr)
	}

	if !resp.IsSuccess() {
		return fail(fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return fail(fetcher.NewParseError("response has no data", nil))
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return fail(fetcher.NewParseError(fmt.Sprintf("data does not match %T", out), err))
	}

	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fail(fetcher.NewParseError(err.Error(), err))
		}
	}

	return result.Ok[T, error](out)
}

var operationPattern = regexp.MustCompile(`^\s*(?:query|mutation)\s+(\w+)`)

// operationName returns the name of the first operation in doc, or
// "anonymous" when the document has none.
func operationName(doc string) string {
	if m := operationPattern.FindStringSubmatch(doc); m != nil {
		return m[1]
	}
	return "anonymous"
}

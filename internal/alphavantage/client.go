// Package alphavantage loads stock quotes and company overviews from the
// AlphaVantage REST API, keyed by ticker symbol.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"resty.dev/v3"

	"sitedata/internal/fetcher"
	"sitedata/internal/ratelimit"
)

// Client talks to one AlphaVantage endpoint with one API key.
type Client struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for failed requests.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLimiter makes every request wait on the alphavantage rate limit first.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = fetcher.NewHTTPClient(baseURL, c.logger)
	return c
}

// upstreamNotice captures the bodies AlphaVantage sends instead of data:
// throttling notes, premium-only notices and invalid-call messages.
type upstreamNotice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (n upstreamNotice) message() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	default:
		return n.Information
	}
}

// get performs one call of the named function for symbol and decodes the
// body into out. Every failure is logged here, once.
func (c *Client) get(ctx context.Context, function, symbol string, out any) error {
	err := c.do(ctx, function, symbol, out)
	if err != nil {
		c.logFailure(function, symbol, err)
	}
	return err
}

func (c *Client) logFailure(function, symbol string, err error) {
	c.logger.Error("alphavantage request failed",
		zap.String("function", function),
		zap.String("symbol", symbol),
		zap.Error(err))
}

func (c *Client) do(ctx context.Context, function, symbol string, out any) error {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return fetcher.NewNetworkError(err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.apiKey,
			"function": function,
			"symbol":   symbol,
		}).
		Get("")
	if err != nil {
		return fetcher.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		return fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	body := []byte(resp.String())

	var notice upstreamNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fetcher.NewParseError(fmt.Sprintf("failed to decode %s response for %s", function, symbol), err)
	}
	if msg := notice.message(); msg != "" {
		return fetcher.NewMarketDataError(msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fetcher.NewParseError(fmt.Sprintf("failed to decode %s response for %s", function, symbol), err)
	}
	return nil
}

// parseNumber parses a numeric field. AlphaVantage reports absent values
// as "None", "-" or an empty string; those parse as zero when optional.
func parseNumber(field, raw string, optional bool) (float64, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	switch raw {
	case "", "None", "-":
		if optional {
			return 0, nil
		}
		return 0, fetcher.NewParseError(fmt.Sprintf("%s missing from response", field), nil)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fetcher.NewParseError(fmt.Sprintf("failed to parse %s %q", field, raw), err)
	}
	return v, nil
}

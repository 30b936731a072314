package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport failure (connection refused, DNS, non-2xx status)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeCMSQuery indicates the CMS answered with a non-empty top-level errors list
	ErrorTypeCMSQuery ErrorType = "cms_query"
	// ErrorTypeParse indicates the response body did not match the expected shape
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeMarketData indicates an unknown symbol or an upstream market-data failure
	ErrorTypeMarketData ErrorType = "market_data"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeNetwork,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewCMSQueryError creates an error for a protocol-level CMS failure.
// The messages are joined into the error text in their original order.
func NewCMSQueryError(messages []string) *FetchError {
	msg := "query returned errors"
	for i, m := range messages {
		if i == 0 {
			msg += ": " + m
			continue
		}
		msg += "; " + m
	}
	return &FetchError{
		Type:    ErrorTypeCMSQuery,
		Message: msg,
	}
}

// NewParseError creates a parse error
func NewParseError(message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeParse,
		Message: message,
		Cause:   cause,
	}
}

// NewMarketDataError creates a market data error
func NewMarketDataError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeMarketData,
		Message: message,
	}
}

// ClassifyHTTPError classifies a non-success HTTP status code into a network FetchError
func ClassifyHTTPError(statusCode int) *FetchError {
	e := &FetchError{
		Type:       ErrorTypeNetwork,
		StatusCode: statusCode,
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Retryable = true
		e.Message = "rate limit exceeded"
	case statusCode == http.StatusRequestTimeout:
		e.Retryable = true
		e.Message = "request timed out"
	case statusCode >= 500:
		e.Retryable = true
		e.Message = "server returned an error"
	case statusCode >= 400:
		e.Message = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// IsType reports whether err carries a FetchError of the given type.
func IsType(err error, t ErrorType) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == t
}

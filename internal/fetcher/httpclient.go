package fetcher

import (
	"go.uber.org/zap"
	"resty.dev/v3"
)

// NewHTTPClient creates a new HTTP client for a JSON API.
// Requests are sent exactly once: the caller decides whether to re-invoke.
func NewHTTPClient(baseURL string, logger *zap.Logger) *resty.Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	client.OnSuccess(responseHook(logger))

	return client
}

// responseHook logs completed round trips for observability
func responseHook(logger *zap.Logger) resty.SuccessHook {
	return func(_ *resty.Client, r *resty.Response) {
		logger.Debug("request completed",
			zap.String("url", r.Request.URL),
			zap.String("method", r.Request.Method),
			zap.Int("status_code", r.StatusCode()),
			zap.Duration("duration", r.Duration()))
	}
}

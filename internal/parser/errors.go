package parser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"declarant/internal/domain"
)

// RateLimitError indicates an oracle provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// StatusError classifies a non-200 provider response. The body is included
// for the logs only; user-facing messages never show it.
func StatusError(provider string, resp *http.Response, body []byte) error {
	baseErr := fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, truncateForLog(string(body), 500))
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return domain.NewOracleUnavailable("rate limited", NewRateLimitError(provider, baseErr, retryAfter))
	}
	return domain.NewOracleUnavailable(fmt.Sprintf("status %d", resp.StatusCode), baseErr)
}

// TransportError wraps a failure to reach the provider at all.
func TransportError(provider string, err error) error {
	return domain.NewOracleUnavailable("request failed", fmt.Errorf("calling %s API: %w", provider, err))
}

// IsRateLimited reports whether err carries a RateLimitError.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

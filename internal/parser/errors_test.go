package parser_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/domain"
	"declarant/internal/parser"
)

func TestRateLimitError_ErrorString(t *testing.T) {
	underlying := fmt.Errorf("rate limited")
	rlErr := parser.NewRateLimitError("claude", underlying, 30)

	assert.Contains(t, rlErr.Error(), "claude")
	assert.Contains(t, rlErr.Error(), "rate limited")
	assert.Contains(t, rlErr.Error(), "30s")
}

func TestRateLimitError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	rlErr := parser.NewRateLimitError("gemini", underlying, 60)

	assert.Equal(t, underlying, errors.Unwrap(rlErr))
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	rlErr := parser.NewRateLimitError("openai", fmt.Errorf("err"), 0)

	assert.Equal(t, 60*time.Second, rlErr.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, parser.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("invalid"))
	assert.Equal(t, 120, parser.ParseRetryAfterHeader("120"))
}

func TestStatusError_RateLimited(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"15"}}}
	err := parser.StatusError("gemini", resp, []byte(`{"error":"quota"}`))

	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)

	var rl *parser.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 15*time.Second, rl.RetryAfter)
	assert.True(t, parser.IsRateLimited(err))
}

func TestStatusError_Unauthorized(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusUnauthorized, Header: http.Header{}}
	err := parser.StatusError("openai", resp, []byte(`invalid key`))

	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, parser.IsRateLimited(err))
	assert.Contains(t, err.Error(), "status 401")
	assert.NotContains(t, domain.UserMessage(err), "invalid key")
}

func TestTransportError(t *testing.T) {
	err := parser.TransportError("claude", errors.New("dial tcp: connection refused"))

	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "calling claude API")
}

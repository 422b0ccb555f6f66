package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/parser/claude"
	"declarant/internal/port"
)

func newClaudeTestParser(t *testing.T, serverURL string) *claude.Parser {
	t.Helper()
	p, err := claude.NewParserWithEndpoint(&config.ParserConfig{
		Provider:     "claude",
		APIKey:       "test-claude-key",
		DefaultModel: "claude-sonnet-4-20250514",
	}, serverURL)
	require.NoError(t, err)
	return p
}

func TestClaudeParser_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "system rules", reqBody["system"])
		assert.Equal(t, float64(16384), reqBody["max_tokens"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		assert.Equal(t, "user prompt", content[0].(map[string]interface{})["text"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"summary":`},
				{"type": "text", "text": `"ok"}`},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	resp, err := newClaudeTestParser(t, server.URL).Generate(context.Background(), port.OracleRequest{
		SystemInstruction: "system rules",
		UserPrompt:        "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, resp.Text)
}

func TestClaudeParser_Generate_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	_, err := newClaudeTestParser(t, server.URL).Generate(context.Background(), port.OracleRequest{UserPrompt: "x"})

	var bad *domain.OracleResponseError
	require.ErrorAs(t, err, &bad)
}

func TestClaudeParser_Generate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	_, err := newClaudeTestParser(t, server.URL).Generate(context.Background(), port.OracleRequest{UserPrompt: "x"})

	var bad *domain.OracleResponseError
	require.ErrorAs(t, err, &bad)
}

func TestClaudeParser_Generate_Overloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error"}}`))
	}))
	defer server.Close()

	_, err := newClaudeTestParser(t, server.URL).Generate(context.Background(), port.OracleRequest{UserPrompt: "x"})

	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, parser.IsRateLimited(err))
}

func TestClaudeParser_MissingKey(t *testing.T) {
	_, err := claude.NewParser(&config.ParserConfig{Provider: "claude"})
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

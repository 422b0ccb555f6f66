package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.ExtractionOracle, error) {
		p, err := NewParser(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Parser implements port.ExtractionOracle using the Anthropic Messages API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates a Claude-based oracle from the parser config.
func NewParser(cfg *config.ParserConfig) (*Parser, error) {
	return newParser(cfg, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserConfig, endpoint string) (*Parser, error) {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserConfig, endpoint string) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrCredentialMissing
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16384
	}
	return &Parser{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

// Generate sends one Messages API request. The Messages API has no JSON mode,
// so the system prompt carries the JSON-only requirement.
func (p *Parser) Generate(ctx context.Context, in port.OracleRequest) (*port.OracleResponse, error) {
	reqBody := map[string]interface{}{
		"model":      p.model,
		"max_tokens": p.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": in.UserPrompt},
				},
			},
		},
	}
	if in.SystemInstruction != "" {
		reqBody["system"] = in.SystemInstruction
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, parser.TransportError(providerName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, parser.TransportError(providerName, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parser.StatusError(providerName, resp, respBody)
	}

	return parseResponse(respBody, p.model)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.OracleResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewOracleResponse("malformed envelope", fmt.Errorf("unmarshaling response: %w", err))
	}

	if resp.StopReason == "max_tokens" {
		return nil, domain.NewOracleResponse("output truncated (stop_reason: max_tokens)", nil)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, domain.NewOracleResponse("empty response", nil)
	}

	return &port.OracleResponse{Text: sb.String(), ModelUsed: model}, nil
}

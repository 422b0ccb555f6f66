package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/port"
)

const (
	providerName = "openai"
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
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

// Parser implements port.ExtractionOracle using the OpenAI Chat Completions API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates an OpenAI-based oracle from the parser config.
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

// Generate sends one chat completion request in JSON mode.
func (p *Parser) Generate(ctx context.Context, in port.OracleRequest) (*port.OracleResponse, error) {
	var messages []map[string]interface{}
	if in.SystemInstruction != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": in.SystemInstruction,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": in.UserPrompt,
	})

	reqBody := map[string]interface{}{
		"model":                 p.model,
		"max_completion_tokens": p.maxTokens,
		"messages":              messages,
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
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
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*port.OracleResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewOracleResponse("malformed envelope", fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewOracleResponse("no choices", nil)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return nil, domain.NewOracleResponse("output truncated (finish_reason: length)", nil)
	}
	if choice.Message.Refusal != "" {
		return nil, domain.NewOracleResponse("model refused", fmt.Errorf("%s", choice.Message.Refusal))
	}
	if choice.Message.Content == "" {
		return nil, domain.NewOracleResponse("empty response", nil)
	}

	return &port.OracleResponse{Text: choice.Message.Content, ModelUsed: model}, nil
}

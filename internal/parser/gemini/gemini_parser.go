package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-pro"
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

// Parser implements port.ExtractionOracle using Google's Gemini API.
type Parser struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewParser creates a Gemini-based oracle. It fails with
// domain.ErrCredentialMissing when no API key is configured.
func NewParser(cfg *config.ParserConfig) (*Parser, error) {
	return newParser(cfg, "")
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
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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

// Generate sends one generateContent request.
func (p *Parser) Generate(ctx context.Context, in port.OracleRequest) (*port.OracleResponse, error) {
	generationConfig := map[string]interface{}{
		"responseMimeType": "application/json",
		"maxOutputTokens":  p.maxTokens,
	}
	if in.Contract != nil {
		generationConfig["responseSchema"] = in.Contract.GeminiSchema()
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": in.UserPrompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}
	if in.SystemInstruction != "" {
		reqBody["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": in.SystemInstruction},
			},
		}
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
	req.Header.Set("x-goog-api-key", p.apiKey)

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

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text    string `json:"text"`
				Thought bool   `json:"thought"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func parseResponse(body []byte, model string) (*port.OracleResponse, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewOracleResponse("malformed envelope", fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Candidates) == 0 {
		reason := "no candidates"
		if resp.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + resp.PromptFeedback.BlockReason
		}
		return nil, domain.NewOracleResponse(reason, nil)
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == "MAX_TOKENS" {
		return nil, domain.NewOracleResponse("output truncated (finishReason: MAX_TOKENS)", nil)
	}

	var text string
	for _, part := range cand.Content.Parts {
		if part.Thought {
			continue
		}
		text += part.Text
	}
	if text == "" {
		return nil, domain.NewOracleResponse("empty response", nil)
	}

	return &port.OracleResponse{Text: text, ModelUsed: model}, nil
}

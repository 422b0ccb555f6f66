// Package vertex provides an ExtractionOracle backed by Gemini models on
// Vertex AI, authenticated with Google Cloud credentials instead of an API key.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/port"
)

const (
	providerName = "vertex"
	defaultModel = "gemini-2.5-pro"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.ExtractionOracle, error) {
		p, err := NewParser(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Parser implements port.ExtractionOracle using the Vertex AI genai client.
type Parser struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewParser creates a Vertex AI oracle. The project ID is the credential
// lookup here: without it the parser fails with domain.ErrCredentialMissing.
func NewParser(ctx context.Context, cfg *config.ParserConfig, opts ...option.ClientOption) (*Parser, error) {
	if cfg.ProjectID == "" {
		return nil, domain.ErrCredentialMissing
	}
	location := cfg.Location
	if location == "" {
		location = "us-central1"
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16384
	}
	return &Parser{client: client, model: model, maxTokens: int32(maxTokens)}, nil
}

// Close releases the underlying client.
func (p *Parser) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Generate sends one GenerateContent request with the contract as response schema.
func (p *Parser) Generate(ctx context.Context, in port.OracleRequest) (*port.OracleResponse, error) {
	model := p.client.GenerativeModel(p.model)
	if in.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(in.SystemInstruction)},
		}
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
		MaxOutputTokens:  genai.Ptr(p.maxTokens),
	}
	if in.Contract != nil {
		model.ResponseSchema = SchemaFromMap(in.Contract.GeminiSchema())
	}

	resp, err := model.GenerateContent(ctx, genai.Text(in.UserPrompt))
	if err != nil {
		return nil, classify(err)
	}
	return parseResponse(resp, p.model)
}

func classify(err error) error {
	if status.Code(err) == codes.ResourceExhausted {
		return domain.NewOracleUnavailable("rate limited", parser.NewRateLimitError(providerName, err, 0))
	}
	return parser.TransportError(providerName, err)
}

func parseResponse(resp *genai.GenerateContentResponse, model string) (*port.OracleResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, domain.NewOracleResponse("no candidates", nil)
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMaxTokens {
		return nil, domain.NewOracleResponse("output truncated (finishReason: MAX_TOKENS)", nil)
	}
	if cand.Content == nil {
		return nil, domain.NewOracleResponse("empty response", nil)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return nil, domain.NewOracleResponse("empty response", nil)
	}
	return &port.OracleResponse{Text: sb.String(), ModelUsed: model}, nil
}

// SchemaFromMap converts the REST-style schema map produced by the output
// contract into the client library's schema type.
func SchemaFromMap(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		s.Type = schemaType(t)
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if n, ok := m["nullable"].(bool); ok {
		s.Nullable = n
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = SchemaFromMap(items)
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if pm, ok := v.(map[string]any); ok {
				s.Properties[name] = SchemaFromMap(pm)
			}
		}
	}
	if req, ok := m["required"].([]string); ok {
		s.Required = append([]string(nil), req...)
	}
	return s
}

func schemaType(t string) genai.Type {
	switch strings.ToUpper(t) {
	case "STRING":
		return genai.TypeString
	case "NUMBER":
		return genai.TypeNumber
	case "INTEGER":
		return genai.TypeInteger
	case "BOOLEAN":
		return genai.TypeBoolean
	case "ARRAY":
		return genai.TypeArray
	case "OBJECT":
		return genai.TypeObject
	}
	return genai.TypeUnspecified
}

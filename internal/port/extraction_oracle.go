package port

import "context"

// OracleRequest is one self-contained extraction request.
type OracleRequest struct {
	SystemInstruction string
	UserPrompt        string
	Contract          OutputContract
}

// OutputContract is the provider-neutral description of the required JSON
// output. Providers that support schema-constrained output render it in their
// own dialect.
type OutputContract interface {
	Version() string
	GeminiSchema() map[string]any
	JSONSchema() map[string]any
}

// OracleResponse carries the raw text returned by the oracle.
type OracleResponse struct {
	Text      string
	ModelUsed string
}

// ExtractionOracle abstracts the LLM that turns document text into a record.
// Implementations make exactly one call per Generate and never retry.
type ExtractionOracle interface {
	Generate(ctx context.Context, req OracleRequest) (*OracleResponse, error)
}

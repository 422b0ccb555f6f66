package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/port"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	parser.RegisterProvider("test-provider", func(cfg *config.ParserConfig) (port.ExtractionOracle, error) {
		return &stubOracle{model: cfg.DefaultModel}, nil
	})

	o, err := parser.NewOracle(&config.ParserConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.True(t, parser.IsConfigured(o))
	assert.Contains(t, parser.Providers(), "test-provider")

	resp, err := o.Generate(context.Background(), port.OracleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "test-model", resp.ModelUsed)
}

func TestFactory_UnknownProvider(t *testing.T) {
	o, err := parser.NewOracle(&config.ParserConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser provider")
}

func TestUnavailable_FailsWithoutNetwork(t *testing.T) {
	o := parser.Unavailable(domain.ErrCredentialMissing)
	assert.False(t, parser.IsConfigured(o))

	resp, err := o.Generate(context.Background(), port.OracleRequest{UserPrompt: "ignored"})
	assert.Nil(t, resp)

	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
	assert.Equal(t,
		"The extraction service credential is not configured. Check the deployment environment settings.",
		domain.UserMessage(err))
}

// stubOracle is a minimal ExtractionOracle for testing the factory.
type stubOracle struct {
	model string
}

func (s *stubOracle) Generate(_ context.Context, _ port.OracleRequest) (*port.OracleResponse, error) {
	return &port.OracleResponse{ModelUsed: s.model}, nil
}

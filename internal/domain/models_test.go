package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/domain"
)

func TestNewExtractionRequest_AllPresent(t *testing.T) {
	req, err := domain.NewExtractionRequest("c", "i", "d", "p")
	require.NoError(t, err)
	assert.Equal(t, "d", req.Text(domain.RoleDescription))
	assert.Empty(t, req.MissingRoles())
}

func TestNewExtractionRequest_Missing(t *testing.T) {
	_, err := domain.NewExtractionRequest("c", "  ", "", "p")
	require.Error(t, err)

	var valErr *domain.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, []domain.DocumentRole{domain.RoleInvoice, domain.RoleDescription}, valErr.Missing)
	assert.Equal(t, "Please upload all 4 required documents before processing.", domain.UserMessage(err))
}

func TestParseDocumentRole(t *testing.T) {
	r, err := domain.ParseDocumentRole(" Packing ")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePacking, r)

	_, err = domain.ParseDocumentRole("manifest")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestUserMessage_OracleErrors(t *testing.T) {
	missing := domain.NewOracleUnavailable("credential lookup", domain.ErrCredentialMissing)
	assert.Contains(t, domain.UserMessage(missing), "not configured")

	transport := fmt.Errorf("analyze: %w", domain.NewOracleUnavailable("calling gemini API", errors.New("dial tcp: timeout")))
	assert.Contains(t, domain.UserMessage(transport), "check the API credential")

	bad := domain.NewOracleResponse("empty response", nil)
	assert.Contains(t, domain.UserMessage(bad), "try again")

	assert.Equal(t, "An unexpected error occurred during AI analysis.", domain.UserMessage(errors.New("boom")))
}

func TestReadError_UserMessageNamesRole(t *testing.T) {
	err := &domain.ReadError{Role: domain.RolePacking, Err: &domain.UnsupportedFormatError{Extension: "pdf"}}
	assert.Contains(t, err.UserMessage(), "packing list")
	assert.Contains(t, err.Error(), "unsupported file type: .pdf")
}

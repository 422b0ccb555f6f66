package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/parser"
)

func TestContract_Version(t *testing.T) {
	assert.Equal(t, "customs-record/v1", parser.CustomsRecordContract().Version())
}

func TestContract_JSONSchemaRequiredFields(t *testing.T) {
	s := parser.CustomsRecordContract().JSONSchema()

	assert.ElementsMatch(t,
		[]string{"contractInfo", "invoiceInfo", "packingInfo", "goodsList", "summary"},
		s["required"])

	props := s["properties"].(map[string]any)
	packing := props["packingInfo"].(map[string]any)
	assert.ElementsMatch(t, []string{"totalPackages", "packageType"}, packing["required"])

	goods := props["goodsList"].(map[string]any)
	item := goods["items"].(map[string]any)
	required := item["required"].([]string)
	assert.NotContains(t, required, "nameEnglish")
	assert.NotContains(t, required, "elementString")
	assert.Contains(t, required, "hsCode")
	assert.Contains(t, required, "originCountry")

	itemProps := item["properties"].(map[string]any)
	hs := itemProps["hsCode"].(map[string]any)
	assert.Equal(t, `^\d{6,10}$`, hs["pattern"])
	qty := itemProps["quantity"].(map[string]any)
	assert.Equal(t, 0, qty["minimum"])
}

func TestContract_GeminiSchema(t *testing.T) {
	s := parser.CustomsRecordContract().GeminiSchema()

	assert.Equal(t, "OBJECT", s["type"])
	assert.Equal(t,
		[]string{"contractInfo", "invoiceInfo", "packingInfo", "goodsList", "summary"},
		s["propertyOrdering"])

	props := s["properties"].(map[string]any)
	goods := props["goodsList"].(map[string]any)
	assert.Equal(t, "ARRAY", goods["type"])
	item := goods["items"].(map[string]any)
	itemProps := item["properties"].(map[string]any)
	assert.Equal(t, "NUMBER", itemProps["unitPrice"].(map[string]any)["type"])
	assert.Equal(t, true, itemProps["nameEnglish"].(map[string]any)["nullable"])
}

func TestContract_Describe(t *testing.T) {
	d := parser.CustomsRecordContract().Describe()

	for _, name := range []string{"contractInfo", "invoiceNumber", "totalNetWeight", "goodsList", "hsCode", "summary"} {
		assert.Contains(t, d, "- "+name+" (")
	}
	assert.Contains(t, d, "unit (string): Unit in Chinese")
	assert.Contains(t, d, "originCountry (string): Country of origin as a Chinese country name")
	assert.Contains(t, d, "nameEnglish (string, optional)")

	// nested fields are indented under their parent
	lines := strings.Split(d, "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "- contractInfo"))
	assert.True(t, strings.HasPrefix(lines[1], "  - contractNumber"))
}

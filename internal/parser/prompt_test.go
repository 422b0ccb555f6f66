package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"declarant/internal/domain"
	"declarant/internal/parser"
)

func TestBuildUserPrompt_DocumentOrder(t *testing.T) {
	req := domain.ExtractionRequest{
		Contract:    "contract body",
		Invoice:     "invoice body",
		Description: "description body",
		Packing:     "packing body",
	}
	p := parser.BuildUserPrompt(req, parser.CustomsRecordContract(), 0)

	markers := []string{
		"--- DOCUMENT 1: CONTRACT ---\ncontract body",
		"--- DOCUMENT 2: INVOICE ---\ninvoice body",
		"--- DOCUMENT 3: PRODUCT DESCRIPTION & HS CODE ---\ndescription body",
		"--- DOCUMENT 4: PACKING LIST ---\npacking body",
		"customs-record/v1",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(p, m)
		assert.Greater(t, idx, last, "marker %q out of order", m)
		last = idx
	}
}

func TestBuildUserPrompt_TruncatesEachDocument(t *testing.T) {
	long := strings.Repeat("a", 50) + "TAIL"
	req := domain.ExtractionRequest{Contract: long, Invoice: long, Description: long, Packing: long}

	p := parser.BuildUserPrompt(req, parser.CustomsRecordContract(), 50)
	assert.NotContains(t, p, "TAIL")
	assert.Equal(t, 4, strings.Count(p, strings.Repeat("a", 50)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", parser.Truncate("short", 10))
	assert.Equal(t, "abc", parser.Truncate("abcdef", 3))
	assert.Equal(t, "聚乙烯", parser.Truncate("聚乙烯树脂", 3))
	assert.Equal(t, "", parser.Truncate("", 3))

	exact := strings.Repeat("x", parser.DefaultMaxInputChars)
	assert.Equal(t, exact, parser.Truncate(exact+"yz", 0))
}

func TestSystemInstruction_Rules(t *testing.T) {
	assert.Contains(t, parser.SystemInstruction, "customs broker")
	assert.Contains(t, parser.SystemInstruction, "valid JSON")
	assert.Contains(t, parser.SystemInstruction, "simplified Chinese")
	assert.Contains(t, parser.SystemInstruction, "10-digit")
	assert.Contains(t, parser.SystemInstruction, "申报要素")
	assert.Contains(t, parser.SystemInstruction, "prefer the Invoice for numbers")
}

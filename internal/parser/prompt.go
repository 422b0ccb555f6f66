package parser

import (
	"fmt"
	"strings"

	"declarant/internal/domain"
)

// DefaultMaxInputChars is how much of each document is sent to the oracle.
const DefaultMaxInputChars = 10000

// SystemInstruction is sent with every extraction request.
const SystemInstruction = `You are an expert China customs broker and international trade specialist.
Your task is to analyze four input documents (Contract, Invoice, Product Description, Packing List) and extract the data needed to prepare a Chinese customs declaration.

CRITICAL RULES:
1. Output MUST be a single valid JSON object with no markdown formatting, no code fences and no explanation.
2. Translate all descriptions and names into simplified Chinese suitable for a customs declaration.
3. Determine the HS code from the product description. If the provided code is rough, refine it to the China Customs 10-digit format when you are confident, otherwise keep the 6 to 8 digit code provided. Digits only.
4. For "elementString" (申报要素), construct the string Chinese customs requires for the HS code category (e.g. "品牌|型号|成分|用途"), filled from the Description document.
5. Keep the four documents consistent. On conflict, prefer the Invoice for numbers and the Description for product details.`

var documentHeadings = []struct {
	role    domain.DocumentRole
	heading string
}{
	{domain.RoleContract, "CONTRACT"},
	{domain.RoleInvoice, "INVOICE"},
	{domain.RoleDescription, "PRODUCT DESCRIPTION & HS CODE"},
	{domain.RolePacking, "PACKING LIST"},
}

// BuildUserPrompt assembles the user message: the four documents in fixed
// order, each cut to maxChars characters, followed by the output contract.
func BuildUserPrompt(req domain.ExtractionRequest, contract Contract, maxChars int) string {
	var sb strings.Builder
	sb.WriteString("Please analyze the following 4 documents:\n")
	for i, d := range documentHeadings {
		fmt.Fprintf(&sb, "\n--- DOCUMENT %d: %s ---\n", i+1, d.heading)
		sb.WriteString(Truncate(req.Text(d.role), maxChars))
		sb.WriteString("\n")
	}

	sb.WriteString("\nReturn one JSON object with exactly these fields (contract ")
	sb.WriteString(contract.Version())
	sb.WriteString("):\n")
	sb.WriteString(contract.Describe())
	sb.WriteString("\nAll string values in goodsList must be in Chinese, except model numbers or brands that are naturally English.\n")
	sb.WriteString("Numbers must be plain JSON numbers with no units, currency symbols or thousands separators.\n")
	sb.WriteString("Calculate total weights by summing the items if they are not explicitly stated.\n")
	return sb.String()
}

// Truncate keeps the first maxChars characters of s. Counting is by rune so
// Chinese text is never cut mid-character. A non-positive maxChars uses
// DefaultMaxInputChars.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	if len(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}

package parser

import (
	"fmt"
	"strings"
)

// ContractVersion identifies the current output contract. Bump it whenever
// a field is added, removed or retyped.
const ContractVersion = "customs-record/v1"

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindObject
	kindArray
)

// field is one node of the output contract. Every renderer walks the same
// tree, so the validation schema, the provider schema and the prompt text
// cannot drift apart.
type field struct {
	name        string
	kind        fieldKind
	description string
	optional    bool
	pattern     string
	nonNegative bool
	children    []field
	items       *field
}

func str(name, desc string) field { return field{name: name, kind: kindString, description: desc} }

func num(name, desc string) field {
	return field{name: name, kind: kindNumber, description: desc, nonNegative: true}
}

func obj(name, desc string, children ...field) field {
	return field{name: name, kind: kindObject, description: desc, children: children}
}

func optional(f field) field {
	f.optional = true
	return f
}

var customsRecordContract = obj("", "Customs declaration data extracted from the four trade documents.",
	obj("contractInfo", "Sales contract header.",
		str("contractNumber", "Contract number exactly as printed."),
		str("date", "Contract signing date as printed."),
		str("buyer", "Buyer company name. The buyer is the domestic consignee."),
		str("seller", "Seller company name. The seller is the foreign shipper."),
		str("signingPlace", "Place where the contract was signed."),
	),
	obj("invoiceInfo", "Commercial invoice header.",
		str("invoiceNumber", "Invoice number exactly as printed."),
		str("date", "Invoice date as printed."),
		str("currency", "ISO 4217 currency code, e.g. USD."),
		num("totalAmount", "Invoice total amount as a number without currency symbol."),
		str("incoterms", "Trade term such as FOB, CIF or EXW."),
	),
	obj("packingInfo", "Shipment-level packing totals.",
		num("totalPackages", "Total number of packages."),
		optional(num("totalNetWeight", "Total net weight in kilograms. Sum the items if not stated.")),
		optional(num("totalGrossWeight", "Total gross weight in kilograms. Sum the items if not stated.")),
		str("packageType", "Package type in Chinese, e.g. 纸箱, 托盘."),
	),
	field{
		name:        "goodsList",
		kind:        kindArray,
		description: "One entry per declaration line, in document order.",
		items: &field{
			kind: kindObject,
			children: []field{
				{name: "hsCode", kind: kindString, pattern: `^\d{6,10}$`,
					description: "HS code, digits only. 10 digits when confidently known, otherwise the 6 to 8 digit code provided."},
				str("nameChinese", "Declared product name in simplified Chinese."),
				optional(str("nameEnglish", "Product name in English as printed on the invoice.")),
				optional(str("elementString", "Declarable elements string (申报要素) in Chinese, e.g. 1:品名;2:成分;3:用途.")),
				num("quantity", "Declared quantity."),
				str("unit", "Unit in Chinese, e.g. 千克, 个, 件."),
				num("unitPrice", "Unit price in invoice currency."),
				num("totalPrice", "Line total in invoice currency."),
				num("netWeight", "Net weight in kilograms."),
				num("grossWeight", "Gross weight in kilograms."),
				str("originCountry", "Country of origin as a Chinese country name, e.g. 韩国."),
			},
		},
	},
	str("summary", "A brief summary of what was analyzed and any potential issues found."),
)

// Contract is the versioned description of the JSON document the oracle
// must return. It implements port.OutputContract.
type Contract struct{}

// CustomsRecordContract returns the current output contract.
func CustomsRecordContract() Contract { return Contract{} }

// Version returns the contract version tag.
func (Contract) Version() string { return ContractVersion }

// JSONSchema renders the contract as a JSON Schema document for response
// validation.
func (Contract) JSONSchema() map[string]any {
	s := jsonSchemaOf(customsRecordContract)
	s["$schema"] = "http://json-schema.org/draft-07/schema#"
	s["title"] = ContractVersion
	return s
}

func jsonSchemaOf(f field) map[string]any {
	s := map[string]any{}
	if f.description != "" {
		s["description"] = f.description
	}
	switch f.kind {
	case kindString:
		s["type"] = "string"
		if f.pattern != "" {
			s["pattern"] = f.pattern
		}
	case kindNumber:
		s["type"] = "number"
		if f.nonNegative {
			s["minimum"] = 0
		}
	case kindArray:
		s["type"] = "array"
		s["items"] = jsonSchemaOf(*f.items)
	case kindObject:
		s["type"] = "object"
		props := map[string]any{}
		required := []string{}
		for _, c := range f.children {
			props[c.name] = jsonSchemaOf(c)
			if !c.optional {
				required = append(required, c.name)
			}
		}
		s["properties"] = props
		s["required"] = required
	}
	return s
}

// GeminiSchema renders the contract in the OpenAPI subset accepted by the
// Gemini responseSchema field. Property order is pinned so the model emits
// keys in a stable order.
func (Contract) GeminiSchema() map[string]any {
	return geminiSchemaOf(customsRecordContract)
}

func geminiSchemaOf(f field) map[string]any {
	s := map[string]any{}
	if f.description != "" {
		s["description"] = f.description
	}
	if f.optional {
		s["nullable"] = true
	}
	switch f.kind {
	case kindString:
		s["type"] = "STRING"
	case kindNumber:
		s["type"] = "NUMBER"
	case kindArray:
		s["type"] = "ARRAY"
		s["items"] = geminiSchemaOf(*f.items)
	case kindObject:
		s["type"] = "OBJECT"
		props := map[string]any{}
		order := make([]string, 0, len(f.children))
		required := []string{}
		for _, c := range f.children {
			props[c.name] = geminiSchemaOf(c)
			order = append(order, c.name)
			if !c.optional {
				required = append(required, c.name)
			}
		}
		s["properties"] = props
		s["propertyOrdering"] = order
		s["required"] = required
	}
	return s
}

// Describe renders the contract as an indented field list for the prompt.
func (Contract) Describe() string {
	var sb strings.Builder
	for _, c := range customsRecordContract.children {
		describeField(&sb, c, 0)
	}
	return sb.String()
}

func describeField(sb *strings.Builder, f field, depth int) {
	indent := strings.Repeat("  ", depth)
	typ := typeName(f)
	if f.optional {
		typ += ", optional"
	}
	fmt.Fprintf(sb, "%s- %s (%s): %s\n", indent, f.name, typ, f.description)

	switch f.kind {
	case kindObject:
		for _, c := range f.children {
			describeField(sb, c, depth+1)
		}
	case kindArray:
		if f.items != nil && f.items.kind == kindObject {
			for _, c := range f.items.children {
				describeField(sb, c, depth+1)
			}
		}
	}
}

func typeName(f field) string {
	switch f.kind {
	case kindNumber:
		return "number"
	case kindObject:
		return "object"
	case kindArray:
		return "array of objects"
	}
	return "string"
}

// numericFields lists the number-typed children of an object node.
func numericFields(f field) []string {
	var names []string
	for _, c := range f.children {
		if c.kind == kindNumber {
			names = append(names, c.name)
		}
	}
	return names
}

func childNamed(f field, name string) field {
	for _, c := range f.children {
		if c.name == name {
			return c
		}
	}
	return field{}
}

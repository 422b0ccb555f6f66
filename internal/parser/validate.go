package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"declarant/internal/domain"
)

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func recordSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(CustomsRecordContract().JSONSchema())
	})
	return compiledSchema, compileErr
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateRecordJSON checks data against the customs record contract.
func ValidateRecordJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeRecord turns raw oracle output into a CustomsRecord: fences are
// stripped, the document is normalized, validated against the contract and
// decoded. The returned error describes the first problem found.
func DecodeRecord(text string) (*domain.CustomsRecord, error) {
	body := StripFences(text)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	normalized, err := Normalize([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncateForLog(body, 500))
	}
	if err := ValidateRecordJSON(normalized); err != nil {
		return nil, err
	}

	var record domain.CustomsRecord
	if err := json.Unmarshal(normalized, &record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if record.GoodsList == nil {
		record.GoodsList = []domain.GoodsItem{}
	}
	return &record, nil
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

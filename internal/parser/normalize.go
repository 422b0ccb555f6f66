package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFence       = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	reNumberNoise = regexp.MustCompile(`[,\s]|^[A-Za-z$¥€£]+|[A-Za-z千克公斤个件]+$`)
	reCodeSep     = regexp.MustCompile(`[.\s-]`)
)

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := reFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// Normalize repairs the small deviations models commonly make without
// changing meaning: numbers sent as strings, HS codes with dots, dashes or
// spaces, stray whitespace, and nulls in optional fields. Anything it cannot
// repair is left for schema validation to reject.
func Normalize(doc []byte) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}

	for _, section := range customsRecordContract.children {
		switch section.kind {
		case kindObject:
			if obj, ok := m[section.name].(map[string]any); ok {
				normalizeObject(obj, section)
			}
		case kindArray:
			items, ok := m[section.name].([]any)
			if !ok {
				continue
			}
			for _, it := range items {
				if obj, ok := it.(map[string]any); ok {
					normalizeObject(obj, *section.items)
				}
			}
		case kindString:
			if s, ok := m[section.name].(string); ok {
				m[section.name] = strings.TrimSpace(s)
			}
		}
	}

	return json.Marshal(m)
}

func normalizeObject(obj map[string]any, schema field) {
	for _, name := range numericFields(schema) {
		if s, ok := obj[name].(string); ok {
			if f, ok := parseLooseNumber(s); ok {
				obj[name] = f
			}
		}
	}

	for key, v := range obj {
		f := childNamed(schema, key)
		switch t := v.(type) {
		case nil:
			// Required fields keep their null so validation rejects them.
			if f.optional {
				delete(obj, key)
			}
		case string:
			t = strings.TrimSpace(t)
			if f.pattern != "" {
				t = reCodeSep.ReplaceAllString(t, "")
			}
			obj[key] = t
		}
	}
}

// parseLooseNumber accepts "1,250.00", "USD 1250", "500 千克" and similar.
func parseLooseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	cleaned := reNumberNoise.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

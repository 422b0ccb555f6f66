// Package validator runs advisory consistency checks over an extracted
// customs record: missing fields, arithmetic that does not add up, and
// malformed codes. Results help the broker review the draft; they never
// block projection or export.
package validator

import (
	"context"

	"declarant/internal/domain"
)

// Severity grades a failed check.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// RuleType groups checks by kind.
type RuleType string

const (
	RuleRequired RuleType = "required"
	RuleSumCheck RuleType = "sum_check"
	RuleFormat   RuleType = "format"
	RuleLogical  RuleType = "logical"
)

// Result is the outcome of one check against one field path.
type Result struct {
	RuleKey       string   `json:"rule_key"`
	Passed        bool     `json:"passed"`
	Severity      Severity `json:"severity"`
	FieldPath     string   `json:"field_path"`
	ExpectedValue string   `json:"expected_value,omitempty"`
	ActualValue   string   `json:"actual_value,omitempty"`
	Message       string   `json:"message"`
}

// Validator is the interface for a single built-in check.
type Validator interface {
	Validate(ctx context.Context, record *domain.CustomsRecord) []Result
	RuleKey() string
	RuleName() string
	RuleType() RuleType
	Severity() Severity
}

// rule is the function-backed Validator used by every built-in check.
type rule struct {
	key      string
	name     string
	ruleType RuleType
	sev      Severity
	fn       func(*domain.CustomsRecord) []Result
}

func (r *rule) RuleKey() string    { return r.key }
func (r *rule) RuleName() string   { return r.name }
func (r *rule) RuleType() RuleType { return r.ruleType }
func (r *rule) Severity() Severity { return r.sev }

func (r *rule) Validate(_ context.Context, record *domain.CustomsRecord) []Result {
	results := r.fn(record)
	for i := range results {
		results[i].RuleKey = r.key
		results[i].Severity = r.sev
	}
	return results
}

// Builtins returns every built-in check.
func Builtins() []Validator {
	var all []Validator
	for _, group := range [][]*rule{requiredRules(), mathRules(), formatRules(), logicalRules()} {
		for _, r := range group {
			all = append(all, r)
		}
	}
	return all
}

package validator

import (
	"context"

	"declarant/internal/domain"
)

// FieldStatus is the computed check state for one field path.
type FieldStatus string

const (
	FieldStatusValid   FieldStatus = "valid"
	FieldStatusUnsure  FieldStatus = "unsure"
	FieldStatusInvalid FieldStatus = "invalid"
)

// Report summarizes one check run. Only failed results are listed.
type Report struct {
	Checked  int                    `json:"checked"`
	Errors   int                    `json:"errors"`
	Warnings int                    `json:"warnings"`
	Failures []Result               `json:"failures"`
	Fields   map[string]FieldStatus `json:"fields"`
}

// Clean reports whether nothing failed.
func (r *Report) Clean() bool { return r.Errors == 0 && r.Warnings == 0 }

// Engine runs every registered check against a record.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new check engine. A nil registry uses DefaultRegistry.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Check runs all checks in rule-key order. A nil record yields an empty report.
func (e *Engine) Check(ctx context.Context, record *domain.CustomsRecord) *Report {
	report := &Report{Failures: []Result{}, Fields: map[string]FieldStatus{}}
	if record == nil {
		return report
	}
	var all []Result
	for _, v := range e.registry.All() {
		if ctx.Err() != nil {
			break
		}
		all = append(all, v.Validate(ctx, record)...)
	}

	report.Checked = len(all)
	for _, r := range all {
		if r.Passed {
			continue
		}
		report.Failures = append(report.Failures, r)
		if r.Severity == SeverityError {
			report.Errors++
		} else {
			report.Warnings++
		}
	}
	report.Fields = ComputeFieldStatuses(all)
	return report
}

// ComputeFieldStatuses derives per-field statuses from results: any failed
// error makes a field invalid, otherwise any failed warning makes it unsure.
func ComputeFieldStatuses(results []Result) map[string]FieldStatus {
	statuses := make(map[string]FieldStatus)
	for _, r := range results {
		cur, seen := statuses[r.FieldPath]
		if !seen {
			cur = FieldStatusValid
		}
		if !r.Passed {
			if r.Severity == SeverityError {
				cur = FieldStatusInvalid
			} else if cur != FieldStatusInvalid {
				cur = FieldStatusUnsure
			}
		}
		statuses[r.FieldPath] = cur
	}
	return statuses
}

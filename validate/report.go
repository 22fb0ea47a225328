// Copyright 2026 The LinkML-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validate orchestrates the built-in validators (package
// validate/validators) over instance data against a resolved schema
// (spec.md §4.5, §7). ValidationIssue deliberately does not implement the
// errors.Error interface: a failed validation is data describing the
// instance, not a failure of the validation process itself.
package validate

import "fmt"

// Severity classifies a ValidationIssue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Issue is one finding produced by a validator. It is plain data, not an
// error: a schema can be perfectly well-formed and still reject instances.
type Issue struct {
	Severity  Severity
	Message   string
	Path      string // e.g. "$.person.birth_year"
	Validator string // validator name that produced this issue, e.g. "RequiredValidator"
	Code      string
	Context   map[string]string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Path, i.Message)
}

// Stats summarizes issue counts by severity.
type Stats struct {
	ErrorCount   int
	WarningCount int
	InfoCount    int
}

// Report is the result of validating one instance (or a batch) against a
// schema.
type Report struct {
	Valid       bool
	Issues      []Issue
	Stats       Stats
	SchemaID    string
	TargetClass string
}

// NewReport returns an empty, passing report for schemaID.
func NewReport(schemaID string) *Report {
	return &Report{Valid: true, SchemaID: schemaID}
}

// AddIssue appends issue, updating Valid and Stats.
func (r *Report) AddIssue(issue Issue) {
	switch issue.Severity {
	case SeverityError:
		r.Valid = false
		r.Stats.ErrorCount++
	case SeverityWarning:
		r.Stats.WarningCount++
	case SeverityInfo:
		r.Stats.InfoCount++
	}
	r.Issues = append(r.Issues, issue)
}

// Merge appends other's issues into r, preserving its own schema/target
// identity.
func (r *Report) Merge(other *Report) {
	for _, issue := range other.Issues {
		r.AddIssue(issue)
	}
}

// Errors returns only the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Warnings returns only the warning-severity issues.
func (r *Report) Warnings() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}

// Summary renders a short human-readable summary of the report.
func (r *Report) Summary() string {
	if r.Valid {
		return fmt.Sprintf("validation passed with %d warnings", r.Stats.WarningCount)
	}
	return fmt.Sprintf("validation failed with %d errors and %d warnings", r.Stats.ErrorCount, r.Stats.WarningCount)
}

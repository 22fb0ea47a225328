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

package intern

import (
	"fmt"

	"github.com/linkml-io/linkml-go/validate"
)

// Issue is one validation finding with its message/path/validator/code
// fields held as interned IDs rather than strings, for batch runs that
// produce many structurally identical issues (same validator, same
// message template, different path).
type Issue struct {
	Severity  validate.Severity
	Message   ID
	Path      ID
	Validator ID
	Code      ID // zero means "unset"
	Context   map[ID]string
}

// Report is validate.Report's interned counterpart.
type Report struct {
	Valid       bool
	Issues      []Issue
	Stats       validate.Stats
	SchemaID    ID
	TargetClass ID // zero means "unset"

	interner *StringInterner
}

// NewReport returns an empty, passing Report interning strings through si.
func NewReport(si *StringInterner, schemaID string) *Report {
	return &Report{Valid: true, SchemaID: si.Intern(schemaID), interner: si}
}

// AddIssue appends issue, updating Valid and Stats exactly like
// validate.Report.AddIssue.
func (r *Report) AddIssue(issue Issue) {
	switch issue.Severity {
	case validate.SeverityError:
		r.Valid = false
		r.Stats.ErrorCount++
	case validate.SeverityWarning:
		r.Stats.WarningCount++
	case validate.SeverityInfo:
		r.Stats.InfoCount++
	}
	r.Issues = append(r.Issues, issue)
}

// Errors returns only the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == validate.SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Materialize converts the interned report back to a plain validate.Report
// for serialization or display.
func (r *Report) Materialize() *validate.Report {
	out := &validate.Report{Valid: r.Valid, Stats: r.Stats}
	out.SchemaID = r.interner.MustGet(r.SchemaID)
	if r.TargetClass != 0 {
		out.TargetClass = r.interner.MustGet(r.TargetClass)
	}
	for _, issue := range r.Issues {
		mi := validate.Issue{
			Severity:  issue.Severity,
			Message:   r.interner.MustGet(issue.Message),
			Path:      r.interner.MustGet(issue.Path),
			Validator: r.interner.MustGet(issue.Validator),
		}
		if issue.Code != 0 {
			mi.Code = r.interner.MustGet(issue.Code)
		}
		if len(issue.Context) > 0 {
			mi.Context = make(map[string]string, len(issue.Context))
			for k, v := range issue.Context {
				mi.Context[r.interner.MustGet(k)] = v
			}
		}
		out.Issues = append(out.Issues, mi)
	}
	return out
}

// IssueBuilder constructs Issues for the most common validator messages
// using an interner's pre-populated CommonIDs, avoiding a fresh Intern
// call for the repeated validator name and error code on every issue.
type IssueBuilder struct {
	interner *StringInterner
}

// NewIssueBuilder returns an IssueBuilder backed by si.
func NewIssueBuilder(si *StringInterner) *IssueBuilder {
	return &IssueBuilder{interner: si}
}

// RequiredFieldMissing builds a "required field is missing" error Issue.
func (b *IssueBuilder) RequiredFieldMissing(fieldName, path string) Issue {
	common := b.interner.Common()
	return Issue{
		Severity:  validate.SeverityError,
		Message:   b.interner.Intern(fmt.Sprintf("required field %q is missing", fieldName)),
		Path:      b.interner.Intern(path),
		Validator: common.ValidatorRequired,
		Code:      common.ErrorRequired,
	}
}

// TypeMismatch builds a type-mismatch error Issue.
func (b *IssueBuilder) TypeMismatch(expected, actual, path string) Issue {
	common := b.interner.Common()
	return Issue{
		Severity:  validate.SeverityError,
		Message:   b.interner.Intern(fmt.Sprintf("type mismatch: expected %s, got %s", expected, actual)),
		Path:      b.interner.Intern(path),
		Validator: common.ValidatorType,
		Code:      common.ErrorTypeMismatch,
	}
}

// PatternMismatch builds a pattern-mismatch error Issue.
func (b *IssueBuilder) PatternMismatch(value, pattern, path string) Issue {
	common := b.interner.Common()
	return Issue{
		Severity:  validate.SeverityError,
		Message:   b.interner.Intern(fmt.Sprintf("value %q does not match pattern %q", value, pattern)),
		Path:      b.interner.Intern(path),
		Validator: common.ValidatorPattern,
		Code:      common.ErrorPatternMismatch,
	}
}

// MemoryStats estimates the interning payoff for si's current contents,
// assuming (per the original implementation) an average of three
// references per interned string and 8 bytes per ID reference.
type MemoryStats struct {
	UniqueStrings  int
	BytesSaved     int
	ReferenceCount int
	AvgStringLen   float64
}

// CalculateMemoryStats computes a MemoryStats snapshot for si.
func CalculateMemoryStats(si *StringInterner) MemoryStats {
	stats := si.Stats()
	estimatedRefs := stats.TotalStrings * 3
	bytesWithout := stats.TotalBytes * 3
	bytesWith := stats.TotalBytes + estimatedRefs*8
	bytesSaved := bytesWithout - bytesWith
	if bytesSaved < 0 {
		bytesSaved = 0
	}
	return MemoryStats{
		UniqueStrings:  stats.TotalStrings,
		BytesSaved:     bytesSaved,
		ReferenceCount: estimatedRefs,
		AvgStringLen:   stats.AverageLength,
	}
}

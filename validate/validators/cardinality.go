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

package validators

import (
	"fmt"

	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// CardinalityValidator enforces slot.MinCardinality/MaxCardinality against
// a multivalued slot's list length, and that a non-multivalued slot never
// holds a list.
type CardinalityValidator struct{}

func (CardinalityValidator) Name() string { return "CardinalityValidator" }

func (CardinalityValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Value.IsNull() {
		return nil
	}
	multivalued := ctx.Slot.Multivalued != nil && *ctx.Slot.Multivalued
	if !multivalued {
		if ctx.Value.Kind() == value.KindList {
			return []validate.Issue{{
				Severity:  validate.SeverityError,
				Message:   fmt.Sprintf("slot %q is not multivalued but got a list", ctx.Slot.Name),
				Path:      ctx.Path,
				Validator: "CardinalityValidator",
				Code:      "cardinality_violation",
			}}
		}
		return nil
	}
	if ctx.Value.Kind() != value.KindList {
		return []validate.Issue{{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("slot %q is multivalued and expects a list", ctx.Slot.Name),
			Path:      ctx.Path,
			Validator: "CardinalityValidator",
			Code:      "cardinality_violation",
		}}
	}
	n := len(ctx.Value.List())
	var issues []validate.Issue
	if ctx.Slot.MinCardinality != nil && n < *ctx.Slot.MinCardinality {
		issues = append(issues, validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("slot %q has %d values, fewer than the minimum of %d", ctx.Slot.Name, n, *ctx.Slot.MinCardinality),
			Path:      ctx.Path,
			Validator: "CardinalityValidator",
			Code:      "cardinality_violation",
		})
	}
	if ctx.Slot.MaxCardinality != nil && n > *ctx.Slot.MaxCardinality {
		issues = append(issues, validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("slot %q has %d values, more than the maximum of %d", ctx.Slot.Name, n, *ctx.Slot.MaxCardinality),
			Path:      ctx.Path,
			Validator: "CardinalityValidator",
			Code:      "cardinality_violation",
		})
	}
	return issues
}

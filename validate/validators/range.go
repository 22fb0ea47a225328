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

	"github.com/cockroachdb/apd/v3"

	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// RangeValidator enforces slot.MinimumValue/MaximumValue using
// arbitrary-precision decimal comparison (apd/v3), since schema-declared
// bounds and instance values are both ultimately decimal literals and a
// float64 round trip can misjudge a boundary value.
type RangeValidator struct{}

func (RangeValidator) Name() string { return "RangeValidator" }

func (RangeValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Value.IsNull() {
		return nil
	}
	if ctx.Slot.MinimumValue == nil && ctx.Slot.MaximumValue == nil {
		return nil
	}
	if ctx.Value.Kind() != value.KindInt && ctx.Value.Kind() != value.KindFloat {
		return nil
	}
	var v *apd.Decimal
	if ctx.Value.Kind() == value.KindInt {
		v = apd.New(ctx.Value.Int(), 0)
	} else {
		d, _, err := apd.NewFromString(fmt.Sprintf("%v", ctx.Value.Float()))
		if err != nil {
			return nil
		}
		v = d
	}
	var issues []validate.Issue
	if ctx.Slot.MinimumValue != nil {
		if ok, issue := compareBound(v, ctx.Slot.MinimumValue, ctx.Slot.Name, ctx.Path, true); !ok {
			issues = append(issues, issue)
		}
	}
	if ctx.Slot.MaximumValue != nil {
		if ok, issue := compareBound(v, ctx.Slot.MaximumValue, ctx.Slot.Name, ctx.Path, false); !ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func compareBound(v *apd.Decimal, bound *schema.Number, slotName, path string, isMin bool) (bool, validate.Issue) {
	b, _, err := apd.NewFromString(bound.Literal)
	if err != nil {
		return true, validate.Issue{}
	}
	cmp := v.Cmp(b)
	if isMin && cmp < 0 {
		return false, validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("slot %q value %s is below the minimum of %s", slotName, v, bound.Literal),
			Path:      path,
			Validator: "RangeValidator",
			Code:      "range_violation",
		}
	}
	if !isMin && cmp > 0 {
		return false, validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("slot %q value %s is above the maximum of %s", slotName, v, bound.Literal),
			Path:      path,
			Validator: "RangeValidator",
			Code:      "range_violation",
		}
	}
	return true, validate.Issue{}
}

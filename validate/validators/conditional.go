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
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// ConditionalRequirementValidator enforces Class.IfRequired: when the
// named slot's SlotCondition holds, every slot named in ThenRequired must
// be present on the instance. It runs only in the class-scoped pass
// (ctx.Slot == nil).
type ConditionalRequirementValidator struct{}

func (ConditionalRequirementValidator) Name() string { return "ConditionalRequirementValidator" }

func (ConditionalRequirementValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot != nil {
		return nil
	}
	class, ok := ctx.View.Schema().Classes[ctx.ClassName]
	if !ok || len(class.IfRequired) == 0 {
		return nil
	}
	if ctx.Instance.Kind() != value.KindObject || ctx.Instance.Object() == nil {
		return nil
	}
	var issues []validate.Issue
	for slotName, req := range class.IfRequired {
		triggerValue, _ := ctx.Instance.Object().Get(slotName)
		if !slotConditionHolds(req.Condition, triggerValue) {
			continue
		}
		for _, required := range req.ThenRequired {
			v, present := ctx.Instance.Object().Get(required)
			if !present || v.IsNull() {
				issues = append(issues, validate.Issue{
					Severity:  validate.SeverityError,
					Message:   fmt.Sprintf("slot %q is required when %q satisfies its condition", required, slotName),
					Path:      ctx.Path,
					Validator: "ConditionalRequirementValidator",
					Code:      "conditional_requirement",
				})
			}
		}
	}
	return issues
}

func slotConditionHolds(c *schema.SlotCondition, v value.Value) bool {
	if c == nil {
		return false
	}
	if c.Required != nil && *c.Required {
		return !v.IsNull()
	}
	if c.EqualsString != nil {
		return v.Kind() == value.KindString && v.Str() == *c.EqualsString
	}
	if c.EqualsNumber != nil {
		want, err := strconv.ParseFloat(c.EqualsNumber.Literal, 64)
		if err != nil {
			return false
		}
		return (v.Kind() == value.KindInt || v.Kind() == value.KindFloat) && v.Float() == want
	}
	if c.Pattern != "" {
		if v.Kind() != value.KindString {
			return false
		}
		re, err := regexp2.Compile(c.Pattern, regexp2.None)
		if err != nil {
			return false
		}
		matched, err := re.MatchString(v.Str())
		return err == nil && matched
	}
	return false
}

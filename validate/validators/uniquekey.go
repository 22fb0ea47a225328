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
	"strings"

	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// UniqueKeyValidator enforces every schema.UniqueKey declared on a class,
// plus the implicit primary key formed by an identifier slot (I4), using
// ctx.Trackers to remember every composite key value already seen across
// the current validation run. It runs only in the class-scoped pass
// (ctx.Slot == nil), and records each string identifier value with
// Trackers.RegisterID for CrossReferenceValidator.
type UniqueKeyValidator struct{}

func (UniqueKeyValidator) Name() string { return "UniqueKeyValidator" }

func (UniqueKeyValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot != nil || ctx.Trackers == nil || ctx.Instance.Kind() != value.KindObject || ctx.Instance.Object() == nil {
		return nil
	}
	class, ok := ctx.View.Schema().Classes[ctx.ClassName]
	if !ok {
		return nil
	}
	var issues []validate.Issue
	for keyName, uk := range class.UniqueKeys {
		if issue, dup := checkUniqueKey(ctx, keyName, uk.SlotNames, uk.ConsiderNullsInequal); dup {
			issues = append(issues, issue)
		}
	}
	for _, slot := range ctx.View.ClassSlots(ctx.ClassName) {
		if slot.Identifier != nil && *slot.Identifier {
			if id, ok := ctx.Instance.Object().Get(slot.Name); ok && id.Kind() == value.KindString {
				ctx.Trackers.RegisterID(ctx.ClassName, id.Str())
			}
			if issue, dup := checkUniqueKey(ctx, "identifier", []string{slot.Name}, true); dup {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func checkUniqueKey(ctx *Context, keyName string, slotNames []string, considerNullsInequal bool) (validate.Issue, bool) {
	parts := make([]string, len(slotNames))
	for i, sn := range slotNames {
		v, present := ctx.Instance.Object().Get(sn)
		if !present || v.IsNull() {
			if considerNullsInequal {
				return validate.Issue{}, false
			}
			parts[i] = "\x00null\x00"
			continue
		}
		switch v.Kind() {
		case value.KindString:
			parts[i] = v.Str()
		case value.KindInt, value.KindFloat:
			parts[i] = fmt.Sprintf("%v", v.Float())
		case value.KindBool:
			parts[i] = fmt.Sprintf("%v", v.Bool())
		default:
			parts[i] = fmt.Sprintf("%v", v.Str())
		}
	}
	key := strings.Join(parts, "\x1f")
	bucket := ctx.ClassName + "\x00" + keyName
	if firstIndex, dup := ctx.Trackers.markSeen(bucket, key, ctx.InstanceIndex); dup {
		return validate.Issue{
			Severity:  validate.SeverityError,
			Message: fmt.Sprintf("duplicate value for unique key %q on class %q: %s (instances %d and %d)",
				keyName, ctx.ClassName, strings.Join(parts, ", "), firstIndex, ctx.InstanceIndex),
			Path:      ctx.Path,
			Validator: "UniqueKeyValidator",
			Code:      "unique_key_violation",
			Context: map[string]string{
				"duplicate_indices": fmt.Sprintf("[%d,%d]", firstIndex, ctx.InstanceIndex),
			},
		}, true
	}
	return validate.Issue{}, false
}

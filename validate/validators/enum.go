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

	"golang.org/x/text/cases"

	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// EnumValidator checks that a slot's value is one of its range Enum's
// PermissibleValues, or (when PermissibleValues is empty and
// InstanceDataSource is set) one of the values supplied externally via
// its ExternalEnumValues field.
type EnumValidator struct {
	// ExternalEnumValues supplies permissible values for enums whose
	// PermissibleValues is empty and InstanceDataSource is set, keyed by
	// enum name (populated from a loaded schema.InstanceData).
	ExternalEnumValues map[string][]string
}

func (EnumValidator) Name() string { return "EnumValidator" }

var foldCaser = cases.Fold()

func (ev EnumValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Value.IsNull() {
		return nil
	}
	enum, ok := ctx.View.Schema().Enums[ctx.Slot.Range]
	if !ok || ctx.Value.Kind() != value.KindString {
		return nil
	}
	allowed := enumValues(enum)
	if len(allowed) == 0 && enum.InstanceDataSource != "" && ev.ExternalEnumValues != nil {
		allowed = ev.ExternalEnumValues[enum.Name]
	}
	if len(allowed) == 0 {
		return nil
	}
	want := foldCaser.String(ctx.Value.Str())
	for _, a := range allowed {
		if foldCaser.String(a) == want {
			return nil
		}
	}
	return []validate.Issue{{
		Severity:  validate.SeverityError,
		Message:   fmt.Sprintf("value %q is not in allowed values: [%s]", ctx.Value.Str(), strings.Join(allowed, ", ")),
		Path:      ctx.Path,
		Validator: "EnumValidator",
		Code:      "enum_violation",
	}}
}

func enumValues(e *schema.Enum) []string {
	out := make([]string, len(e.PermissibleValues))
	for i, pv := range e.PermissibleValues {
		out[i] = pv.Text
	}
	return out
}

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

// TypeValidator checks that a slot's value kind matches the primitive
// implied by its range (string/integer/float/boolean/etc.). The resolver
// leaves Range as declared, so a range naming a schema Type is followed
// here through its Base/TypeOf chain to the primitive it derives from.
type TypeValidator struct{}

func (TypeValidator) Name() string { return "TypeValidator" }

var primitiveKinds = map[string]value.Kind{
	"string":          value.KindString,
	"uri":             value.KindString,
	"uriorcurie":      value.KindString,
	"ncname":          value.KindString,
	"objectidentifier": value.KindString,
	"nodeidentifier":  value.KindString,
	"date":            value.KindString,
	"datetime":        value.KindString,
	"time":            value.KindString,
	"decimal":         value.KindString,
	"integer":         value.KindInt,
	"float":           value.KindFloat,
	"double":          value.KindFloat,
	"boolean":         value.KindBool,
}

func (TypeValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Value.IsNull() {
		return nil
	}
	rng := ctx.Slot.Range
	types := ctx.View.Schema().Types
	for i := 0; i < len(types); i++ {
		t, isType := types[rng]
		if _, isPrim := primitiveKinds[rng]; isPrim || !isType {
			break
		}
		if rng = t.Base; rng == "" {
			rng = t.TypeOf
		}
	}
	want, ok := primitiveKinds[rng]
	if !ok {
		return nil // a Class/Enum range or unrecognized type: not this validator's concern
	}
	got := ctx.Value.Kind()
	if got == want {
		return nil
	}
	// integers are acceptable wherever a float is expected
	if want == value.KindFloat && got == value.KindInt {
		return nil
	}
	return []validate.Issue{{
		Severity:  validate.SeverityError,
		Message:   fmt.Sprintf("type mismatch: expected %s, got %s", want, got),
		Path:      ctx.Path,
		Validator: "TypeValidator",
		Code:      "type_mismatch",
	}}
}

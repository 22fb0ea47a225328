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

// CrossReferenceValidator checks that a slot whose range is a class
// resolves to an identifier registered (via Trackers.RegisterID, normally
// by UniqueKeyValidator's implicit-identifier pass) by an instance
// validated earlier in the current validation run, catching dangling
// references between sibling instances in the same load. An identifier
// that first appears in a later instance is not found.
type CrossReferenceValidator struct{}

func (CrossReferenceValidator) Name() string { return "CrossReferenceValidator" }

func (CrossReferenceValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Value.IsNull() || ctx.Trackers == nil {
		return nil
	}
	rangeClass, ok := ctx.View.Schema().Classes[ctx.Slot.Range]
	if !ok {
		return nil
	}
	hasIdentifier := false
	for _, s := range ctx.View.ClassSlots(rangeClass.Name) {
		if s.Identifier != nil && *s.Identifier {
			hasIdentifier = true
			break
		}
	}
	if !hasIdentifier {
		return nil
	}
	refs := []value.Value{ctx.Value}
	if ctx.Value.Kind() == value.KindList {
		refs = ctx.Value.List()
	}
	var issues []validate.Issue
	for _, ref := range refs {
		if ref.Kind() != value.KindString {
			continue
		}
		if !ctx.Trackers.HasID(rangeClass.Name, ref.Str()) {
			issues = append(issues, validate.Issue{
				Severity:  validate.SeverityError,
				Message:   fmt.Sprintf("slot %q references unknown %s identifier %q", ctx.Slot.Name, rangeClass.Name, ref.Str()),
				Path:      ctx.Path,
				Validator: "CrossReferenceValidator",
				Code:      "cross_ref_unresolved",
			})
		}
	}
	return issues
}

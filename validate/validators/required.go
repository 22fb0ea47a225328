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
)

// RequiredValidator enforces slot.Required: true.
type RequiredValidator struct{}

func (RequiredValidator) Name() string { return "RequiredValidator" }

func (RequiredValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Slot.Required == nil || !*ctx.Slot.Required {
		return nil
	}
	if !ctx.Value.IsNull() {
		return nil
	}
	return []validate.Issue{{
		Severity:  validate.SeverityError,
		Message:   fmt.Sprintf("required slot %q is missing", ctx.Slot.Name),
		Path:      ctx.Path,
		Validator: "RequiredValidator",
		Code:      "required_missing",
	}}
}

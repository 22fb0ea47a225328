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

	"github.com/dlclark/regexp2"

	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// PatternValidator checks slot.Pattern against a string value, using
// regexp2 for PCRE-compatible constructs (lookahead/lookbehind) that LinkML
// schema authors commonly write and Go's RE2-based regexp cannot express.
type PatternValidator struct{}

func (PatternValidator) Name() string { return "PatternValidator" }

func (PatternValidator) Validate(ctx *Context) []validate.Issue {
	if ctx.Slot == nil || ctx.Slot.Pattern == "" || ctx.Value.IsNull() {
		return nil
	}
	if ctx.Value.Kind() != value.KindString {
		return nil
	}
	re, err := regexp2.Compile(ctx.Slot.Pattern, regexp2.None)
	if err != nil {
		return []validate.Issue{{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("invalid pattern %q on slot %q: %s", ctx.Slot.Pattern, ctx.Slot.Name, err),
			Path:      ctx.Path,
			Validator: "PatternValidator",
			Code:      "internal",
		}}
	}
	matched, err := re.MatchString(ctx.Value.Str())
	if err != nil || !matched {
		return []validate.Issue{{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("value %q does not match pattern %q", ctx.Value.Str(), ctx.Slot.Pattern),
			Path:      ctx.Path,
			Validator: "PatternValidator",
			Code:      "pattern_mismatch",
		}}
	}
	return nil
}

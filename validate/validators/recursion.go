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

// RecursionDepthValidator enforces schema.RecursionOptions.MaxDepth for a
// self-referential class against ctx.Depth, the recursion depth the
// orchestrating engine has reached while descending into nested instances.
type RecursionDepthValidator struct{}

func (RecursionDepthValidator) Name() string { return "RecursionDepthValidator" }

func (RecursionDepthValidator) Validate(ctx *Context) []validate.Issue {
	class, ok := ctx.View.Schema().Classes[ctx.ClassName]
	if !ok || class.RecursionOptions == nil {
		return nil
	}
	max := class.RecursionOptions.MaxDepth
	if max <= 0 || ctx.Depth <= max {
		return nil
	}
	return []validate.Issue{{
		Severity:  validate.SeverityError,
		Message:   fmt.Sprintf("recursion depth %d for class %q exceeds the maximum of %d", ctx.Depth, ctx.ClassName, max),
		Path:      ctx.Path,
		Validator: "RecursionDepthValidator",
		Code:      "recursion_depth_exceeded",
	}}
}

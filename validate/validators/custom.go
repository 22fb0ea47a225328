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
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
)

// AppliesTo decides which slots a CustomValidator runs against.
type AppliesTo struct {
	all    bool
	names  map[string]bool
	ranges map[string]bool
	pred   func(*schema.Slot) bool
}

// AppliesToAll matches every slot, and class-scoped checks (ctx.Slot == nil).
func AppliesToAll() AppliesTo { return AppliesTo{all: true} }

// AppliesToSlotNames matches only the named slots.
func AppliesToSlotNames(names ...string) AppliesTo {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return AppliesTo{names: set}
}

// AppliesToSlotRanges matches slots whose Range is one of ranges.
func AppliesToSlotRanges(ranges ...string) AppliesTo {
	set := make(map[string]bool, len(ranges))
	for _, r := range ranges {
		set[r] = true
	}
	return AppliesTo{ranges: set}
}

// AppliesToPredicate matches slots for which pred returns true.
func AppliesToPredicate(pred func(*schema.Slot) bool) AppliesTo {
	return AppliesTo{pred: pred}
}

func (a AppliesTo) matches(slot *schema.Slot) bool {
	if slot == nil {
		return a.all
	}
	switch {
	case a.all:
		return true
	case a.names != nil:
		return a.names[slot.Name]
	case a.ranges != nil:
		return a.ranges[slot.Range]
	case a.pred != nil:
		return a.pred(slot)
	default:
		return false
	}
}

// CustomValidator wraps a user-supplied check function and runs it only
// against the slots (or class-scoped instances) selected by AppliesTo.
type CustomValidator struct {
	ValidatorName string
	AppliesTo     AppliesTo
	Check         func(ctx *Context) []validate.Issue
}

func (c CustomValidator) Name() string {
	if c.ValidatorName != "" {
		return c.ValidatorName
	}
	return "CustomValidator"
}

func (c CustomValidator) Validate(ctx *Context) []validate.Issue {
	if c.Check == nil || !c.AppliesTo.matches(ctx.Slot) {
		return nil
	}
	return c.Check(ctx)
}

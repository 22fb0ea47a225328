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

package rule

import "github.com/linkml-io/linkml-go/value"

// ExecutionContext carries the instance under evaluation, the class it is
// being evaluated against, and the bookkeeping needed to enforce I7 (a
// rule may not be re-entered while it is already being evaluated).
type ExecutionContext struct {
	Instance    value.Value
	ClassName   string
	Parent      value.Value
	Root        value.Value
	MatchedRules []string

	active map[string]bool
}

// NewExecutionContext returns a context for evaluating instance against
// className's rules.
func NewExecutionContext(instance value.Value, className string) *ExecutionContext {
	return &ExecutionContext{Instance: instance, ClassName: className, active: map[string]bool{}}
}

func (c *ExecutionContext) markMatched(desc string) {
	c.MatchedRules = append(c.MatchedRules, desc)
}

// enter marks id as currently evaluating, returning false (and leaving the
// guard untouched) if it is already active — the I7 re-entry guard.
func (c *ExecutionContext) enter(id string) bool {
	if c.active[id] {
		return false
	}
	c.active[id] = true
	return true
}

func (c *ExecutionContext) exit(id string) { delete(c.active, id) }

// ExpressionContext builds the identifier -> value environment expression
// and slot conditions evaluate against: every slot in slotNames defaults to
// null, instance fields then override, and finally the special
// `_instance`/`_class`/`parent`/`root` variables are added.
func (c *ExecutionContext) ExpressionContext(slotNames []string) map[string]value.Value {
	ctx := make(map[string]value.Value, len(slotNames)+4)
	for _, name := range slotNames {
		ctx[name] = value.Null
	}
	if c.Instance.Kind() == value.KindObject && c.Instance.Object() != nil {
		for _, k := range c.Instance.Object().Keys() {
			v, _ := c.Instance.Object().Get(k)
			ctx[k] = v
		}
	}
	ctx["_instance"] = c.Instance
	ctx["_class"] = value.String(c.ClassName)
	if !c.Parent.IsNull() {
		ctx["parent"] = c.Parent
	}
	if !c.Root.IsNull() {
		ctx["root"] = c.Root
	}
	return ctx
}

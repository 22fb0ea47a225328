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

import (
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/linkml-io/linkml-go/expr/compile"
	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/value"
)

// evaluator holds the shared compiler/VM used to run the expression ASTs
// embedded in a CompiledCondition tree against a per-evaluation context.
type evaluator struct {
	functions *vm.FunctionRegistry
	compiler  *compile.Compiler
	machine   *vm.VM
}

func newEvaluator(functions *vm.FunctionRegistry) *evaluator {
	if functions == nil {
		functions = vm.NewRegistry()
	}
	return &evaluator{
		functions: functions,
		compiler:  compile.New(compile.LevelBasic, functions),
		machine:   vm.New(functions),
	}
}

// Evaluate reports whether cond holds against ctx: every slot condition,
// every expression condition, and the composite (if any) must all be
// satisfied (a logical AND across condition kinds), matching the
// "Combined" semantics of the original rule engine's CompiledCondition.
func (ev *evaluator) Evaluate(cond *CompiledCondition, ctx map[string]value.Value) (bool, error) {
	if cond == nil {
		return true, nil
	}
	for name, sc := range cond.SlotConditions {
		ok, err := ev.evalSlotCondition(sc, ctx[name], ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	for _, node := range cond.ExpressionConditions {
		prog, err := ev.compiler.Compile(node)
		if err != nil {
			return false, err
		}
		result, err := ev.machine.Execute(prog, ctx)
		if err != nil {
			return false, err
		}
		if !result.Truthy() {
			return false, nil
		}
	}
	if cond.Composite != nil {
		ok, err := ev.evalComposite(cond.Composite, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (ev *evaluator) evalComposite(c *CompiledCompositeCondition, ctx map[string]value.Value) (bool, error) {
	switch {
	case len(c.AnyOf) > 0:
		for _, sub := range c.AnyOf {
			ok, err := ev.Evaluate(sub, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case len(c.AllOf) > 0:
		for _, sub := range c.AllOf {
			ok, err := ev.Evaluate(sub, ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case len(c.ExactlyOneOf) > 0:
		count := 0
		for _, sub := range c.ExactlyOneOf {
			ok, err := ev.Evaluate(sub, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				count++
			}
		}
		return count == 1, nil
	case len(c.NoneOf) > 0:
		for _, sub := range c.NoneOf {
			ok, err := ev.Evaluate(sub, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return false, nil
			}
		}
		return true, nil
	default:
		return true, nil
	}
}

func (ev *evaluator) evalSlotCondition(sc *CompiledSlotCondition, v value.Value, ctx map[string]value.Value) (bool, error) {
	c := sc.Original
	if c.Required != nil && *c.Required && v.IsNull() {
		return false, nil
	}
	if c.EqualsString != nil {
		if v.Kind() != value.KindString || v.Str() != *c.EqualsString {
			return false, nil
		}
	}
	if c.EqualsNumber != nil {
		want, err := strconv.ParseFloat(c.EqualsNumber.Literal, 64)
		if err != nil {
			return false, nil
		}
		if v.Kind() != value.KindInt && v.Kind() != value.KindFloat {
			return false, nil
		}
		if v.Float() != want {
			return false, nil
		}
	}
	if c.Pattern != "" {
		if v.Kind() != value.KindString {
			return false, nil
		}
		re, err := regexp2.Compile(c.Pattern, regexp2.None)
		if err != nil {
			return false, nil
		}
		matched, err := re.MatchString(v.Str())
		if err != nil || !matched {
			return false, nil
		}
	}
	if c.MinimumValue != nil {
		min, err := strconv.ParseFloat(c.MinimumValue.Literal, 64)
		if err == nil && (v.Kind() != value.KindInt && v.Kind() != value.KindFloat || v.Float() < min) {
			return false, nil
		}
	}
	if c.MaximumValue != nil {
		max, err := strconv.ParseFloat(c.MaximumValue.Literal, 64)
		if err == nil && (v.Kind() != value.KindInt && v.Kind() != value.KindFloat || v.Float() > max) {
			return false, nil
		}
	}
	if sc.EqualsExpressionAST != nil {
		prog, err := ev.compiler.Compile(sc.EqualsExpressionAST)
		if err != nil {
			return false, err
		}
		want, err := ev.machine.Execute(prog, ctx)
		if err != nil {
			return false, err
		}
		if !v.Equal(want) {
			return false, nil
		}
	}
	return true, nil
}

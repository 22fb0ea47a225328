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
	"fmt"
	"sort"
	"sync"

	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/value"
)

// Strategy selects how a class's rules are executed relative to one
// another.
type Strategy int

const (
	// Sequential runs rules one at a time in priority order (default).
	Sequential Strategy = iota
	// Parallel is accepted, but Evaluate runs rules one at a time in
	// priority order exactly as for Sequential.
	Parallel
	// FailFast stops at the first unsatisfied rule.
	FailFast
	// CollectAll runs every rule regardless of earlier failures.
	CollectAll
)

// Result reports the outcome of evaluating one compiled rule.
type Result struct {
	Rule      *schema.Rule
	Matched   bool // precondition held (or was absent)
	Satisfied bool // the branch taken (postcondition or else) held
	Branch    string // "then", "else", or "skipped"
}

// Engine compiles and evaluates the rules attached to schema classes.
type Engine struct {
	Strategy Strategy

	mu    sync.Mutex
	eval  *evaluator
	rules map[string][]*CompiledRule // class name -> rules, priority order
}

// NewEngine returns an Engine using functions as its expression function
// registry (nil selects the builtin set).
func NewEngine(functions *vm.FunctionRegistry) *Engine {
	return &Engine{eval: newEvaluator(functions), rules: map[string][]*CompiledRule{}}
}

// Compile compiles every rule on class and registers it under className,
// ordered by descending priority (ties keep declaration order, matching
// schema.Class.Rules' slice order — a stable sort).
func (e *Engine) Compile(className string, class *schema.Class) error {
	compiled := make([]*CompiledRule, 0, len(class.Rules))
	for _, r := range class.Rules {
		cr, err := CompileRule(r, className)
		if err != nil {
			return err
		}
		compiled = append(compiled, cr)
	}
	sort.SliceStable(compiled, func(i, j int) bool { return compiled[i].Priority > compiled[j].Priority })

	e.mu.Lock()
	e.rules[className] = compiled
	e.mu.Unlock()
	return nil
}

// Evaluate runs className's compiled rules against ctx in order, applying
// e.Strategy's fail-fast/collect-all behavior. slotNames seeds the
// expression context with every slot name defaulted to null (spec.md
// §4.4's "effective slots get null defaults before instance data
// overrides them").
func (e *Engine) Evaluate(className string, instance value.Value, slotNames []string) ([]Result, error) {
	e.mu.Lock()
	rules := e.rules[className]
	e.mu.Unlock()

	execCtx := NewExecutionContext(instance, className)
	results := make([]Result, 0, len(rules))

	for i, cr := range rules {
		if cr.Deactivated {
			results = append(results, Result{Rule: cr.Original, Matched: false, Satisfied: true, Branch: "skipped"})
			continue
		}
		id := fmt.Sprintf("%s#%d", className, i)
		if !execCtx.enter(id) {
			// I7: a rule already being evaluated may not be re-entered.
			results = append(results, Result{Rule: cr.Original, Matched: false, Satisfied: false, Branch: "skipped"})
			continue
		}

		ctx := execCtx.ExpressionContext(slotNames)
		matched, err := e.eval.Evaluate(cr.Precondition, ctx)
		if err != nil {
			execCtx.exit(id)
			return results, err
		}

		var satisfied bool
		var branch string
		if matched {
			satisfied, err = e.eval.Evaluate(cr.Postcondition, ctx)
			branch = "then"
		} else if cr.ElseCondition != nil {
			satisfied, err = e.eval.Evaluate(cr.ElseCondition, ctx)
			branch = "else"
		} else {
			satisfied = true
			branch = "skipped"
		}
		execCtx.exit(id)
		if err != nil {
			return results, err
		}

		if matched {
			execCtx.markMatched(cr.Original.Description)
		}
		results = append(results, Result{Rule: cr.Original, Matched: matched, Satisfied: satisfied, Branch: branch})

		if !satisfied && e.Strategy == FailFast {
			break
		}
	}
	return results, nil
}

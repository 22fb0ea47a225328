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

// Package rule compiles and evaluates class-scoped precondition/
// postcondition rules (spec.md §3.1, §4.4): slot conditions, expression
// conditions, and any_of/all_of/exactly_one_of/none_of composites,
// combined as a logical AND when more than one kind is present on the
// same RuleConditions.
package rule

import (
	"github.com/linkml-io/linkml-go/errors"
	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/expr/parser"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/token"
)

// CompiledRule is a schema.Rule with its conditions pre-parsed into
// expression ASTs, ready for repeated evaluation without re-parsing.
type CompiledRule struct {
	Original       *schema.Rule
	Precondition   *CompiledCondition
	Postcondition  *CompiledCondition
	ElseCondition  *CompiledCondition
	Priority       int
	SourceClass    string
	Deactivated    bool
}

// CompileRule compiles rule, which is scoped to sourceClass.
func CompileRule(r *schema.Rule, sourceClass string) (*CompiledRule, error) {
	pre, err := compileConditions(r.Preconditions)
	if err != nil {
		return nil, err
	}
	post, err := compileConditions(r.Postconditions)
	if err != nil {
		return nil, err
	}
	els, err := compileConditions(r.ElseConditions)
	if err != nil {
		return nil, err
	}
	return &CompiledRule{
		Original:      r,
		Precondition:  pre,
		Postcondition: post,
		ElseCondition: els,
		Priority:      r.Priority,
		SourceClass:   sourceClass,
		Deactivated:   r.Deactivated,
	}, nil
}

// CompiledCondition is the compiled form of a schema.RuleConditions: any
// combination of slot conditions, expression conditions, and a composite,
// evaluated as a logical AND across the kinds present.
type CompiledCondition struct {
	SlotConditions       map[string]*CompiledSlotCondition
	ExpressionConditions []ast.Node
	Composite            *CompiledCompositeCondition
}

func compileConditions(c *schema.RuleConditions) (*CompiledCondition, error) {
	if c == nil {
		return nil, nil
	}
	out := &CompiledCondition{}
	if len(c.SlotConditions) > 0 {
		out.SlotConditions = map[string]*CompiledSlotCondition{}
		for name, sc := range c.SlotConditions {
			compiled, err := compileSlotCondition(sc)
			if err != nil {
				return nil, err
			}
			out.SlotConditions[name] = compiled
		}
	}
	for _, src := range c.ExpressionConditions {
		node, err := parser.Parse(src, "<rule-condition>")
		if err != nil {
			return nil, errors.WithPos(errors.CodeRule, token.NoPos, "failed to parse expression condition %q: %s", src, err)
		}
		out.ExpressionConditions = append(out.ExpressionConditions, node)
	}
	if c.CompositeConditions != nil {
		composite, err := compileComposite(c.CompositeConditions)
		if err != nil {
			return nil, err
		}
		out.Composite = composite
	}
	return out, nil
}

// CompiledSlotCondition is a schema.SlotCondition with its
// equals_expression, if any, pre-parsed.
type CompiledSlotCondition struct {
	Original            *schema.SlotCondition
	EqualsExpressionAST ast.Node
}

func compileSlotCondition(c *schema.SlotCondition) (*CompiledSlotCondition, error) {
	out := &CompiledSlotCondition{Original: c}
	if c.EqualsExpression != "" {
		node, err := parser.Parse(c.EqualsExpression, "<slot-condition>")
		if err != nil {
			return nil, errors.WithPos(errors.CodeRule, token.NoPos, "failed to parse equals_expression %q: %s", c.EqualsExpression, err)
		}
		out.EqualsExpressionAST = node
	}
	return out, nil
}

// CompiledCompositeCondition is exactly one of AnyOf/AllOf/ExactlyOneOf/
// NoneOf, mirroring schema.CompositeConditions.
type CompiledCompositeCondition struct {
	AnyOf        []*CompiledCondition
	AllOf        []*CompiledCondition
	ExactlyOneOf []*CompiledCondition
	NoneOf       []*CompiledCondition
}

func compileComposite(c *schema.CompositeConditions) (*CompiledCompositeCondition, error) {
	out := &CompiledCompositeCondition{}
	var err error
	if out.AnyOf, err = compileConditionList(c.AnyOf); err != nil {
		return nil, err
	}
	if out.AllOf, err = compileConditionList(c.AllOf); err != nil {
		return nil, err
	}
	if out.ExactlyOneOf, err = compileConditionList(c.ExactlyOneOf); err != nil {
		return nil, err
	}
	if out.NoneOf, err = compileConditionList(c.NoneOf); err != nil {
		return nil, err
	}
	if len(out.AnyOf) == 0 && len(out.AllOf) == 0 && len(out.ExactlyOneOf) == 0 && len(out.NoneOf) == 0 {
		return nil, errors.WithPos(errors.CodeRule, token.NoPos, "composite conditions must have at least one condition type")
	}
	return out, nil
}

func compileConditionList(in []*schema.RuleConditions) ([]*CompiledCondition, error) {
	out := make([]*CompiledCondition, 0, len(in))
	for _, c := range in {
		compiled, err := compileConditions(c)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

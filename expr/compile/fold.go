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

package compile

import (
	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/value"
)

// foldableLiteral reports whether node is a plain (non-templated) literal
// and returns its folded Value.
func foldableLiteral(node ast.Node) (value.Value, bool) {
	lit, ok := node.(*ast.Literal)
	if !ok {
		return value.Null, false
	}
	if lit.Kind == ast.LitString && lit.Template != nil {
		return value.Null, false
	}
	return literalValue(lit), true
}

func foldUnary(op string, v value.Value) (value.Value, bool) {
	switch op {
	case "not":
		return value.Bool(!v.Truthy()), true
	case "-":
		if v.Kind() == value.KindInt {
			return value.Int(-v.Int()), true
		}
		if v.Kind() == value.KindFloat {
			return value.Float(-v.Float()), true
		}
	}
	return value.Null, false
}

// tryFoldBinary constant-folds n by running it through a throwaway VM when
// both operands are plain literals, reusing the VM's arithmetic/comparison
// semantics instead of duplicating them here.
func (c *Compiler) tryFoldBinary(n *ast.BinaryOp) (value.Value, bool) {
	left, ok := foldableLiteral(n.Left)
	if !ok {
		return value.Null, false
	}
	right, ok := foldableLiteral(n.Right)
	if !ok {
		return value.Null, false
	}
	op := vm.OpArith
	if isComparisonOp(n.Op) {
		op = vm.OpCmp
	}
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: left},
		{Op: vm.OpConst, Operand: right},
		{Op: op, Operand: n.Op},
		{Op: vm.OpReturn},
	}}
	result, err := vm.New(c.Functions).Execute(prog, nil)
	if err != nil {
		return value.Null, false
	}
	return result, true
}

// tryFoldCall inlines a call to a pure builtin whose arguments are all
// plain literals.
func (c *Compiler) tryFoldCall(n *ast.FunctionCall) (value.Value, bool) {
	fn, ok := c.Functions.Lookup(n.Name)
	if !ok || !fn.Pure || fn.Arity != len(n.Args) {
		return value.Null, false
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, ok := foldableLiteral(a)
		if !ok {
			return value.Null, false
		}
		args[i] = v
	}
	result, err := fn.Call(args)
	if err != nil {
		return value.Null, false
	}
	return result, true
}

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

// Package compile lowers an expression AST (package ast) into the stack
// bytecode executed by package vm (spec.md §4.3), with constant folding,
// short-circuit evaluation of `and`/`or`, and a complexity score used to
// gate interpreted-vs-compiled execution.
package compile

import (
	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/value"
)

// Level is an optimization level: higher levels fold and inline more
// aggressively, at the cost of compile time.
type Level int

const (
	// LevelNone emits bytecode with no folding. `and`/`or` are lowered to
	// short-circuiting jumps at this and every other level.
	LevelNone Level = iota
	// LevelBasic folds constant subexpressions.
	LevelBasic
	// LevelAggressive additionally inlines calls to pure builtins whose
	// arguments are all constants (in addition to everything LevelBasic
	// does).
	LevelAggressive
)

// Compiler lowers ast.Node trees into vm.Program values.
type Compiler struct {
	Level     Level
	Functions *vm.FunctionRegistry
}

// New returns a Compiler at the given optimization level. functions may be
// nil at LevelNone/LevelBasic; it is required at LevelAggressive to look up
// purity for call inlining.
func New(level Level, functions *vm.FunctionRegistry) *Compiler {
	return &Compiler{Level: level, Functions: functions}
}

// emitter accumulates instructions and tracks a running complexity score
// (one point per node compiled; a subtree folded to a constant is not
// descended into, so it counts as one point) that the engine compares
// against its compilation threshold.
type emitter struct {
	code       []vm.Instr
	complexity int
}

func (e *emitter) emit(i vm.Instr) int {
	e.code = append(e.code, i)
	return len(e.code) - 1
}

// Compile lowers node into a ready-to-execute Program.
func (c *Compiler) Compile(node ast.Node) (*vm.Program, error) {
	e := &emitter{}
	if err := c.compileNode(e, node); err != nil {
		return nil, err
	}
	e.emit(vm.Instr{Op: vm.OpReturn})
	return &vm.Program{Code: e.code, Complexity: e.complexity}, nil
}

func (c *Compiler) compileNode(e *emitter, node ast.Node) error {
	e.complexity++
	switch n := node.(type) {
	case *ast.Literal:
		return c.compileLiteral(e, n)
	case *ast.Variable:
		e.emit(vm.Instr{Op: vm.OpLoad, Operand: n.Name})
		return nil
	case *ast.MemberAccess:
		if err := c.compileNode(e, n.Target); err != nil {
			return err
		}
		e.emit(vm.Instr{Op: vm.OpGetMember, Operand: n.Field})
		return nil
	case *ast.UnaryOp:
		return c.compileUnary(e, n)
	case *ast.BinaryOp:
		return c.compileBinary(e, n)
	case *ast.FunctionCall:
		return c.compileCall(e, n)
	case *ast.Conditional:
		return c.compileConditional(e, n)
	default:
		return &CompileError{Msg: "unsupported expression node"}
	}
}

func (c *Compiler) compileLiteral(e *emitter, lit *ast.Literal) error {
	if lit.Kind == ast.LitString && lit.Template != nil {
		// A templated string is lowered to a chain of `+` concatenations
		// over its literal text runs and variable lookups, so the VM
		// never needs to know about templates at all.
		var parts []ast.Node
		for _, p := range lit.Template {
			if p.Var != "" {
				parts = append(parts, &ast.Variable{Name: p.Var})
			} else if p.Text != "" {
				parts = append(parts, &ast.Literal{Kind: ast.LitString, Str: p.Text})
			}
		}
		if len(parts) == 0 {
			e.emit(vm.Instr{Op: vm.OpConst, Operand: value.String("")})
			return nil
		}
		expr := parts[0]
		for _, p := range parts[1:] {
			expr = &ast.BinaryOp{Op: "+", Left: expr, Right: p}
		}
		return c.compileNode(e, expr)
	}
	e.emit(vm.Instr{Op: vm.OpConst, Operand: literalValue(lit)})
	return nil
}

func literalValue(lit *ast.Literal) value.Value {
	switch lit.Kind {
	case ast.LitNull:
		return value.Null
	case ast.LitBool:
		return value.Bool(lit.Bool)
	case ast.LitInt:
		return value.Int(lit.Int)
	case ast.LitFloat:
		return value.Float(lit.Flt)
	case ast.LitString:
		return value.String(lit.Str)
	default:
		return value.Null
	}
}

func (c *Compiler) compileUnary(e *emitter, n *ast.UnaryOp) error {
	if c.Level >= LevelBasic {
		if lit, ok := foldableLiteral(n.Operand); ok {
			folded, ok := foldUnary(n.Op, lit)
			if ok {
				e.emit(vm.Instr{Op: vm.OpConst, Operand: folded})
				return nil
			}
		}
	}
	if err := c.compileNode(e, n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case "not":
		e.emit(vm.Instr{Op: vm.OpNot})
	case "-":
		e.emit(vm.Instr{Op: vm.OpNeg})
	default:
		return &CompileError{Msg: "unknown unary operator " + n.Op}
	}
	return nil
}

// compileBinary lowers `and`/`or` to short-circuiting jumps (spec.md §4.3
// treats them as control flow, not eager boolean ops) and everything else
// to a single Arith/Cmp instruction, folding constant operands at
// LevelBasic and above.
func (c *Compiler) compileBinary(e *emitter, n *ast.BinaryOp) error {
	if n.Op == "and" || n.Op == "or" {
		return c.compileShortCircuit(e, n)
	}
	if c.Level >= LevelBasic {
		if folded, ok := c.tryFoldBinary(n); ok {
			e.emit(vm.Instr{Op: vm.OpConst, Operand: folded})
			return nil
		}
	}
	if err := c.compileNode(e, n.Left); err != nil {
		return err
	}
	if err := c.compileNode(e, n.Right); err != nil {
		return err
	}
	if isComparisonOp(n.Op) {
		e.emit(vm.Instr{Op: vm.OpCmp, Operand: n.Op})
	} else {
		e.emit(vm.Instr{Op: vm.OpArith, Operand: n.Op})
	}
	return nil
}

// compileShortCircuit lowers `and`/`or` so the right operand's bytecode is
// only reached when it's actually needed, and coerces both branches to a
// strict boolean via the double-Not truthy idiom.
func (c *Compiler) compileShortCircuit(e *emitter, n *ast.BinaryOp) error {
	if err := c.compileNode(e, n.Left); err != nil {
		return err
	}
	jumpToRight := e.emit(vm.Instr{Op: vm.OpJumpIfFalse, Operand: 0})
	if n.Op == "and" {
		// left was truthy: the result is truthy(right)
		if err := c.compileNode(e, n.Right); err != nil {
			return err
		}
		e.emit(vm.Instr{Op: vm.OpNot})
		e.emit(vm.Instr{Op: vm.OpNot})
	} else {
		// left was truthy: `or` short-circuits to true
		e.emit(vm.Instr{Op: vm.OpConst, Operand: value.Bool(true)})
	}
	jend := e.emit(vm.Instr{Op: vm.OpJump, Operand: 0})
	rightIdx := len(e.code)
	e.code[jumpToRight].Operand = rightIdx
	if n.Op == "and" {
		e.emit(vm.Instr{Op: vm.OpConst, Operand: value.Bool(false)})
	} else {
		if err := c.compileNode(e, n.Right); err != nil {
			return err
		}
		e.emit(vm.Instr{Op: vm.OpNot})
		e.emit(vm.Instr{Op: vm.OpNot})
	}
	e.code[jend].Operand = len(e.code)
	return nil
}

func (c *Compiler) compileCall(e *emitter, n *ast.FunctionCall) error {
	if c.Level >= LevelAggressive && c.Functions != nil {
		if folded, ok := c.tryFoldCall(n); ok {
			e.emit(vm.Instr{Op: vm.OpConst, Operand: folded})
			return nil
		}
	}
	for _, arg := range n.Args {
		if err := c.compileNode(e, arg); err != nil {
			return err
		}
	}
	e.emit(vm.Instr{Op: vm.OpCall, Operand: len(n.Args), Operand2: n.Name})
	return nil
}

// compileConditional lowers a Conditional node (compiler-internal only,
// never produced by the parser) to a jump pair identical in shape to an
// `and`/`or` lowering.
func (c *Compiler) compileConditional(e *emitter, n *ast.Conditional) error {
	if err := c.compileNode(e, n.Cond); err != nil {
		return err
	}
	jf := e.emit(vm.Instr{Op: vm.OpJumpIfFalse, Operand: 0})
	if err := c.compileNode(e, n.Then); err != nil {
		return err
	}
	jend := e.emit(vm.Instr{Op: vm.OpJump, Operand: 0})
	elseIdx := len(e.code)
	if err := c.compileNode(e, n.Else); err != nil {
		return err
	}
	e.code[jf].Operand = elseIdx
	e.code[jend].Operand = len(e.code)
	return nil
}

func isComparisonOp(op string) bool {
	switch op {
	case "=", "==", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

// CompileError reports a node the compiler does not know how to lower.
type CompileError struct{ Msg string }

func (e *CompileError) Error() string { return e.Msg }

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

package vm

import (
	"math"

	"github.com/linkml-io/linkml-go/value"
)

// maxStack bounds the VM's evaluation stack; an expression that would
// exceed it fails with ErrStackOverflow rather than growing unbounded
// (spec.md §4.3, §4.7's resource-monitor philosophy of fixed caps).
const maxStack = 256

// Program is a compiled expression ready for execution: linear bytecode
// plus the complexity score that package engine compares against its
// compilation threshold to classify the program in its metrics.
type Program struct {
	Code       []Instr
	Complexity int
}

// VM executes a compiled Program against an environment and function
// registry. A VM value is stateless between calls and safe for
// concurrent use; each Execute call gets its own stack.
type VM struct {
	Functions *FunctionRegistry
}

// New returns a VM using the given function registry.
func New(functions *FunctionRegistry) *VM {
	return &VM{Functions: functions}
}

// Execute runs prog against env (an identifier -> value environment) and
// returns the top-of-stack value left by OpReturn.
func (m *VM) Execute(prog *Program, env map[string]value.Value) (value.Value, error) {
	stack := make([]value.Value, 0, 16)
	push := func(v value.Value) error {
		if len(stack) >= maxStack {
			return newEvalError(ErrStackOverflow, "expression evaluation stack overflow")
		}
		stack = append(stack, v)
		return nil
	}
	pop := func() value.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	pc := 0
	for pc < len(prog.Code) {
		instr := prog.Code[pc]
		switch instr.Op {
		case OpConst:
			if err := push(instr.Operand.(value.Value)); err != nil {
				return value.Null, err
			}
		case OpLoad:
			name := instr.Operand.(string)
			v, ok := env[name]
			if !ok {
				return value.Null, newEvalError(ErrUnknownIdentifier, name)
			}
			if err := push(v); err != nil {
				return value.Null, err
			}
		case OpGetMember:
			obj := pop()
			field := instr.Operand.(string)
			if obj.Kind() != value.KindObject || obj.Object() == nil {
				return value.Null, newEvalError(ErrTypeError, "member access on non-object")
			}
			v, ok := obj.Object().Get(field)
			if !ok {
				v = value.Null
			}
			if err := push(v); err != nil {
				return value.Null, err
			}
		case OpCall:
			argc := instr.Operand.(int)
			name := instr.Operand2.(string)
			fn, ok := m.Functions.Lookup(name)
			if !ok {
				return value.Null, newEvalError(ErrUnknownFunction, name)
			}
			if fn.Arity != argc {
				return value.Null, newEvalError(ErrArity, name)
			}
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = pop()
			}
			result, err := fn.Call(args)
			if err != nil {
				if ee, ok := err.(*EvalError); ok {
					return value.Null, ee
				}
				return value.Null, newEvalError(ErrTypeError, err.Error())
			}
			if err := push(result); err != nil {
				return value.Null, err
			}
		case OpArith:
			b, a := pop(), pop()
			result, err := arith(instr.Operand.(string), a, b)
			if err != nil {
				return value.Null, err
			}
			if err := push(result); err != nil {
				return value.Null, err
			}
		case OpCmp:
			b, a := pop(), pop()
			result, err := compare(instr.Operand.(string), a, b)
			if err != nil {
				return value.Null, err
			}
			if err := push(result); err != nil {
				return value.Null, err
			}
		case OpNot:
			a := pop()
			if err := push(value.Bool(!a.Truthy())); err != nil {
				return value.Null, err
			}
		case OpNeg:
			a := pop()
			if a.Kind() == value.KindInt {
				if err := push(value.Int(-a.Int())); err != nil {
					return value.Null, err
				}
			} else if err := push(value.Float(-a.Float())); err != nil {
				return value.Null, err
			}
		case OpJumpIfFalse:
			a := pop()
			if !a.Truthy() {
				pc = instr.Operand.(int)
				continue
			}
		case OpJump:
			pc = instr.Operand.(int)
			continue
		case OpReturn:
			if len(stack) == 0 {
				return value.Null, nil
			}
			return pop(), nil
		}
		pc++
	}
	if len(stack) == 0 {
		return value.Null, nil
	}
	return pop(), nil
}

// arith implements `+ - * / %` with the numeric-semantics rule from
// spec.md §4.3: results stay int64 when both operands and the
// mathematical result are exactly representable as i64, otherwise the
// computation promotes to float64. String `+` is concatenation.
func arith(op string, a, b value.Value) (value.Value, error) {
	if op == "+" && a.Kind() == value.KindString && b.Kind() == value.KindString {
		return value.String(a.Str() + b.Str()), nil
	}
	if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
		x, y := a.Int(), b.Int()
		switch op {
		case "+":
			if s := x + y; (s > x) == (y > 0) {
				return value.Int(s), nil
			}
		case "-":
			if d := x - y; (d < x) == (y > 0) {
				return value.Int(d), nil
			}
		case "*":
			if p := x * y; x == 0 || (p/x == y && !(x == -1 && y == math.MinInt64)) {
				return value.Int(p), nil
			}
		case "/":
			if y == 0 {
				return value.Null, newEvalError(ErrDivisionByZero, "integer division by zero")
			}
			if x%y == 0 && !(x == math.MinInt64 && y == -1) {
				return value.Int(x / y), nil
			}
			return value.Float(float64(x) / float64(y)), nil
		case "%":
			if y == 0 {
				return value.Null, newEvalError(ErrDivisionByZero, "integer modulo by zero")
			}
			return value.Int(x % y), nil
		}
	}
	x, y := a.Float(), b.Float()
	switch op {
	case "+":
		return value.Float(x + y), nil
	case "-":
		return value.Float(x - y), nil
	case "*":
		return value.Float(x * y), nil
	case "/":
		if y == 0 {
			return value.Null, newEvalError(ErrDivisionByZero, "division by zero")
		}
		return value.Float(x / y), nil
	case "%":
		if y == 0 {
			return value.Null, newEvalError(ErrDivisionByZero, "modulo by zero")
		}
		return value.Float(float64(int64(x) % int64(y))), nil
	}
	return value.Null, newEvalError(ErrTypeError, "unsupported arithmetic operator "+op)
}

func compare(op string, a, b value.Value) (value.Value, error) {
	switch op {
	case "=", "==":
		return value.Bool(a.Equal(b)), nil
	case "!=":
		return value.Bool(!a.Equal(b)), nil
	}
	if (a.Kind() != value.KindInt && a.Kind() != value.KindFloat) ||
		(b.Kind() != value.KindInt && b.Kind() != value.KindFloat) {
		if a.Kind() == value.KindString && b.Kind() == value.KindString {
			return compareStrings(op, a.Str(), b.Str())
		}
		return value.Null, newEvalError(ErrTypeError, "ordering comparison requires numbers or strings")
	}
	x, y := a.Float(), b.Float()
	switch op {
	case "<":
		return value.Bool(x < y), nil
	case "<=":
		return value.Bool(x <= y), nil
	case ">":
		return value.Bool(x > y), nil
	case ">=":
		return value.Bool(x >= y), nil
	}
	return value.Null, newEvalError(ErrTypeError, "unsupported comparison operator "+op)
}

func compareStrings(op, a, b string) (value.Value, error) {
	switch op {
	case "<":
		return value.Bool(a < b), nil
	case "<=":
		return value.Bool(a <= b), nil
	case ">":
		return value.Bool(a > b), nil
	case ">=":
		return value.Bool(a >= b), nil
	}
	return value.Null, newEvalError(ErrTypeError, "unsupported comparison operator "+op)
}

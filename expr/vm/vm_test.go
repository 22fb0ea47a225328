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

package vm_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/value"
)

func TestExecuteArithIntegerPreserved(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(4)},
		{Op: vm.OpConst, Operand: value.Int(2)},
		{Op: vm.OpArith, Operand: "/"},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Kind(), value.KindInt))
	qt.Assert(t, qt.Equals(result.Int(), int64(2)))
}

func TestExecuteArithDivisionPromotesToFloat(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(7)},
		{Op: vm.OpConst, Operand: value.Int(2)},
		{Op: vm.OpArith, Operand: "/"},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Kind(), value.KindFloat))
	qt.Assert(t, qt.Equals(result.Float(), 3.5))
}

func TestExecuteDivisionByZero(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(1)},
		{Op: vm.OpConst, Operand: value.Int(0)},
		{Op: vm.OpArith, Operand: "/"},
		{Op: vm.OpReturn},
	}}
	_, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNotNil(err))
	ee, ok := err.(*vm.EvalError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ee.Kind, vm.ErrDivisionByZero))
}

func TestExecuteLoadUnknownIdentifier(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpLoad, Operand: "missing"},
		{Op: vm.OpReturn},
	}}
	_, err := m.Execute(prog, map[string]value.Value{})
	ee, ok := err.(*vm.EvalError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ee.Kind, vm.ErrUnknownIdentifier))
}

func TestExecuteCallBuiltin(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.String("hello")},
		{Op: vm.OpCall, Operand: 1, Operand2: "upper"},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Str(), "HELLO"))
}

func TestExecuteCallUnknownFunction(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(1)},
		{Op: vm.OpCall, Operand: 1, Operand2: "nope"},
		{Op: vm.OpReturn},
	}}
	_, err := m.Execute(prog, nil)
	ee, ok := err.(*vm.EvalError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ee.Kind, vm.ErrUnknownFunction))
}

func TestExecuteCallArityMismatch(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(1)},
		{Op: vm.OpCall, Operand: 2, Operand2: "abs"},
		{Op: vm.OpReturn},
	}}
	_, err := m.Execute(prog, nil)
	ee, ok := err.(*vm.EvalError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ee.Kind, vm.ErrArity))
}

func TestExecuteJumpIfFalseSkipsBranch(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	// if false then 1 else 2
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Bool(false)},
		{Op: vm.OpJumpIfFalse, Operand: 4},
		{Op: vm.OpConst, Operand: value.Int(1)},
		{Op: vm.OpJump, Operand: 5},
		{Op: vm.OpConst, Operand: value.Int(2)},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Int(), int64(2)))
}

func TestExecuteGetMember(t *testing.T) {
	obj := value.NewObject()
	obj.Set("name", value.String("ada"))
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpLoad, Operand: "person"},
		{Op: vm.OpGetMember, Operand: "name"},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, map[string]value.Value{"person": value.Obj(obj)})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Str(), "ada"))
}

func TestExecuteStackOverflow(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	code := make([]vm.Instr, 0, 300)
	for i := 0; i < 300; i++ {
		code = append(code, vm.Instr{Op: vm.OpConst, Operand: value.Int(1)})
	}
	code = append(code, vm.Instr{Op: vm.OpReturn})
	prog := &vm.Program{Code: code}
	_, err := m.Execute(prog, nil)
	ee, ok := err.(*vm.EvalError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ee.Kind, vm.ErrStackOverflow))
}

func TestExecuteEqualityCrossKindNumeric(t *testing.T) {
	m := vm.New(vm.NewRegistry())
	prog := &vm.Program{Code: []vm.Instr{
		{Op: vm.OpConst, Operand: value.Int(1)},
		{Op: vm.OpConst, Operand: value.Float(1.0)},
		{Op: vm.OpCmp, Operand: "=="},
		{Op: vm.OpReturn},
	}}
	result, err := m.Execute(prog, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(result.Bool()))
}

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
	"strings"

	"github.com/linkml-io/linkml-go/value"
)

// Function describes one builtin callable by name from an expression.
// Arity is the exact argument count the function accepts; Pure functions
// may be constant-folded by the compiler and are the only functions
// permitted during default-value expression evaluation (spec.md §4.3:
// "impure functions may be rejected when evaluation is used for
// defaults").
type Function struct {
	Name  string
	Arity int
	Pure  bool
	Call  func(args []value.Value) (value.Value, error)
}

// FunctionRegistry is the set of functions available to an expression.
// A registry from NewRegistry comes pre-populated with the builtin
// functions; callers may register additional ones. The zero value has no
// function map, so build registries with NewRegistry.
type FunctionRegistry struct {
	funcs map[string]*Function
}

// NewRegistry returns a FunctionRegistry seeded with the builtin pure
// functions: len, upper, lower, trim, concat, abs, round, contains,
// starts_with, ends_with.
func NewRegistry() *FunctionRegistry {
	r := &FunctionRegistry{funcs: map[string]*Function{}}
	for _, fn := range builtins {
		r.Register(fn)
	}
	return r
}

// Register adds or replaces a function in the registry.
func (r *FunctionRegistry) Register(fn *Function) { r.funcs[fn.Name] = fn }

// Lookup returns the named function, or (nil, false) if unknown.
func (r *FunctionRegistry) Lookup(name string) (*Function, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

var builtins = []*Function{
	{Name: "len", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		switch a[0].Kind() {
		case value.KindString:
			return value.Int(int64(len(a[0].Str()))), nil
		case value.KindList:
			return value.Int(int64(len(a[0].List()))), nil
		case value.KindObject:
			return value.Int(int64(a[0].Object().Len())), nil
		default:
			return value.Null, &TypeError{Msg: "len() requires a string, list, or object"}
		}
	}},
	{Name: "upper", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.String(strings.ToUpper(a[0].Str())), nil
	}},
	{Name: "lower", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.String(strings.ToLower(a[0].Str())), nil
	}},
	{Name: "trim", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.String(strings.TrimSpace(a[0].Str())), nil
	}},
	{Name: "concat", Arity: 2, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.String(a[0].Str() + a[1].Str()), nil
	}},
	{Name: "abs", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		if a[0].Kind() == value.KindInt {
			v := a[0].Int()
			if v < 0 {
				v = -v
			}
			return value.Int(v), nil
		}
		return value.Float(math.Abs(a[0].Float())), nil
	}},
	{Name: "round", Arity: 1, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.Int(int64(math.Round(a[0].Float()))), nil
	}},
	{Name: "contains", Arity: 2, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.Contains(a[0].Str(), a[1].Str())), nil
	}},
	{Name: "starts_with", Arity: 2, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.HasPrefix(a[0].Str(), a[1].Str())), nil
	}},
	{Name: "ends_with", Arity: 2, Pure: true, Call: func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.HasSuffix(a[0].Str(), a[1].Str())), nil
	}},
}

// TypeError is a VM/evaluator type mismatch (EvalError::TypeError in
// spec.md §4.3).
type TypeError struct{ Msg string }

func (e *TypeError) Error() string { return e.Msg }

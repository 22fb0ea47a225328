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

// Package ast defines the expression-language syntax tree (spec.md §4.3):
// Literal, Variable, MemberAccess, BinaryOp, UnaryOp, FunctionCall, and
// Conditional nodes, plus string-template substitution.
package ast

import "github.com/linkml-io/linkml-go/token"

// Node is implemented by every expression AST node.
type Node interface {
	Pos() token.Position
	exprNode()
}

type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }
func (base) exprNode()             {}

// LiteralKind distinguishes the literal forms the parser produces.
type LiteralKind int

const (
	LitNull LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitString // may contain {name} interpolation segments, see Template
)

// Literal is a constant value: null, true/false, a number, or a string
// (possibly templated).
type Literal struct {
	base
	Kind LiteralKind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
	// Template holds the parsed {var} interpolation segments when Kind ==
	// LitString and the source contained at least one "{...}"; nil
	// otherwise, so plain strings skip interpolation entirely.
	Template []TemplatePart
}

// TemplatePart is one piece of an interpolated string literal: either a
// literal Text run, or a Var to substitute at evaluation time.
type TemplatePart struct {
	Text string
	Var  string // non-empty means "substitute context[Var]"
}

// Variable is an identifier reference resolved against the evaluation
// context.
type Variable struct {
	base
	Name string
}

// MemberAccess is `Target.Field`.
type MemberAccess struct {
	base
	Target Node
	Field  string
}

// BinaryOp is `Left Op Right` for arithmetic, comparison, and boolean
// connectives.
type BinaryOp struct {
	base
	Op    string // + - * / % = == != < <= > >= and or
	Left  Node
	Right Node
}

// UnaryOp is `Op Operand`, currently only `not` and unary `-`.
type UnaryOp struct {
	base
	Op      string
	Operand Node
}

// FunctionCall is `Name(Args...)`.
type FunctionCall struct {
	base
	Name string
	Args []Node
}

// Conditional is a ternary `cond ? then : else`-shaped node, reserved for
// builtin functions that need one (e.g. an `if` builtin). The surface
// grammar has no `?:` syntax, so the parser never produces it, and the
// compiler lowers `and`/`or` to jumps directly rather than through it;
// package compile lowers a Conditional that a caller builds by hand.
type Conditional struct {
	base
	Cond Node
	Then Node
	Else Node
}

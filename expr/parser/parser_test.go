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

package parser_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/expr/parser"
)

func TestParsePrecedence(t *testing.T) {
	node, err := parser.Parse("1 + 2 * 3", "<expr>")
	qt.Assert(t, qt.IsNil(err))
	bin, ok := node.(*ast.BinaryOp)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(bin.Op, "+"))
	right, ok := bin.Right.(*ast.BinaryOp)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(right.Op, "*"))
}

func TestParseMemberAccessAndCall(t *testing.T) {
	node, err := parser.Parse("len(a.b.c)", "<expr>")
	qt.Assert(t, qt.IsNil(err))
	call, ok := node.(*ast.FunctionCall)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(call.Name, "len"))
	qt.Assert(t, qt.HasLen(call.Args, 1))

	member, ok := call.Args[0].(*ast.MemberAccess)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(member.Field, "c"))
}

func TestParseBooleanAndNot(t *testing.T) {
	node, err := parser.Parse("not a and b or c", "<expr>")
	qt.Assert(t, qt.IsNil(err))
	top, ok := node.(*ast.BinaryOp)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(top.Op, "or"))
}

func TestParseStringTemplate(t *testing.T) {
	node, err := parser.Parse(`"hello {name}!"`, "<expr>")
	qt.Assert(t, qt.IsNil(err))
	lit, ok := node.(*ast.Literal)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(lit.Template, 3))
	qt.Assert(t, qt.Equals(lit.Template[1].Var, "name"))
}

func TestParseUnexpectedTrailing(t *testing.T) {
	_, err := parser.Parse("1 + 2 3", "<expr>")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := parser.Parse(`"abc`, "<expr>")
	qt.Assert(t, qt.IsNotNil(err))
}

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

package parser

import (
	"strconv"
	"strings"

	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/token"
)

// precedence table, low to high; and/or bind loosest, member access/calls
// tightest (handled separately as postfix operators in parsePostfix).
var binPrec = map[string]int{
	"or":  1,
	"and": 2,
	"=":   3, "==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

// Parse parses source into an expression AST. source names the input for
// error positions (e.g. "<expression>" or a schema path).
func Parse(src, source string) (ast.Node, error) {
	p := &parser{lex: newLexer(source, src), source: source}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokEOF {
		return nil, &ParseError{Pos: p.tok.Pos, Msg: "unexpected trailing input: " + p.tok.Lit}
	}
	return node, nil
}

type parser struct {
	lex    *lexer
	source string
	tok    Token
}

func (p *parser) advance() error {
	t, err := p.lex.Scan()
	if err != nil {
		le := err.(*LexError)
		return &ParseError{Pos: le.Pos, Msg: le.Msg}
	}
	p.tok = t
	return nil
}

// parseExpr implements precedence-climbing (a standard Pratt parser
// shape): parse a unary/primary term, then keep consuming binary operators
// whose precedence is >= minPrec, parsing each right operand with the
// operator's own precedence + 1 for left associativity.
func (p *parser) parseExpr(minPrec int) (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) peekBinOp() (op string, prec int, ok bool) {
	switch p.tok.Kind {
	case TokAnd:
		return "and", binPrec["and"], true
	case TokOr:
		return "or", binPrec["or"], true
	case TokOp:
		prec, ok := binPrec[p.tok.Lit]
		return p.tok.Lit, prec, ok
	}
	return "", 0, false
}

func (p *parser) parseUnary() (ast.Node, error) {
	switch {
	case p.tok.Kind == TokNot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "not", Operand: operand}, nil
	case p.tok.Kind == TokOp && p.tok.Lit == "-":
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "-", Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any number of
// `.field` member accesses and `(args)` calls.
func (p *parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Kind {
		case TokDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != TokIdent {
				return nil, &ParseError{Pos: p.tok.Pos, Msg: "expected field name after '.'"}
			}
			field := p.tok.Lit
			if err := p.advance(); err != nil {
				return nil, err
			}
			node = &ast.MemberAccess{Target: node, Field: field}
		case TokLParen:
			name, ok := identOf(node)
			if !ok {
				return nil, &ParseError{Pos: p.tok.Pos, Msg: "call target must be a plain identifier"}
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &ast.FunctionCall{Name: name, Args: args}
		default:
			return node, nil
		}
	}
}

func identOf(n ast.Node) (string, bool) {
	v, ok := n.(*ast.Variable)
	if !ok {
		return "", false
	}
	return v.Name, true
}

func (p *parser) parseArgs() ([]ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Node
	if p.tok.Kind == TokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return args, nil
	}
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.tok.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.tok.Kind != TokRParen {
		return nil, &ParseError{Pos: p.tok.Pos, Msg: "expected ')'"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokRParen {
			return nil, &ParseError{Pos: p.tok.Pos, Msg: "expected ')'"}
		}
		return node, p.advance()
	case TokIdent:
		name := p.tok.Lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Variable{Name: name}, nil
	case TokInt:
		lit := p.tok.Lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: pos, Msg: "invalid integer literal: " + lit}
		}
		return &ast.Literal{Kind: ast.LitInt, Int: n}, nil
	case TokFloat:
		lit := p.tok.Lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, &ParseError{Pos: pos, Msg: "invalid float literal: " + lit}
		}
		return &ast.Literal{Kind: ast.LitFloat, Flt: f}, nil
	case TokString:
		lit := p.tok.Lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitString, Str: lit, Template: parseTemplate(lit)}, nil
	case TokTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBool, Bool: true}, nil
	case TokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBool, Bool: false}, nil
	case TokNull:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitNull}, nil
	}
	return nil, &ParseError{Pos: pos, Msg: "unexpected token: " + p.tok.Lit}
}

// parseTemplate splits a string literal into literal-text/variable
// segments for `{name}` interpolation (spec.md §4.3). Returns nil if the
// string contains no "{", so plain strings skip interpolation entirely.
func parseTemplate(s string) []ast.TemplatePart {
	if !strings.Contains(s, "{") {
		return nil
	}
	var parts []ast.TemplatePart
	var text strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '{' {
			if end := strings.IndexByte(s[i:], '}'); end >= 0 {
				if text.Len() > 0 {
					parts = append(parts, ast.TemplatePart{Text: text.String()})
					text.Reset()
				}
				parts = append(parts, ast.TemplatePart{Var: s[i+1 : i+end]})
				i += end + 1
				continue
			}
		}
		text.WriteByte(s[i])
		i++
	}
	if text.Len() > 0 {
		parts = append(parts, ast.TemplatePart{Text: text.String()})
	}
	return parts
}

// ParseError is a syntax error at a specific source position.
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string { return e.Pos.String() + ": " + e.Msg }

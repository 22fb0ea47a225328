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

// Package errors defines the shared error taxonomy used across the schema
// parser, the expression/rule subsystem, and schema resolution (§7 of the
// specification: ParseError and SchemaError are constructed through this
// package; package config returns plain errors, so no error carries
// CodeConfiguration). ValidationIssue is deliberately not an
// error and does not live here — see package validate.
package errors

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/linkml-io/linkml-go/token"
)

// New is a convenience wrapper for [errors.New]. It does not return an Error.
func New(msg string) error { return errors.New(msg) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Message implements the error interface while keeping the format string
// and arguments available for later consumption (e.g. re-rendering with a
// relative path).
type Message struct {
	format string
	args   []interface{}
}

// Newf creates a Message for human consumption.
func Newf(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

// Msg returns the unformatted message and its arguments.
func (m *Message) Msg() (format string, args []interface{}) { return m.format, m.args }

func (m *Message) Error() string { return fmt.Sprintf(m.format, m.args...) }

// Error is the common error interface for parse-time and schema-resolution
// failures. It carries a position and a path into the schema/data tree so
// callers can point at the offending element without string-parsing the
// message.
type Error interface {
	// Position returns the primary source position of the error, if any.
	Position() token.Position
	// Path returns the path into the schema or data tree, if applicable.
	Path() []string
	// Error reports the error message without position information.
	Error() string
	// Msg returns the unformatted message and its arguments.
	Msg() (format string, args []interface{})
}

// Code is a stable, opaque error-taxonomy tag distinct from the per-issue
// validator codes in §6.5 (those describe validation issues, not errors).
type Code string

const (
	CodeConfiguration Code = "configuration"
	CodeParse         Code = "parse"
	CodeSchema        Code = "schema"
	CodeEval          Code = "eval"
	CodeRule          Code = "rule"
	CodeResource      Code = "resource"
)

var _ Error = &posError{}

type posError struct {
	pos  token.Position
	code Code
	path []string
	Message
}

func (e *posError) Path() []string          { return e.path }
func (e *posError) Position() token.Position { return e.pos }

// Code returns the error-taxonomy tag for this error, if it was constructed
// through this package.
func (e *posError) Code() Code { return e.code }

// WithPos creates a positioned Error of the given taxonomy code.
func WithPos(code Code, p token.Position, format string, args ...interface{}) Error {
	return &posError{pos: p, code: code, Message: Newf(format, args...)}
}

// WithPath creates a positioned, path-qualified Error of the given
// taxonomy code.
func WithPath(code Code, p token.Position, path []string, format string, args ...interface{}) Error {
	return &posError{pos: p, code: code, path: path, Message: Newf(format, args...)}
}

// Wrap creates a new Error where child is a subordinate error of parent. If
// child is itself a List, parent is attached to every element.
func Wrap(parent Error, child error) Error {
	if child == nil {
		return parent
	}
	if l, ok := child.(List); ok {
		out := make(List, len(l))
		for i, e := range l {
			out[i] = &wrapped{parent, e}
		}
		return out
	}
	return &wrapped{parent, child}
}

type wrapped struct {
	main Error
	wrap error
}

func (e *wrapped) Error() string {
	switch msg := e.main.Error(); {
	case e.wrap == nil:
		return msg
	case msg == "":
		return e.wrap.Error()
	default:
		return fmt.Sprintf("%s: %s", msg, e.wrap)
	}
}

func (e *wrapped) Is(target error) bool  { return Is(e.main, target) }
func (e *wrapped) As(target interface{}) bool { return As(e.main, target) }
func (e *wrapped) Msg() (string, []interface{}) { return e.main.Msg() }

func (e *wrapped) Path() []string {
	if p := e.main.Path(); p != nil {
		return p
	}
	if pe, ok := e.wrap.(Error); ok {
		return pe.Path()
	}
	return nil
}

func (e *wrapped) Position() token.Position {
	if p := e.main.Position(); p.IsValid() {
		return p
	}
	if pe, ok := e.wrap.(Error); ok {
		return pe.Position()
	}
	return token.NoPos
}

func (e *wrapped) Unwrap() error { return e.wrap }

// Promote converts a plain error into an Error, wrapping it with msg if it
// isn't one already.
func Promote(err error, msg string) Error {
	if e, ok := err.(Error); ok {
		return e
	}
	return Wrap(&posError{Message: Newf("%s", msg)}, err)
}

// List is a list of Errors. The zero value is an empty, ready-to-use list.
type List []Error

func (p List) Is(target error) bool {
	for _, e := range p {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

func (p List) As(target interface{}) bool {
	for _, e := range p {
		if errors.As(e, target) {
			return true
		}
	}
	return false
}

// Add appends err to the list, flattening nested Lists.
func (p *List) Add(err Error) {
	if err == nil {
		return
	}
	if l, ok := err.(List); ok {
		*p = append(*p, l...)
		return
	}
	*p = append(*p, err)
}

// AddNewf appends a new positioned error to the list.
func (p *List) AddNewf(pos token.Position, format string, args ...interface{}) {
	*p = append(*p, &posError{pos: pos, Message: Newf(format, args...)})
}

// Err returns an error equivalent to this list, or nil if it is empty.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

func (p List) Error() string {
	format, args := p.Msg()
	return fmt.Sprintf(format, args...)
}

func (p List) Msg() (format string, args []interface{}) {
	switch len(p) {
	case 0:
		return "no errors", nil
	case 1:
		return p[0].Msg()
	}
	return "%s (and %d more errors)", []interface{}{p[0], len(p) - 1}
}

func (p List) Position() token.Position {
	if len(p) == 0 {
		return token.NoPos
	}
	return p[0].Position()
}

func (p List) Path() []string {
	if len(p) == 0 {
		return nil
	}
	return p[0].Path()
}

// Sort orders a List by position, then path, then message.
func (p List) Sort() {
	slices.SortFunc(p, func(a, b Error) int {
		if c := token.Compare(a.Position(), b.Position()); c != 0 {
			return c
		}
		if c := slices.Compare(a.Path(), b.Path()); c != 0 {
			return c
		}
		return cmp.Compare(a.Error(), b.Error())
	})
}

// Sanitize sorts and de-duplicates a List on a best-effort basis. A
// single-error or empty List is returned unchanged.
func Sanitize(err Error) Error {
	if err == nil {
		return nil
	}
	l, ok := err.(List)
	if !ok {
		return err
	}
	a := slices.Clone(l)
	a.Sort()
	a = slices.CompactFunc(a, func(x, y Error) bool {
		return x.Position() == y.Position() && slices.Compare(x.Path(), y.Path()) == 0 && x.Error() == y.Error()
	})
	if len(a) == 1 {
		return a[0]
	}
	return a
}

// Print writes err (flattened if it is a List) to w, one error per line.
func Print(w io.Writer, err error) {
	for _, e := range List(flatten(err)) {
		writeErr(w, e)
	}
}

// Details renders Print's output as a string.
func Details(err error) string {
	var b strings.Builder
	Print(&b, err)
	return b.String()
}

func flatten(err error) List {
	if err == nil {
		return nil
	}
	if l, ok := err.(List); ok {
		return l
	}
	if e, ok := err.(Error); ok {
		return List{e}
	}
	return List{Promote(err, "")}
}

func writeErr(w io.Writer, err Error) {
	if path := strings.Join(err.Path(), "."); path != "" {
		io.WriteString(w, path)
		io.WriteString(w, ": ")
	}
	io.WriteString(w, err.Error())
	if pos := err.Position(); pos.IsValid() {
		fmt.Fprintf(w, " (%s)", pos)
	}
	io.WriteString(w, "\n")
}

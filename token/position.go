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

// Package token holds source position information shared by the schema
// parser and the expression parser.
package token

import "fmt"

// Position describes an arbitrary, printable source position: a byte
// offset plus 1-based line and column, optionally within a named source
// (a schema file path, or "<expression>" for an inline expression string).
//
// A Position is valid if Line > 0.
type Position struct {
	Source string
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position is valid.
func (pos Position) IsValid() bool { return pos.Line > 0 }

// String renders the position as "source:line:column", "line:column", or
// "-" if invalid.
func (pos Position) String() string {
	s := pos.Source
	if pos.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// NoPos is the zero value for Position; it is invalid by definition.
var NoPos = Position{}

// Pos is kept as an alias for symmetry with the teacher's token package.
// Unlike cuelang.org/go/cue/token.Pos, which is a compact index into a
// shared *File registry (needed for CUE's multi-file, incrementally
// reparsed build graph), schema and expression sources here are evaluated
// as standalone strings, so Pos is simply Position itself.
type Pos = Position

// Compare orders two positions by source name, then offset. An invalid
// position sorts before any valid one.
func Compare(a, b Position) int {
	if !a.IsValid() && !b.IsValid() {
		return 0
	}
	if !a.IsValid() {
		return -1
	}
	if !b.IsValid() {
		return 1
	}
	if a.Source != b.Source {
		if a.Source < b.Source {
			return -1
		}
		return 1
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	default:
		return 0
	}
}

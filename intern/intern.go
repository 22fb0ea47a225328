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

// Package intern provides a process-wide string interner used to shrink
// the memory footprint of large validation runs, where the same handful
// of validator names, error codes, and field paths recur across thousands
// of issues (spec.md §7, large-batch validation).
package intern

import "sync"

// ID identifies an interned string. The zero ID is never issued by Intern,
// so it doubles as an "unset" sentinel.
type ID uint32

// StringInterner deduplicates strings behind small integer IDs.
type StringInterner struct {
	mu      sync.RWMutex
	byValue map[string]ID
	values  []string // index 0 is unused, so ID 0 stays "unset"

	common CommonIDs
}

// CommonIDs are pre-interned so the six most common built-in validators
// (required, type, pattern, range, enum, cardinality) never pay an
// interning call for their own names or standard error codes. The other
// built-in validators' names are not pre-interned.
type CommonIDs struct {
	ErrorRequired       ID
	ErrorTypeMismatch   ID
	ErrorPatternMismatch ID
	ErrorRangeViolation ID
	ErrorEnumViolation  ID

	ValidatorRequired   ID
	ValidatorType       ID
	ValidatorPattern    ID
	ValidatorRange      ID
	ValidatorEnum       ID
	ValidatorCardinality ID
}

// New returns a StringInterner with CommonIDs pre-populated.
func New() *StringInterner {
	si := &StringInterner{byValue: map[string]ID{}, values: []string{""}}
	si.common = CommonIDs{
		ErrorRequired:        si.Intern("required_missing"),
		ErrorTypeMismatch:    si.Intern("type_mismatch"),
		ErrorPatternMismatch: si.Intern("pattern_mismatch"),
		ErrorRangeViolation:  si.Intern("range_violation"),
		ErrorEnumViolation:   si.Intern("enum_violation"),
		ValidatorRequired:    si.Intern("RequiredValidator"),
		ValidatorType:        si.Intern("TypeValidator"),
		ValidatorPattern:     si.Intern("PatternValidator"),
		ValidatorRange:       si.Intern("RangeValidator"),
		ValidatorEnum:        si.Intern("EnumValidator"),
		ValidatorCardinality: si.Intern("CardinalityValidator"),
	}
	return si
}

// Common returns the pre-interned IDs for frequently used strings.
func (si *StringInterner) Common() CommonIDs { return si.common }

// Intern returns s's ID, assigning a new one on first sight.
func (si *StringInterner) Intern(s string) ID {
	si.mu.RLock()
	if id, ok := si.byValue[s]; ok {
		si.mu.RUnlock()
		return id
	}
	si.mu.RUnlock()

	si.mu.Lock()
	defer si.mu.Unlock()
	if id, ok := si.byValue[s]; ok {
		return id
	}
	id := ID(len(si.values))
	si.values = append(si.values, s)
	si.byValue[s] = id
	return id
}

// Get returns the string for id, or "" and false if id is unset or unknown.
func (si *StringInterner) Get(id ID) (string, bool) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	if id == 0 || int(id) >= len(si.values) {
		return "", false
	}
	return si.values[id], true
}

// MustGet returns the string for id, or "" if unknown.
func (si *StringInterner) MustGet(id ID) string {
	s, _ := si.Get(id)
	return s
}

// Stats summarizes the interner's current memory profile.
type Stats struct {
	TotalStrings  int
	TotalBytes    int
	AverageLength float64
}

// Stats computes a snapshot of the interner's contents.
func (si *StringInterner) Stats() Stats {
	si.mu.RLock()
	defer si.mu.RUnlock()
	var totalBytes int
	// index 0 is the unused "" sentinel, exclude it from the count.
	n := len(si.values) - 1
	for _, v := range si.values[1:] {
		totalBytes += len(v)
	}
	avg := 0.0
	if n > 0 {
		avg = float64(totalBytes) / float64(n)
	}
	return Stats{TotalStrings: n, TotalBytes: totalBytes, AverageLength: avg}
}

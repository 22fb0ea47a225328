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

// Package validators implements the eleven built-in instance validators
// named in spec.md §4.5: Type, Required, Cardinality, Pattern, Range,
// Enum, ConditionalRequirement, UniqueKey, CrossReference, RecursionDepth,
// and CustomValidator.
package validators

import (
	"sync"

	"github.com/linkml-io/linkml-go/internal/core/view"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/value"
)

// Context carries everything a Validator needs: the schema view, which
// class/slot is under test, the value(s) involved, and any state shared
// across the whole validation run (UniqueKey/CrossReference bookkeeping).
type Context struct {
	View      *view.SchemaView
	ClassName string
	Slot      *schema.Slot // nil for class-scoped validators
	Value     value.Value  // the slot value, or the instance for class-scoped validators
	Instance  value.Value  // the enclosing instance (== Value for class-scoped validators)
	Path      string
	Depth     int
	Trackers  *Trackers

	// InstanceIndex identifies this instance's position within an
	// engine.Engine.ValidateCollection call (0 for a lone Validate call, or
	// that call's ordinal among repeated calls against the same Engine).
	// UniqueKeyValidator reports it so a duplicate issue can name which two
	// instances collided (spec.md §4.5 point 4, scenario S2).
	InstanceIndex int
}

// Validator is implemented by every built-in and custom validator.
type Validator interface {
	Name() string
	Validate(ctx *Context) []validate.Issue
}

// Trackers holds mutable state shared across every Validate call in one
// validation run: UniqueKey's seen-key sets and CrossReference's known-
// identifier sets. A single Trackers must not be shared across concurrent
// unrelated validation runs.
type Trackers struct {
	mu        sync.Mutex
	seenIndex map[string]map[string]int  // "class\x00keyname" -> key value -> first-seen instance index
	knownIDs  map[string]map[string]bool // class -> identifier value -> seen
}

// NewTrackers returns empty, ready-to-use Trackers.
func NewTrackers() *Trackers {
	return &Trackers{seenIndex: map[string]map[string]int{}, knownIDs: map[string]map[string]bool{}}
}

// markSeen records that key was observed for bucket at instanceIndex,
// reporting the instance index that first saw key and whether that was a
// distinct, prior observation (dup). On key's first observation it returns
// (instanceIndex, false).
func (t *Trackers) markSeen(bucket, key string, instanceIndex int) (firstIndex int, dup bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.seenIndex[bucket]
	if !ok {
		set = map[string]int{}
		t.seenIndex[bucket] = set
	}
	first, seen := set[key]
	if !seen {
		set[key] = instanceIndex
		return instanceIndex, false
	}
	return first, true
}

// RegisterID records identifier id as belonging to class, for later
// CrossReference lookups.
func (t *Trackers) RegisterID(class, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.knownIDs[class]
	if !ok {
		set = map[string]bool{}
		t.knownIDs[class] = set
	}
	set[id] = true
}

// HasID reports whether id was registered for class.
func (t *Trackers) HasID(class, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.knownIDs[class][id]
}

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

// Package view provides SchemaView, a read-only, memoized façade over a
// resolve.Resolved schema (spec.md §4.1). The underlying schema is
// immutable once resolved, so every cache here is populate-once and never
// invalidated.
package view

import (
	"sort"
	"sync"

	"github.com/mpvl/unique"

	"github.com/linkml-io/linkml-go/internal/core/resolve"
	"github.com/linkml-io/linkml-go/schema"
)

// SchemaView exposes O(1)-amortized navigation over a resolved schema:
// ancestors/descendants, induced slots, a usage index, and a dependency
// graph. All public methods are safe for concurrent use.
type SchemaView struct {
	resolved *resolve.Resolved

	descendants *onceMap[[]string]
	usage       sync.Once
	usageIdx    UsageIndex
	depGraph    sync.Once
	depGraphVal map[string][]string
}

// New wraps a resolved schema in a SchemaView.
func New(resolved *resolve.Resolved) *SchemaView {
	return &SchemaView{
		resolved:    resolved,
		descendants: newOnceMap[[]string](),
	}
}

// Schema returns the underlying resolved schema's raw data.
func (v *SchemaView) Schema() *schema.Schema { return v.resolved.Schema }

// ClassAncestors returns name's ancestors, nearest-first, excluding name
// itself. The result is precomputed by resolve.Resolve and requires no
// further caching here.
func (v *SchemaView) ClassAncestors(name string) []string {
	return v.resolved.Ancestors[name]
}

// ClassDescendants returns every class that has name among its ancestors,
// computed lazily on first request and cached thereafter (publish-once,
// single-writer-per-key, per spec.md §4.1's concurrency note).
func (v *SchemaView) ClassDescendants(name string) []string {
	return v.descendants.getOrCompute(name, func() []string {
		var out []string
		for _, other := range v.resolved.Schema.ClassOrder {
			if other == name {
				continue
			}
			for _, a := range v.resolved.Ancestors[other] {
				if a == name {
					out = append(out, other)
					break
				}
			}
		}
		return out
	})
}

// ClassSlots returns the induced slot list for name in canonical order.
func (v *SchemaView) ClassSlots(name string) []*schema.Slot {
	return v.resolved.InducedSlots[name]
}

// InducedSlot returns the slot named slotName as seen by class name after
// slot_usage overrides, or nil if that class has no such slot.
func (v *SchemaView) InducedSlot(class, slotName string) *schema.Slot {
	for _, s := range v.resolved.InducedSlots[class] {
		if s.Name == slotName {
			return s
		}
	}
	return nil
}

// UsageIndex is the bidirectional index described in spec.md §4.1:
// SlotUsers maps a slot name to the classes that declare or inherit it;
// RangeUsers maps a class name to the classes that reference it as a
// slot's range.
type UsageIndex struct {
	SlotUsers  map[string][]string
	RangeUsers map[string][]string
}

// UsageIndex computes (once) and returns the schema's usage index.
func (v *SchemaView) UsageIndex() UsageIndex {
	v.usage.Do(func() {
		slotUsers := map[string][]string{}
		rangeUsers := map[string][]string{}
		for _, className := range v.resolved.Schema.ClassOrder {
			for _, s := range v.resolved.InducedSlots[className] {
				slotUsers[s.Name] = append(slotUsers[s.Name], className)
				if _, isClass := v.resolved.Schema.Classes[s.Range]; isClass {
					rangeUsers[s.Range] = append(rangeUsers[s.Range], className)
				}
			}
		}
		// Classes can reach the same slot/range through multiple paths
		// (declared directly and again via a mixin ancestor); the index is
		// a set, so mpvl/unique's sort-then-compact dedup is exactly right
		// here, unlike the first-occurrence-order merges in
		// internal/core/resolve.
		for k, list := range slotUsers {
			sort.Strings(list)
			unique.Strings(&list)
			slotUsers[k] = list
		}
		for k, list := range rangeUsers {
			sort.Strings(list)
			unique.Strings(&list)
			rangeUsers[k] = list
		}
		v.usageIdx = UsageIndex{SlotUsers: slotUsers, RangeUsers: rangeUsers}
	})
	return v.usageIdx
}

// DependencyGraph returns, for each class, the set of classes it depends
// on: its is_a parent, its mixins, and every class referenced as a slot
// range (spec.md §4.1).
func (v *SchemaView) DependencyGraph() map[string][]string {
	v.depGraph.Do(func() {
		graph := map[string][]string{}
		for _, name := range v.resolved.Schema.ClassOrder {
			class := v.resolved.Schema.Classes[name]
			var deps []string
			if class.IsA != "" {
				deps = append(deps, class.IsA)
			}
			deps = append(deps, class.Mixins...)
			for _, s := range v.resolved.InducedSlots[name] {
				if _, isClass := v.resolved.Schema.Classes[s.Range]; isClass {
					deps = append(deps, s.Range)
				}
			}
			sort.Strings(deps)
			unique.Strings(&deps)
			graph[name] = deps
		}
		v.depGraphVal = graph
	})
	return v.depGraphVal
}

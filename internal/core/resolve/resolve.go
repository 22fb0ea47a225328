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

// Package resolve turns a freshly parsed schema.Schema into a fully
// resolved form: an acyclic is_a graph, per-class induced slot lists with
// slot_usage overrides applied, and prefix-conflict/unknown-reference
// checking (spec.md §4.1).
package resolve

import (
	"github.com/linkml-io/linkml-go/errors"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/token"
)

// Resolved is the output of Resolve: the original schema plus, per class,
// its induced slot list in canonical order (I3).
type Resolved struct {
	Schema *schema.Schema

	// InducedSlots[class] is the canonical, override-applied slot list for
	// that class, in first-occurrence order.
	InducedSlots map[string][]*schema.Slot

	// Ancestors[class] excludes the class itself, nearest-first.
	Ancestors map[string][]string
	// MRO[class] is the is_a parent's MRO, then the class's own mixins in
	// declaration order, then the class itself (parent-before-mixins-
	// before-self). A mixin's own ancestors are not listed. InducedSlots is
	// built by merging slot lists directly, not from MRO.
	MRO map[string][]string
}

var errCode = errors.CodeSchema

// Resolve processes raw by is_a depth, computing induced slots, and
// returns a SchemaError list (as a single errors.List) on any of: an
// unknown is_a/mixin/range reference (I1, I2), an is_a cycle (I1), or a
// slot_usage override naming a slot the class doesn't have.
func Resolve(raw *schema.Schema) (*Resolved, error) {
	r := &resolver{
		schema:       raw,
		inducedSlots: map[string][]*schema.Slot{},
		ancestors:    map[string][]string{},
		mro:          map[string][]string{},
		state:        map[string]visitState{},
	}
	if err := r.checkPrefixes(); err != nil {
		return nil, err
	}
	for _, name := range raw.ClassOrder {
		if err := r.resolveClass(name, nil); err != nil {
			return nil, err
		}
	}
	if err := r.checkRanges(); err != nil {
		return nil, err
	}
	return &Resolved{
		Schema:       raw,
		InducedSlots: r.inducedSlots,
		Ancestors:    r.ancestors,
		MRO:          r.mro,
	}, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

type resolver struct {
	schema       *schema.Schema
	inducedSlots map[string][]*schema.Slot
	ancestors    map[string][]string
	mro          map[string][]string
	state        map[string]visitState
}

func schemaErr(code errors.Code, path []string, format string, args ...interface{}) error {
	return errors.WithPath(code, token.NoPos, path, format, args...)
}

func (r *resolver) checkPrefixes() error {
	var errs errors.List
	seen := map[string]bool{}
	for prefix := range r.schema.Prefixes {
		if seen[prefix] {
			errs.Add(schemaErr(errCode, []string{"prefixes", prefix}, "PrefixConflict: %s", prefix).(errors.Error))
		}
		seen[prefix] = true
	}
	return errs.Err()
}

// resolveClass computes the induced slot list for name, recursing into its
// is_a parent and mixins first. path tracks the current is_a chain for
// cycle detection (I1).
func (r *resolver) resolveClass(name string, path []string) error {
	switch r.state[name] {
	case done:
		return nil
	case visiting:
		cyclePath := append(append([]string{}, path...), name)
		return schemaErr(errCode, cyclePath, "Cycle: %v", cyclePath)
	}
	class, ok := r.schema.Classes[name]
	if !ok {
		return schemaErr(errCode, path, "UnknownReference: class %q", name)
	}
	r.state[name] = visiting
	path = append(path, name)

	var parentSlots []*schema.Slot
	var ancestors []string
	var mro []string
	if class.IsA != "" {
		if err := r.resolveClass(class.IsA, path); err != nil {
			return err
		}
		parentSlots = r.inducedSlots[class.IsA]
		ancestors = append(ancestors, class.IsA)
		ancestors = append(ancestors, r.ancestors[class.IsA]...)
		mro = append(mro, r.mro[class.IsA]...)
	}

	merged := append([]*schema.Slot{}, parentSlots...)
	for _, mixin := range class.Mixins {
		if err := r.resolveClass(mixin, path); err != nil {
			return err
		}
		merged = mergeSlots(merged, r.inducedSlots[mixin])
		if !contains(ancestors, mixin) {
			ancestors = append(ancestors, mixin)
		}
		for _, a := range r.ancestors[mixin] {
			if !contains(ancestors, a) {
				ancestors = append(ancestors, a)
			}
		}
		mro = append(mro, mixin)
	}

	declared, err := r.declaredSlots(class)
	if err != nil {
		return err
	}
	merged = mergeSlots(merged, declared)
	merged, err = r.applySlotUsage(class, merged)
	if err != nil {
		return err
	}

	r.inducedSlots[name] = merged
	r.ancestors[name] = ancestors
	r.mro[name] = append(mro, name)
	r.state[name] = done
	return nil
}

// declaredSlots resolves a class's own `slots:` list (looked up in the
// schema-level slot table) followed by its inline `attributes:`.
func (r *resolver) declaredSlots(class *schema.Class) ([]*schema.Slot, error) {
	var out []*schema.Slot
	for _, slotName := range class.Slots {
		if attr, ok := class.Attributes[slotName]; ok {
			out = append(out, attr)
			continue
		}
		slot, ok := r.schema.Slots[slotName]
		if !ok {
			return nil, schemaErr(errCode, []string{class.Name, "slots", slotName}, "UnknownReference: slot %q", slotName)
		}
		out = append(out, slot)
	}
	return out, nil
}

// applySlotUsage overlays class.SlotUsage onto a copy of merged, per I3
// ("slot_usage overrides applied last"); merged itself is not modified.
func (r *resolver) applySlotUsage(class *schema.Class, merged []*schema.Slot) ([]*schema.Slot, error) {
	if len(class.SlotUsage) == 0 {
		return merged, nil
	}
	index := map[string]int{}
	for i, s := range merged {
		index[s.Name] = i
	}
	out := append([]*schema.Slot{}, merged...)
	for slotName, override := range class.SlotUsage {
		i, ok := index[slotName]
		if !ok {
			return nil, schemaErr(errCode, []string{class.Name, "slot_usage", slotName}, "SlotUsageOnUnknownSlot: %s.%s", class.Name, slotName)
		}
		out[i] = overlaySlot(out[i], override)
	}
	return out, nil
}

// overlaySlot produces a new Slot combining base with any non-zero fields
// set on override.
func overlaySlot(base *schema.Slot, override *schema.Slot) *schema.Slot {
	merged := *base
	if override.Description != "" {
		merged.Description = override.Description
	}
	if override.Range != "" {
		merged.Range = override.Range
	}
	if override.Required != nil {
		merged.Required = override.Required
	}
	if override.Multivalued != nil {
		merged.Multivalued = override.Multivalued
	}
	if override.Identifier != nil {
		merged.Identifier = override.Identifier
	}
	if override.Pattern != "" {
		merged.Pattern = override.Pattern
	}
	if override.MinimumValue != nil {
		merged.MinimumValue = override.MinimumValue
	}
	if override.MaximumValue != nil {
		merged.MaximumValue = override.MaximumValue
	}
	if override.IfAbsent != nil {
		merged.IfAbsent = override.IfAbsent
	}
	if override.EqualsExpression != "" {
		merged.EqualsExpression = override.EqualsExpression
	}
	if len(override.PermissibleValues) > 0 {
		merged.PermissibleValues = override.PermissibleValues
	}
	if override.Default != nil {
		merged.Default = override.Default
	}
	if override.CaseSensitive != nil {
		merged.CaseSensitive = override.CaseSensitive
	}
	if override.MinCardinality != nil {
		merged.MinCardinality = override.MinCardinality
	}
	if override.MaxCardinality != nil {
		merged.MaxCardinality = override.MaxCardinality
	}
	return &merged
}

// mergeSlots appends incoming onto base, collapsing duplicates by name
// while preserving first occurrence (I3). This is deliberately NOT done
// with github.com/mpvl/unique: that package sorts then compacts, which
// reorders — exactly the ordering I3 requires us not to lose. mpvl/unique
// is used instead in internal/core/view's UsageIndex/DependencyGraph,
// where the result is a genuine order-insensitive set.
func mergeSlots(base, incoming []*schema.Slot) []*schema.Slot {
	out := append([]*schema.Slot{}, base...)
	seen := map[string]bool{}
	for _, s := range out {
		seen[s.Name] = true
	}
	for _, s := range incoming {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// checkRanges verifies I2: every slot range resolves to a defined Type,
// Class, Enum, or a recognized primitive.
func (r *resolver) checkRanges() error {
	var errs errors.List
	for _, name := range r.schema.SlotOrder {
		s := r.schema.Slots[name]
		if !r.rangeResolves(s.Range) {
			errs.Add(schemaErr(errCode, []string{"slots", name, "range"}, "UnknownReference: range %q", s.Range).(errors.Error))
		}
	}
	return errs.Err()
}

var primitiveRanges = map[string]bool{
	"string": true, "integer": true, "float": true, "double": true,
	"boolean": true, "date": true, "datetime": true, "time": true,
	"uri": true, "uriorcurie": true, "ncname": true, "objectidentifier": true,
	"nodeidentifier": true, "decimal": true,
}

func (r *resolver) rangeResolves(rangeName string) bool {
	if rangeName == "" || primitiveRanges[rangeName] {
		return true
	}
	if _, ok := r.schema.Classes[rangeName]; ok {
		return true
	}
	if _, ok := r.schema.Types[rangeName]; ok {
		return true
	}
	if _, ok := r.schema.Enums[rangeName]; ok {
		return true
	}
	return false
}

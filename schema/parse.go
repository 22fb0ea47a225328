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

package schema

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/linkml-io/linkml-go/errors"
	"github.com/linkml-io/linkml-go/token"
)

// Format selects the schema source encoding (spec.md §6.1: "either YAML 1.2
// or JSON is accepted").
type Format int

const (
	// FormatAuto sniffs the source: a leading '{' after whitespace is
	// treated as JSON, everything else as YAML.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

// Parse deserializes schema source text into a Schema. source names the
// input for error positions (typically a file path); it has no effect on
// parsing itself.
//
// Parse preserves declaration order for classes, slots, types, enums,
// class-level slot lists and rule lists, since that order is semantically
// significant (spec.md §6.1) even though it is never observed by Go's
// unordered maps.
func Parse(src []byte, source string, format Format) (*Schema, error) {
	if format == FormatAuto {
		format = sniff(src)
	}
	var n *node
	var err error
	switch format {
	case FormatJSON:
		n, err = parseJSONNode(src)
	default:
		n, err = parseYAMLNode(src)
	}
	if err != nil {
		return nil, errors.WithPos(errors.CodeParse, token.Position{Source: source, Line: 1, Column: 1}, "%s: %v", source, err)
	}
	p := &parser{source: source}
	sch, _ := p.schema(n)
	return sch, p.errs.Err()
}

func sniff(src []byte) Format {
	t := bytes.TrimLeft(src, " \t\r\n")
	if len(t) > 0 && t[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

type parser struct {
	source string
	errs   errors.List
}

func (p *parser) errf(path []string, format string, args ...interface{}) {
	p.errs.Add(errors.WithPath(errors.CodeSchema, token.Position{Source: p.source, Line: 1, Column: 1}, path, format, args...))
}

func (p *parser) schema(n *node) (*Schema, error) {
	sch := NewSchema()
	if n == nil || n.kind != kindMap {
		p.errf(nil, "schema document must be a mapping")
		return sch, p.errs.Err()
	}

	sch.ID = n.get("id").str()
	sch.Name = n.get("name").str()
	sch.Version = n.get("version").str()
	sch.DefaultPrefix = n.get("default_prefix").str()

	if prefixes := n.get("prefixes"); prefixes != nil && prefixes.kind == kindMap {
		for _, k := range prefixes.keys {
			v := prefixes.mapv[k]
			if v.kind == kindMap {
				sch.Prefixes[k] = v.get("prefix_reference").str()
			} else {
				sch.Prefixes[k] = v.str()
			}
		}
	}

	sch.Metadata = p.metadata(n)

	if types := n.get("types"); types != nil && types.kind == kindMap {
		for _, k := range types.keys {
			t := p.typ(k, types.mapv[k])
			sch.Types[k] = t
			sch.TypeOrder = append(sch.TypeOrder, k)
		}
	}

	if enums := n.get("enums"); enums != nil && enums.kind == kindMap {
		for _, k := range enums.keys {
			e := p.enum(k, enums.mapv[k])
			sch.Enums[k] = e
			sch.EnumOrder = append(sch.EnumOrder, k)
		}
	}

	if slots := n.get("slots"); slots != nil && slots.kind == kindMap {
		for _, k := range slots.keys {
			s := p.slot(k, slots.mapv[k])
			sch.Slots[k] = s
			sch.SlotOrder = append(sch.SlotOrder, k)
		}
	}

	if classes := n.get("classes"); classes != nil && classes.kind == kindMap {
		for _, k := range classes.keys {
			c := p.class(k, classes.mapv[k])
			sch.Classes[k] = c
			sch.ClassOrder = append(sch.ClassOrder, k)
		}
	}

	return sch, p.errs.Err()
}

func (p *parser) metadata(n *node) Metadata {
	return Metadata{
		Contributors: n.get("contributors").strList(),
		License:      n.get("license").str(),
		Keywords:     n.get("keywords").strList(),
		Status:       n.get("status").str(),
		Created:      n.get("created_on").str(),
		Modified:     n.get("last_updated_on").str(),
	}
}

func (p *parser) typ(name string, n *node) *Type {
	return &Type{
		Name:    name,
		Base:    firstNonEmpty(n.get("typeof").str(), n.get("base").str()),
		Pattern: n.get("pattern").str(),
		Minimum: n.get("minimum_value").number(),
		Maximum: n.get("maximum_value").number(),
		TypeOf:  n.get("typeof").str(),
	}
}

func (p *parser) enum(name string, n *node) *Enum {
	e := &Enum{Name: name}
	if pvs := n.get("permissible_values"); pvs != nil {
		e.PermissibleValues = p.permissibleValues(pvs)
	}
	if src := n.get("reachable_from"); src != nil {
		e.InstanceDataSource = src.get("source_nodes").str()
	}
	return e
}

func (p *parser) permissibleValues(n *node) []PermissibleValue {
	if n.kind != kindMap {
		return nil
	}
	out := make([]PermissibleValue, 0, len(n.keys))
	for _, k := range n.keys {
		v := n.mapv[k]
		pv := PermissibleValue{Text: k}
		if v != nil && v.kind == kindMap {
			pv.Description = v.get("description").str()
			pv.Meaning = v.get("meaning").str()
		}
		out = append(out, pv)
	}
	return out
}

func (p *parser) slot(name string, n *node) *Slot {
	s := &Slot{
		Name:             name,
		Description:      n.get("description").str(),
		Range:            n.get("range").str(),
		Required:         n.get("required").boolPtr(),
		Multivalued:      n.get("multivalued").boolPtr(),
		Identifier:       n.get("identifier").boolPtr(),
		Pattern:          n.get("pattern").str(),
		MinimumValue:     n.get("minimum_value").number(),
		MaximumValue:     n.get("maximum_value").number(),
		EqualsExpression: n.get("equals_expression").str(),
		CaseSensitive:    n.get("case_sensitive").boolPtr(),
		MinCardinality:   n.get("minimum_cardinality").intPtr(),
		MaxCardinality:   n.get("maximum_cardinality").intPtr(),
	}
	if s.Range == "" {
		s.Range = "string"
	}
	if pvs := n.get("permissible_values"); pvs != nil {
		s.PermissibleValues = p.permissibleValues(pvs)
	}
	if ia := n.get("ifabsent"); ia != nil {
		s.IfAbsent = p.ifAbsent(ia.str())
	}
	return s
}

// ifAbsent parses the LinkML ifabsent mini-language, e.g. "string(unknown)",
// "class_name", "bnode", "default_range::int(0)".
func (p *parser) ifAbsent(raw string) *IfAbsentAction {
	if raw == "" {
		return nil
	}
	fn, arg, hasArg := raw, "", false
	if i := strings.IndexByte(raw, '('); i >= 0 && strings.HasSuffix(raw, ")") {
		fn, arg, hasArg = raw[:i], raw[i+1:len(raw)-1], true
	}
	switch fn {
	case "slot_name", "slot_uri", "slot_curie":
		return &IfAbsentAction{Kind: IfAbsentSlotName}
	case "class_name", "class_uri", "class_curie":
		return &IfAbsentAction{Kind: IfAbsentClassName}
	case "class_slot_curie", "class_slot_uri":
		return &IfAbsentAction{Kind: IfAbsentClassSlotCurie}
	case "bnode":
		return &IfAbsentAction{Kind: IfAbsentBnode}
	case "default_value":
		return &IfAbsentAction{Kind: IfAbsentDefaultValue}
	case "string":
		return &IfAbsentAction{Kind: IfAbsentString, StringVal: arg}
	case "date":
		return &IfAbsentAction{Kind: IfAbsentDate}
	case "datetime":
		return &IfAbsentAction{Kind: IfAbsentDatetime}
	case "int", "integer":
		var v int64
		fmt.Sscanf(arg, "%d", &v)
		return &IfAbsentAction{Kind: IfAbsentInt, IntVal: v}
	default:
		if hasArg || strings.Contains(raw, "{") {
			return &IfAbsentAction{Kind: IfAbsentExpression, Expression: raw}
		}
		return &IfAbsentAction{Kind: IfAbsentString, StringVal: raw}
	}
}

func (p *parser) class(name string, n *node) *Class {
	c := &Class{
		Name:        name,
		Description: n.get("description").str(),
		IsA:         n.get("is_a").str(),
		Mixins:      n.get("mixins").strList(),
		Abstract:    n.get("abstract").str() == "true",
		TreeRoot:    n.get("tree_root").str() == "true",
		SlotUsage:   map[string]*Slot{},
		Attributes:  map[string]*Slot{},
		UniqueKeys:  map[string]*UniqueKey{},
		IfRequired:  map[string]*ConditionalRequirement{},
	}
	if slots := n.get("slots"); slots != nil {
		c.Slots = slots.strList()
	}
	if su := n.get("slot_usage"); su != nil && su.kind == kindMap {
		for _, k := range su.keys {
			c.SlotUsage[k] = p.slot(k, su.mapv[k])
		}
	}
	if attrs := n.get("attributes"); attrs != nil && attrs.kind == kindMap {
		for _, k := range attrs.keys {
			c.Attributes[k] = p.slot(k, attrs.mapv[k])
			c.AttributeOrder = append(c.AttributeOrder, k)
			c.Slots = append(c.Slots, k)
		}
	}
	if uks := n.get("unique_keys"); uks != nil && uks.kind == kindMap {
		for _, k := range uks.keys {
			v := uks.mapv[k]
			considerNullsInequal := true
			if b := v.get("consider_nulls_inequal"); b != nil && b.kind != kindNull {
				considerNullsInequal = b.str() == "true"
			}
			c.UniqueKeys[k] = &UniqueKey{
				Name:                 k,
				SlotNames:            v.get("unique_key_slots").strList(),
				ConsiderNullsInequal: considerNullsInequal,
			}
		}
	}
	if rules := n.get("rules"); rules != nil && rules.kind == kindSeq {
		for i, rn := range rules.seq {
			c.Rules = append(c.Rules, p.rule(fmt.Sprintf("%s.rules[%d]", name, i), rn))
		}
	}
	if ro := n.get("recursion_options"); ro != nil && ro.kind == kindMap {
		if d := ro.get("max_depth"); d != nil {
			c.RecursionOptions = &RecursionOptions{}
			if v := d.intPtr(); v != nil {
				c.RecursionOptions.MaxDepth = *v
			}
		}
	}
	if ir := n.get("if_required"); ir != nil && ir.kind == kindMap {
		for _, k := range ir.keys {
			v := ir.mapv[k]
			c.IfRequired[k] = &ConditionalRequirement{
				Condition:    p.slotCondition(v.get("condition")),
				ThenRequired: v.get("then_required").strList(),
			}
		}
	}
	return c
}

func (p *parser) rule(path string, n *node) *Rule {
	return &Rule{
		Description:    n.get("description").str(),
		Preconditions:  p.ruleConditions(n.get("preconditions")),
		Postconditions: p.ruleConditions(n.get("postconditions")),
		ElseConditions: p.ruleConditions(n.get("else_conditions")),
		Priority:       derefInt(n.get("priority").intPtr()),
		Deactivated:    n.get("deactivated").str() == "true",
	}
}

func (p *parser) ruleConditions(n *node) *RuleConditions {
	if n == nil || n.kind != kindMap {
		return nil
	}
	rc := &RuleConditions{SlotConditions: map[string]*SlotCondition{}}
	if sc := n.get("slot_conditions"); sc != nil && sc.kind == kindMap {
		for _, k := range sc.keys {
			rc.SlotConditions[k] = p.slotCondition(sc.mapv[k])
		}
	}
	if ec := n.get("expression_conditions"); ec != nil {
		rc.ExpressionConditions = ec.strList()
	}
	anyOf := n.get("any_of")
	allOf := n.get("all_of")
	exactlyOneOf := n.get("exactly_one_of")
	noneOf := n.get("none_of")
	if anyOf != nil || allOf != nil || exactlyOneOf != nil || noneOf != nil {
		rc.CompositeConditions = &CompositeConditions{
			AnyOf:        p.ruleConditionsList(anyOf),
			AllOf:        p.ruleConditionsList(allOf),
			ExactlyOneOf: p.ruleConditionsList(exactlyOneOf),
			NoneOf:       p.ruleConditionsList(noneOf),
		}
	}
	return rc
}

func (p *parser) ruleConditionsList(n *node) []*RuleConditions {
	if n == nil || n.kind != kindSeq {
		return nil
	}
	out := make([]*RuleConditions, 0, len(n.seq))
	for _, e := range n.seq {
		out = append(out, p.ruleConditions(e))
	}
	return out
}

func (p *parser) slotCondition(n *node) *SlotCondition {
	if n == nil || n.kind != kindMap {
		return nil
	}
	sc := &SlotCondition{
		EqualsExpression: n.get("equals_expression").str(),
		Pattern:          n.get("pattern").str(),
		MinimumValue:     n.get("minimum_value").number(),
		MaximumValue:     n.get("maximum_value").number(),
		Required:         n.get("required").boolPtr(),
	}
	if es := n.get("equals_string"); es != nil && es.kind != kindNull {
		sc.EqualsString = es.strPtr()
	}
	if en := n.get("equals_number"); en != nil && en.kind != kindNull {
		sc.EqualsNumber = en.number()
	}
	return sc
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// CompareVersions orders two schema version strings. Versions that parse as
// semver (with or without a leading "v") are compared numerically;
// otherwise it falls back to a lexical comparison, since LinkML schemas
// commonly use bare decimal versions like "0.1" rather than full semver.
func CompareVersions(a, b string) int {
	va, vb := canonicalSemver(a), canonicalSemver(b)
	if va != "" && vb != "" {
		return semver.Compare(va, vb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func canonicalSemver(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

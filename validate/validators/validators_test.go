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

package validators_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/internal/core/resolve"
	"github.com/linkml-io/linkml-go/internal/core/view"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/validate/validators"
	"github.com/linkml-io/linkml-go/value"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
func strPtr(s string) *string { return &s }

func objOf(pairs ...interface{}) value.Value {
	obj := value.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return value.Obj(obj)
}

func buildView(t *testing.T, classes map[string]*schema.Class, slots map[string]*schema.Slot, enums map[string]*schema.Enum) *view.SchemaView {
	t.Helper()
	sch := schema.NewSchema()
	for name, s := range slots {
		s.Name = name
		sch.Slots[name] = s
		sch.SlotOrder = append(sch.SlotOrder, name)
	}
	for name, c := range classes {
		c.Name = name
		if c.SlotUsage == nil {
			c.SlotUsage = map[string]*schema.Slot{}
		}
		if c.Attributes == nil {
			c.Attributes = map[string]*schema.Slot{}
		}
		sch.Classes[name] = c
		sch.ClassOrder = append(sch.ClassOrder, name)
	}
	for name, e := range enums {
		e.Name = name
		sch.Enums[name] = e
	}
	resolved, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNil(err))
	return view.New(resolved)
}

func TestTypeValidatorRejectsWrongKind(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {Slots: []string{"age"}}},
		map[string]*schema.Slot{"age": {Range: "integer"}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "age"), Value: value.String("old")}
	issues := validators.TypeValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestTypeValidatorAllowsIntWhereFloatExpected(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Thing": {Slots: []string{"weight"}}},
		map[string]*schema.Slot{"weight": {Range: "float"}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Thing", Slot: v.InducedSlot("Thing", "weight"), Value: value.Int(5)}
	issues := validators.TypeValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 0))
}

func TestRequiredValidatorFlagsAbsentValue(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {Slots: []string{"name"}}},
		map[string]*schema.Slot{"name": {Required: boolPtr(true)}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "name"), Value: value.Null}
	issues := validators.RequiredValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestCardinalityValidatorEnforcesMinMax(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Team": {Slots: []string{"members"}}},
		map[string]*schema.Slot{"members": {Multivalued: boolPtr(true), MinCardinality: intPtr(2), MaxCardinality: intPtr(3)}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Team", Slot: v.InducedSlot("Team", "members"),
		Value: value.List([]value.Value{value.String("a")})}
	issues := validators.CardinalityValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestPatternValidatorRejectsMismatch(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {Slots: []string{"email"}}},
		map[string]*schema.Slot{"email": {Pattern: `^\S+@\S+$`}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "email"), Value: value.String("not-an-email")}
	issues := validators.PatternValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestRangeValidatorEnforcesBounds(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {Slots: []string{"age"}}},
		map[string]*schema.Slot{"age": {MinimumValue: &schema.Number{Literal: "0"}, MaximumValue: &schema.Number{Literal: "120"}}},
		nil)
	ctx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "age"), Value: value.Int(200)}
	issues := validators.RangeValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestEnumValidatorCaseInsensitiveMatch(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Order": {Slots: []string{"status"}}},
		map[string]*schema.Slot{"status": {Range: "StatusEnum"}},
		map[string]*schema.Enum{"StatusEnum": {PermissibleValues: []schema.PermissibleValue{{Text: "OPEN"}, {Text: "CLOSED"}}}})
	ctx := &validators.Context{View: v, ClassName: "Order", Slot: v.InducedSlot("Order", "status"), Value: value.String("open")}
	issues := validators.EnumValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 0))
}

func TestEnumValidatorRejectsUnknownValue(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Order": {Slots: []string{"status"}}},
		map[string]*schema.Slot{"status": {Range: "StatusEnum"}},
		map[string]*schema.Enum{"StatusEnum": {PermissibleValues: []schema.PermissibleValue{{Text: "OPEN"}, {Text: "CLOSED"}}}})
	ctx := &validators.Context{View: v, ClassName: "Order", Slot: v.InducedSlot("Order", "status"), Value: value.String("archived")}
	issues := validators.EnumValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestConditionalRequirementValidatorFlagsMissingThenSlot(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {
			Slots: []string{"category", "guardian"},
			IfRequired: map[string]*schema.ConditionalRequirement{
				"category": {Condition: &schema.SlotCondition{EqualsString: strPtr("minor")}, ThenRequired: []string{"guardian"}},
			},
		}},
		map[string]*schema.Slot{"category": {}, "guardian": {}},
		nil)
	inst := objOf("category", value.String("minor"))
	ctx := &validators.Context{View: v, ClassName: "Person", Instance: inst, Value: inst}
	issues := validators.ConditionalRequirementValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestUniqueKeyValidatorFlagsDuplicate(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {
			Slots: []string{"ssn"},
			UniqueKeys: map[string]*schema.UniqueKey{
				"ssn_key": {SlotNames: []string{"ssn"}, ConsiderNullsInequal: true},
			},
		}},
		map[string]*schema.Slot{"ssn": {}},
		nil)
	trackers := validators.NewTrackers()
	first := objOf("ssn", value.String("123"))
	ctx1 := &validators.Context{View: v, ClassName: "Person", Instance: first, Value: first, Trackers: trackers, InstanceIndex: 0}
	qt.Assert(t, qt.HasLen(validators.UniqueKeyValidator{}.Validate(ctx1), 0))

	second := objOf("ssn", value.String("123"))
	ctx2 := &validators.Context{View: v, ClassName: "Person", Instance: second, Value: second, Trackers: trackers, InstanceIndex: 1}
	issues := validators.UniqueKeyValidator{}.Validate(ctx2)
	qt.Assert(t, qt.HasLen(issues, 1))
	qt.Assert(t, qt.Equals(issues[0].Context["duplicate_indices"], "[0,1]"))
}

func TestCrossReferenceValidatorFlagsDanglingReference(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{
			"Person": {Slots: []string{"id"}},
			"Order":  {Slots: []string{"buyer"}},
		},
		map[string]*schema.Slot{
			"id":    {Identifier: boolPtr(true)},
			"buyer": {Range: "Person"},
		},
		nil)
	trackers := validators.NewTrackers()
	trackers.RegisterID("Person", "p1")
	ctx := &validators.Context{View: v, ClassName: "Order", Slot: v.InducedSlot("Order", "buyer"), Value: value.String("p2"), Trackers: trackers}
	issues := validators.CrossReferenceValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestRecursionDepthValidatorFlagsExcessiveDepth(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Node": {RecursionOptions: &schema.RecursionOptions{MaxDepth: 2}}},
		nil, nil)
	ctx := &validators.Context{View: v, ClassName: "Node", Depth: 5}
	issues := validators.RecursionDepthValidator{}.Validate(ctx)
	qt.Assert(t, qt.HasLen(issues, 1))
}

func TestCustomValidatorRunsOnlyForMatchingSlots(t *testing.T) {
	v := buildView(t,
		map[string]*schema.Class{"Person": {Slots: []string{"name", "age"}}},
		map[string]*schema.Slot{"name": {}, "age": {}},
		nil)
	var calls int
	cv := validators.CustomValidator{
		ValidatorName: "NonEmpty",
		AppliesTo:     validators.AppliesToSlotNames("name"),
		Check: func(ctx *validators.Context) []validate.Issue {
			calls++
			return nil
		},
	}

	nameCtx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "name"), Value: value.String("")}
	cv.Validate(nameCtx)
	qt.Assert(t, qt.Equals(calls, 1))

	ageCtx := &validators.Context{View: v, ClassName: "Person", Slot: v.InducedSlot("Person", "age"), Value: value.Int(1)}
	cv.Validate(ageCtx)
	qt.Assert(t, qt.Equals(calls, 1))
}

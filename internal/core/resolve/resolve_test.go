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

package resolve_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/internal/core/resolve"
	"github.com/linkml-io/linkml-go/schema"
)

func slotNames(slots []*schema.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Name
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func TestResolveInducesSlotsParentMixinDeclaredOrder(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["id"] = &schema.Slot{Name: "id", Range: "string"}
	sch.Slots["name"] = &schema.Slot{Name: "name", Range: "string"}
	sch.Slots["tag"] = &schema.Slot{Name: "tag", Range: "string"}
	sch.Slots["age"] = &schema.Slot{Name: "age", Range: "integer"}
	sch.SlotOrder = []string{"id", "name", "tag", "age"}

	sch.Classes["Entity"] = &schema.Class{Name: "Entity", Slots: []string{"id"}, SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.Classes["Taggable"] = &schema.Class{Name: "Taggable", Slots: []string{"tag"}, SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.Classes["Person"] = &schema.Class{
		Name: "Person", IsA: "Entity", Mixins: []string{"Taggable"}, Slots: []string{"name", "age"},
		SlotUsage: map[string]*schema.Slot{
			"age": {Required: boolPtr(true)},
		},
		Attributes: map[string]*schema.Slot{},
	}
	sch.ClassOrder = []string{"Entity", "Taggable", "Person"}

	resolved, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNil(err))

	got := slotNames(resolved.InducedSlots["Person"])
	qt.Assert(t, qt.DeepEquals(got, []string{"id", "tag", "name", "age"}))

	ageSlot := resolved.InducedSlots["Person"][3]
	qt.Assert(t, qt.IsNotNil(ageSlot.Required))
	qt.Assert(t, qt.IsTrue(*ageSlot.Required))

	qt.Assert(t, qt.DeepEquals(resolved.Ancestors["Person"], []string{"Entity", "Taggable"}))
}

func TestResolveDetectsCycle(t *testing.T) {
	sch := schema.NewSchema()
	sch.Classes["A"] = &schema.Class{Name: "A", IsA: "B", SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.Classes["B"] = &schema.Class{Name: "B", IsA: "A", SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.ClassOrder = []string{"A", "B"}

	_, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestResolveUnknownIsA(t *testing.T) {
	sch := schema.NewSchema()
	sch.Classes["A"] = &schema.Class{Name: "A", IsA: "Ghost", SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.ClassOrder = []string{"A"}

	_, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestResolveSlotUsageOnUnknownSlot(t *testing.T) {
	sch := schema.NewSchema()
	sch.Classes["A"] = &schema.Class{
		Name: "A", SlotUsage: map[string]*schema.Slot{"ghost": {Required: boolPtr(true)}},
		Attributes: map[string]*schema.Slot{},
	}
	sch.ClassOrder = []string{"A"}

	_, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestResolveUnknownRange(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["x"] = &schema.Slot{Name: "x", Range: "NoSuchType"}
	sch.SlotOrder = []string{"x"}

	_, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestResolvePrimitiveRangeOK(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["x"] = &schema.Slot{Name: "x", Range: "string"}
	sch.SlotOrder = []string{"x"}

	_, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNil(err))
}

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

package defaults_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/defaults"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/value"
)

func TestApplySlotNameDefault(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["identifier"] = &schema.Slot{Name: "identifier", IfAbsent: &schema.IfAbsentAction{Kind: schema.IfAbsentSlotName}}
	sch.Classes["Person"] = &schema.Class{Name: "Person", Slots: []string{"identifier"}, SlotUsage: map[string]*schema.Slot{}}

	obj := value.NewObject()
	obj.Set("name", value.String("John"))

	a := defaults.New(sch)
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj, "Person")))

	got, ok := obj.Get("identifier")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got.Str(), "identifier"))
}

func TestApplyBnodeGeneratesDistinctIDs(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["id"] = &schema.Slot{Name: "id", IfAbsent: &schema.IfAbsentAction{Kind: schema.IfAbsentBnode}}
	sch.Classes["Entity"] = &schema.Class{Name: "Entity", Slots: []string{"id"}, SlotUsage: map[string]*schema.Slot{}}

	a := defaults.New(sch)
	obj1 := value.NewObject()
	obj2 := value.NewObject()
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj1, "Entity")))
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj2, "Entity")))

	id1, _ := obj1.Get("id")
	id2, _ := obj2.Get("id")
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(id1.Str(), "_:b")))
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(id2.Str(), "_:b")))
	qt.Assert(t, qt.Not(qt.Equals(id1.Str(), id2.Str())))
}

func TestApplyExpressionDefaultInterpolatesVariables(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["full_id"] = &schema.Slot{Name: "full_id", IfAbsent: &schema.IfAbsentAction{Kind: schema.IfAbsentExpression, Expression: "{prefix}_{number}"}}
	sch.Classes["Item"] = &schema.Class{Name: "Item", Slots: []string{"full_id"}, SlotUsage: map[string]*schema.Slot{}}

	obj := value.NewObject()
	obj.Set("prefix", value.String("ABC"))
	obj.Set("number", value.String("123"))

	a := defaults.New(sch)
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj, "Item")))

	got, ok := obj.Get("full_id")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got.Str(), "ABC_123"))
}

func TestApplyNeverOverwritesExistingValue(t *testing.T) {
	sch := schema.NewSchema()
	sch.Slots["identifier"] = &schema.Slot{Name: "identifier", IfAbsent: &schema.IfAbsentAction{Kind: schema.IfAbsentSlotName}}
	sch.Classes["Person"] = &schema.Class{Name: "Person", Slots: []string{"identifier"}, SlotUsage: map[string]*schema.Slot{}}

	obj := value.NewObject()
	obj.Set("identifier", value.String("explicit"))

	a := defaults.New(sch)
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj, "Person")))
	qt.Assert(t, qt.IsNil(a.Apply(context.Background(), obj, "Person")))

	got, _ := obj.Get("identifier")
	qt.Assert(t, qt.Equals(got.Str(), "explicit"))
}

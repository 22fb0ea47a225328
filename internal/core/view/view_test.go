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

package view_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/kr/pretty"

	"github.com/linkml-io/linkml-go/internal/core/resolve"
	"github.com/linkml-io/linkml-go/internal/core/view"
	"github.com/linkml-io/linkml-go/schema"
)

func buildView(t *testing.T) *view.SchemaView {
	t.Helper()
	sch := schema.NewSchema()
	sch.Slots["id"] = &schema.Slot{Name: "id", Range: "string"}
	sch.Slots["owner"] = &schema.Slot{Name: "owner", Range: "Person"}
	sch.SlotOrder = []string{"id", "owner"}

	sch.Classes["Entity"] = &schema.Class{Name: "Entity", Slots: []string{"id"}, SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.Classes["Person"] = &schema.Class{Name: "Person", IsA: "Entity", SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.Classes["Organization"] = &schema.Class{Name: "Organization", IsA: "Entity", Slots: []string{"owner"}, SlotUsage: map[string]*schema.Slot{}, Attributes: map[string]*schema.Slot{}}
	sch.ClassOrder = []string{"Entity", "Person", "Organization"}

	resolved, err := resolve.Resolve(sch)
	qt.Assert(t, qt.IsNil(err))
	return view.New(resolved)
}

func TestClassDescendants(t *testing.T) {
	v := buildView(t)
	got := v.ClassDescendants("Entity")
	qt.Assert(t, qt.HasLen(got, 2))
}

func TestClassDescendantsIsCachedAcrossCalls(t *testing.T) {
	v := buildView(t)
	first := v.ClassDescendants("Entity")
	second := v.ClassDescendants("Entity")
	qt.Assert(t, qt.DeepEquals(first, second))
}

func TestClassDescendantsConcurrentCallersSeeOneComputation(t *testing.T) {
	v := buildView(t)
	var wg sync.WaitGroup
	results := make([][]string, 32)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = v.ClassDescendants("Entity")
		}()
	}
	wg.Wait()
	for _, r := range results {
		qt.Assert(t, qt.HasLen(r, 2))
	}
}

func TestInducedSlot(t *testing.T) {
	v := buildView(t)
	s := v.InducedSlot("Person", "id")
	qt.Assert(t, qt.IsNotNil(s))
	qt.Assert(t, qt.Equals(s.Range, "string"))

	qt.Assert(t, qt.IsNil(v.InducedSlot("Person", "owner")))
}

func TestUsageIndex(t *testing.T) {
	v := buildView(t)
	idx := v.UsageIndex()
	qt.Assert(t, qt.DeepEquals(idx.SlotUsers["id"], []string{"Entity", "Organization", "Person"}))
	qt.Assert(t, qt.DeepEquals(idx.RangeUsers["Person"], []string{"Organization"}))
}

func TestDependencyGraph(t *testing.T) {
	v := buildView(t)
	graph := v.DependencyGraph()
	qt.Assert(t, qt.DeepEquals(graph["Organization"], []string{"Entity", "Person"}))
	qt.Assert(t, qt.DeepEquals(graph["Person"], []string{"Entity"}))
}

// TestInducedSlotDebugDump exercises kr/pretty's Sprint the way a developer
// reaches for it when a failing assertion needs more than %+v: a readable,
// field-by-field dump of a resolved slot for pasting into a bug report.
func TestInducedSlotDebugDump(t *testing.T) {
	v := buildView(t)
	s := v.InducedSlot("Organization", "owner")
	qt.Assert(t, qt.IsNotNil(s))

	dump := pretty.Sprint(s)
	qt.Assert(t, qt.IsTrue(strings.Contains(dump, "owner")))
	qt.Assert(t, qt.IsTrue(strings.Contains(dump, "Person")))
}

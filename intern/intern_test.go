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

package intern_test

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/intern"
	"github.com/linkml-io/linkml-go/validate"
)

func TestInternDeduplicatesEqualStrings(t *testing.T) {
	si := intern.New()
	a := si.Intern("RequiredValidator")
	b := si.Intern("RequiredValidator")
	qt.Assert(t, qt.Equals(a, b))
}

func TestInternGetRoundTrips(t *testing.T) {
	si := intern.New()
	id := si.Intern("$.person.name")
	got, ok := si.Get(id)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got, "$.person.name"))
}

func TestGetUnsetIDReturnsFalse(t *testing.T) {
	si := intern.New()
	_, ok := si.Get(0)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestReportMaterializeRoundTrips(t *testing.T) {
	si := intern.New()
	report := intern.NewReport(si, "my-schema")
	builder := intern.NewIssueBuilder(si)
	report.AddIssue(builder.RequiredFieldMissing("name", "$.person.name"))

	qt.Assert(t, qt.IsFalse(report.Valid))
	qt.Assert(t, qt.Equals(report.Stats.ErrorCount, 1))

	materialized := report.Materialize()
	qt.Assert(t, qt.Equals(materialized.SchemaID, "my-schema"))
	qt.Assert(t, qt.HasLen(materialized.Issues, 1))
	qt.Assert(t, qt.Equals(materialized.Issues[0].Validator, "RequiredValidator"))
	qt.Assert(t, qt.Equals(materialized.Issues[0].Severity, validate.SeverityError))
}

func TestMemoryStatsFindsFewerUniqueStringsThanIssueReferences(t *testing.T) {
	si := intern.New()
	builder := intern.NewIssueBuilder(si)
	var issues []intern.Issue
	for i := 0; i < 100; i++ {
		issues = append(issues, builder.RequiredFieldMissing("name", fmt.Sprintf("$.items[%d].name", i)))
	}
	stats := intern.CalculateMemoryStats(si)
	qt.Assert(t, qt.Equals(stats.UniqueStrings < len(issues)*3, true))
}

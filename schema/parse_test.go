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

package schema_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/schema"
)

const personSchemaYAML = `
id: https://example.org/person
name: person-schema
version: 0.1.0
default_prefix: ex
prefixes:
  ex: https://example.org/
  linkml: https://w3id.org/linkml/

types:
  PositiveInt:
    typeof: integer
    minimum_value: 1

slots:
  id:
    identifier: true
    range: string
  name:
    required: true
    range: string
  age:
    range: PositiveInt
  status:
    range: StatusEnum
    ifabsent: string(unknown)

enums:
  StatusEnum:
    permissible_values:
      ACTIVE:
        description: currently active
      INACTIVE: {}

classes:
  Person:
    tree_root: true
    slots:
      - id
      - name
      - age
      - status
    unique_keys:
      name_key:
        unique_key_slots:
          - name
    rules:
      - description: infer status
        preconditions:
          slot_conditions:
            age:
              minimum_value: 18
        postconditions:
          slot_conditions:
            status:
              equals_string: ACTIVE
`

func TestParseYAMLPreservesOrder(t *testing.T) {
	sch, err := schema.Parse([]byte(personSchemaYAML), "person.yaml", schema.FormatYAML)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(sch.SlotOrder, []string{"id", "name", "age", "status"}))
	qt.Assert(t, qt.DeepEquals(sch.ClassOrder, []string{"Person"}))
	qt.Assert(t, qt.DeepEquals(sch.TypeOrder, []string{"PositiveInt"}))
	qt.Assert(t, qt.DeepEquals(sch.EnumOrder, []string{"StatusEnum"}))
}

func TestParseYAMLFields(t *testing.T) {
	sch, err := schema.Parse([]byte(personSchemaYAML), "person.yaml", schema.FormatYAML)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(sch.ID, "https://example.org/person"))
	qt.Assert(t, qt.Equals(sch.DefaultPrefix, "ex"))
	qt.Assert(t, qt.Equals(sch.Prefixes["linkml"], "https://w3id.org/linkml/"))

	nameSlot := sch.Slots["name"]
	qt.Assert(t, qt.IsNotNil(nameSlot.Required))
	qt.Assert(t, qt.IsTrue(*nameSlot.Required))

	idSlot := sch.Slots["id"]
	qt.Assert(t, qt.IsNotNil(idSlot.Identifier))
	qt.Assert(t, qt.IsTrue(*idSlot.Identifier))

	statusSlot := sch.Slots["status"]
	qt.Assert(t, qt.IsNotNil(statusSlot.IfAbsent))
	qt.Assert(t, qt.Equals(statusSlot.IfAbsent.Kind, schema.IfAbsentString))
	qt.Assert(t, qt.Equals(statusSlot.IfAbsent.StringVal, "unknown"))

	positiveInt := sch.Types["PositiveInt"]
	qt.Assert(t, qt.Equals(positiveInt.Base, "integer"))
	qt.Assert(t, qt.IsNotNil(positiveInt.Minimum))
	qt.Assert(t, qt.Equals(positiveInt.Minimum.Literal, "1"))

	statusEnum := sch.Enums["StatusEnum"]
	qt.Assert(t, qt.HasLen(statusEnum.PermissibleValues, 2))
	qt.Assert(t, qt.Equals(statusEnum.PermissibleValues[0].Text, "ACTIVE"))
	qt.Assert(t, qt.Equals(statusEnum.PermissibleValues[0].Description, "currently active"))

	person := sch.Classes["Person"]
	qt.Assert(t, qt.IsTrue(person.TreeRoot))
	qt.Assert(t, qt.DeepEquals(person.Slots, []string{"id", "name", "age", "status"}))
	qt.Assert(t, qt.HasLen(person.Rules, 1))
	qt.Assert(t, qt.Equals(person.Rules[0].Description, "infer status"))

	uk := person.UniqueKeys["name_key"]
	qt.Assert(t, qt.DeepEquals(uk.SlotNames, []string{"name"}))
	qt.Assert(t, qt.IsTrue(uk.ConsiderNullsInequal))
}

func TestParseJSONMatchesYAML(t *testing.T) {
	jsonSrc := `{
		"id": "https://example.org/person",
		"name": "person-schema",
		"slots": {
			"id": {"identifier": true, "range": "string"},
			"name": {"required": true, "range": "string"}
		},
		"classes": {
			"Person": {
				"slots": ["id", "name"]
			}
		}
	}`
	sch, err := schema.Parse([]byte(jsonSrc), "person.json", schema.FormatJSON)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(sch.SlotOrder, []string{"id", "name"}))
	qt.Assert(t, qt.DeepEquals(sch.Classes["Person"].Slots, []string{"id", "name"}))
}

func TestParseAutoSniffsJSON(t *testing.T) {
	sch, err := schema.Parse([]byte(`  {"name": "x"}`), "x", schema.FormatAuto)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(sch.Name, "x"))
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := schema.Parse([]byte("- 1\n- 2\n"), "bad.yaml", schema.FormatYAML)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestCompareVersions(t *testing.T) {
	qt.Assert(t, qt.Equals(schema.CompareVersions("1.2.0", "1.10.0") < 0, true))
	qt.Assert(t, qt.Equals(schema.CompareVersions("0.1", "0.2") < 0, true))
	qt.Assert(t, qt.Equals(schema.CompareVersions("abc", "abd") < 0, true))
}

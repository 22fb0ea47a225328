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

package cmd_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/cmd/linkml/cmd"
)

const personSchemaYAML = `
id: https://example.org/person
name: person-schema
slots:
  id:
    identifier: true
    range: string
  name:
    required: true
    range: string
  age:
    range: integer
classes:
  Person:
    slots:
      - id
      - name
      - age
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(content), 0o644)))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.New()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateAcceptsConformingInstance(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", personSchemaYAML)
	instancePath := writeFile(t, "instance.json", `{"id": "p1", "name": "Ada", "age": 30}`)

	out, err := run(t, "validate", schemaPath, "Person", instancePath)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.StringContains(out, `"valid": true`))
	qt.Assert(t, qt.StringContains(out, `"schema_id": "https://example.org/person"`))
}

func TestValidateRejectsMissingRequiredSlot(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", personSchemaYAML)
	instancePath := writeFile(t, "instance.json", `{"id": "p1", "age": 30}`)

	out, err := run(t, "validate", schemaPath, "Person", instancePath)
	qt.Assert(t, qt.IsTrue(errors.Is(err, cmd.ErrValidationFailed)))
	qt.Assert(t, qt.StringContains(out, `"valid": false`))
}

func TestValidateRejectsUnknownClass(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", personSchemaYAML)
	instancePath := writeFile(t, "instance.json", `{}`)

	_, err := run(t, "validate", schemaPath, "Nonexistent", instancePath)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsFalse(errors.Is(err, cmd.ErrValidationFailed)))
}

func TestResolvePrintsInducedSlots(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", personSchemaYAML)

	out, err := run(t, "resolve", schemaPath, "--class", "Person")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.StringContains(out, `"name": "Person"`))
	qt.Assert(t, qt.StringContains(out, `"name": "id"`))
	qt.Assert(t, qt.StringContains(out, `"identifier": true`))
}

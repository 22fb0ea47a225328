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

package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/linkml-io/linkml-go/schema"
)

// CSVLoader/CSVDumper load and dump a single class's instances as flat CSV
// rows, one column per declared slot. A schema whose target class nests
// other classes (a slot whose range is itself a class) can't be flattened
// this way, so ValidateSchema rejects it up front rather than dumping
// truncated or silently-wrong rows.
type CSVLoader struct {
	ClassName string
}

// ValidateSchema reports whether sch's ClassName class exists and has no
// slot ranging over another class, which CSV rows can't represent.
func (c *CSVLoader) ValidateSchema(sch *schema.Schema) error {
	class, ok := sch.Classes[c.ClassName]
	if !ok {
		return fmt.Errorf("registry: csv loader: class %q not found in schema", c.ClassName)
	}
	for _, slotName := range class.Slots {
		slot, ok := sch.Slots[slotName]
		if !ok {
			continue
		}
		if _, isClass := sch.Classes[slot.Range]; isClass {
			return fmt.Errorf("registry: csv loader: slot %q of class %q ranges over class %q, which flat CSV rows cannot represent", slotName, c.ClassName, slot.Range)
		}
	}
	return nil
}

// Load reads source as CSV and returns one DataInstance per data row, keyed
// by the header's column names.
func (c *CSVLoader) Load(sch *schema.Schema, source string) ([]DataInstance, error) {
	if err := c.ValidateSchema(sch); err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(source))
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("registry: csv loader: reading headers: %w", err)
	}

	var instances []DataInstance
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("registry: csv loader: reading record: %w", err)
		}
		instance := make(DataInstance, len(header))
		for i, column := range header {
			if i < len(record) {
				instance[column] = record[i]
			}
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// CSVDumper is CSVLoader's write-side counterpart.
type CSVDumper struct {
	ClassName string
}

// ValidateSchema applies the same flatness check as CSVLoader.
func (c *CSVDumper) ValidateSchema(sch *schema.Schema) error {
	return (&CSVLoader{ClassName: c.ClassName}).ValidateSchema(sch)
}

// Dump writes one CSV row per instance, with columns ordered by the
// target class's declared slot order.
func (c *CSVDumper) Dump(sch *schema.Schema, instances []DataInstance) ([]byte, error) {
	if err := c.ValidateSchema(sch); err != nil {
		return nil, err
	}
	class := sch.Classes[c.ClassName]

	var out strings.Builder
	writer := csv.NewWriter(&out)
	if err := writer.Write(class.Slots); err != nil {
		return nil, fmt.Errorf("registry: csv dumper: writing header: %w", err)
	}
	for _, instance := range instances {
		row := make([]string, len(class.Slots))
		for i, slotName := range class.Slots {
			if v, ok := instance[slotName]; ok {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("registry: csv dumper: writing row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return []byte(out.String()), nil
}

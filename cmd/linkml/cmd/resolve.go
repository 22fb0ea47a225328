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

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkml-io/linkml-go/internal/core/view"
)

const resolveDoc = `resolve loads and resolves a schema, printing its induced class shapes.

resolve is a read-only inspection command: it runs the same parse-then-
resolve pipeline validate uses, then prints each class's ancestors and
induced slots (after is_a/mixin inheritance and slot_usage overrides have
been applied) as JSON. Use it to see exactly what a class looks like to the
validator before debugging why an instance failed.

Examples:

  linkml resolve schema.yaml
  linkml resolve schema.yaml --class Person
`

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <schema>",
		Short: "print a schema's resolved, induced class shapes",
		Long:  resolveDoc,
		Args:  cobra.ExactArgs(1),
		RunE:  doResolve,
	}
	cmd.Flags().StringP("class", "c", "", "print only this class (default: every class)")
	return cmd
}

func doResolve(cmd *cobra.Command, args []string) error {
	sv, err := loadView(args[0])
	if err != nil {
		return err
	}

	only, _ := cmd.Flags().GetString("class")
	names := sv.Schema().ClassOrder
	if only != "" {
		if _, ok := sv.Schema().Classes[only]; !ok {
			return fmt.Errorf("linkml: schema %q has no class %q", args[0], only)
		}
		names = []string{only}
	}

	classes := make([]classJSON, 0, len(names))
	for _, name := range names {
		classes = append(classes, classFromView(sv, name))
	}

	out, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return fmt.Errorf("linkml: cannot encode resolved classes: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

type classJSON struct {
	Name      string     `json:"name"`
	Ancestors []string   `json:"ancestors"`
	Slots     []slotJSON `json:"slots"`
}

type slotJSON struct {
	Name        string `json:"name"`
	Range       string `json:"range"`
	Required    bool   `json:"required"`
	Multivalued bool   `json:"multivalued"`
	Identifier  bool   `json:"identifier"`
}

func classFromView(sv *view.SchemaView, name string) classJSON {
	induced := sv.ClassSlots(name)
	slots := make([]slotJSON, len(induced))
	for i, s := range induced {
		slots[i] = slotJSON{
			Name:        s.Name,
			Range:       s.Range,
			Required:    s.Required != nil && *s.Required,
			Multivalued: s.Multivalued != nil && *s.Multivalued,
			Identifier:  s.Identifier != nil && *s.Identifier,
		}
	}
	return classJSON{
		Name:      name,
		Ancestors: sv.ClassAncestors(name),
		Slots:     slots,
	}
}

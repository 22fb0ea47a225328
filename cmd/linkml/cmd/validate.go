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
	"os"

	"github.com/spf13/cobra"

	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/validate/engine"
	"github.com/linkml-io/linkml-go/value"
)

const validateDoc = `validate checks instance data against a LinkML class.

validate loads a schema file, resolves it, and runs the instance data in a
JSON file against the named class, printing a validation report as JSON to
stdout (spec.md §6.4's stable shape). The exit code is 0 if the instance is
valid and 1 otherwise; the report itself is printed either way.

Examples:

  linkml validate schema.yaml Person instance.json
`

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema> <class> <instance>",
		Short: "validate instance data against a schema class",
		Long:  validateDoc,
		Args:  cobra.ExactArgs(3),
		RunE:  doValidate,
	}
	cmd.Flags().StringP("schema-id", "s", "", "schema identifier to record in the report (defaults to the schema's own id)")
	return cmd
}

func doValidate(cmd *cobra.Command, args []string) error {
	schemaPath, className, instancePath := args[0], args[1], args[2]

	sv, err := loadView(schemaPath)
	if err != nil {
		return err
	}
	if _, ok := sv.Schema().Classes[className]; !ok {
		return fmt.Errorf("linkml: schema %q has no class %q", schemaPath, className)
	}

	raw, err := os.ReadFile(instancePath)
	if err != nil {
		return fmt.Errorf("linkml: cannot read instance %q: %w", instancePath, err)
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("linkml: invalid JSON in %q: %w", instancePath, err)
	}
	instance := value.FromAny(decoded)

	schemaID, _ := cmd.Flags().GetString("schema-id")
	if schemaID == "" {
		schemaID = sv.Schema().ID
	}

	report := engine.New(sv).Validate(schemaID, className, instance)

	out, err := json.MarshalIndent(toReportJSON(report), "", "  ")
	if err != nil {
		return fmt.Errorf("linkml: cannot encode report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !report.Valid {
		return ErrValidationFailed
	}
	return nil
}

// ErrValidationFailed signals a non-zero exit without an accompanying
// error message: the report itself, already printed to stdout, is the
// explanation. main checks for this sentinel before printing anything.
var ErrValidationFailed = errInvalid{}

type errInvalid struct{}

func (errInvalid) Error() string { return "" }

// reportJSON mirrors spec.md §6.4's stable JSON shape. validate.Report and
// validate.Issue carry no json tags of their own (Issue deliberately isn't
// an error and has no stable serialized form baked into the core), so the
// CLI owns this shaping instead of leaning on encoding/json's default
// field-name behavior.
type reportJSON struct {
	Valid       bool        `json:"valid"`
	SchemaID    string      `json:"schema_id"`
	TargetClass string      `json:"target_class,omitempty"`
	Issues      []issueJSON `json:"issues"`
	Stats       statsJSON   `json:"stats"`
}

type issueJSON struct {
	Severity  string            `json:"severity"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Validator string            `json:"validator"`
	Code      string            `json:"code,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

type statsJSON struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	InfoCount    int `json:"info_count"`
}

func toReportJSON(r *validate.Report) reportJSON {
	issues := make([]issueJSON, len(r.Issues))
	for i, iss := range r.Issues {
		issues[i] = issueJSON{
			Severity:  iss.Severity.String(),
			Message:   iss.Message,
			Path:      iss.Path,
			Validator: iss.Validator,
			Code:      iss.Code,
			Context:   iss.Context,
		}
	}
	return reportJSON{
		Valid:       r.Valid,
		SchemaID:    r.SchemaID,
		TargetClass: r.TargetClass,
		Issues:      issues,
		Stats: statsJSON{
			ErrorCount:   r.Stats.ErrorCount,
			WarningCount: r.Stats.WarningCount,
			InfoCount:    r.Stats.InfoCount,
		},
	}
}

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
	"fmt"
	"os"
	"path/filepath"

	"github.com/linkml-io/linkml-go/internal/core/resolve"
	"github.com/linkml-io/linkml-go/internal/core/view"
	"github.com/linkml-io/linkml-go/schema"
)

// loadView reads path, parses it as a schema, and resolves it into a
// SchemaView. The on-disk extension picks the parse format: .json is
// parsed as JSON, .yaml/.yml as YAML, and any other extension is left to
// schema.Parse's own FormatAuto sniffing.
func loadView(path string) (*view.SchemaView, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("linkml: cannot read schema %q: %w", path, err)
	}

	format := schema.FormatAuto
	switch filepath.Ext(path) {
	case ".json":
		format = schema.FormatJSON
	case ".yaml", ".yml":
		format = schema.FormatYAML
	}

	raw, err := schema.Parse(src, path, format)
	if err != nil {
		return nil, fmt.Errorf("linkml: %w", err)
	}

	resolved, err := resolve.Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("linkml: %w", err)
	}

	return view.New(resolved), nil
}

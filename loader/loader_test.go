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

package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/loader"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(content), 0o644)))
	return path
}

func TestLoadJSONFileExtractsKeyValuePairs(t *testing.T) {
	path := writeFile(t, "instances.json", `[
		{"code": "US", "name": "United States"},
		{"code": "UK", "name": "United Kingdom"},
		{"code": "CA", "name": "Canada"}
	]`)

	l := loader.New()
	data, err := l.LoadJSONFile(path, loader.Config{KeyField: "code", ValueField: "name"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(data.Values, 3))
	qt.Assert(t, qt.DeepEquals(data.Values["US"], []string{"United States"}))
	qt.Assert(t, qt.DeepEquals(data.Values["UK"], []string{"United Kingdom"}))
	qt.Assert(t, qt.DeepEquals(data.Values["CA"], []string{"Canada"}))
}

func TestLoadCSVFileExtractsKeyValuePairs(t *testing.T) {
	path := writeFile(t, "instances.csv", "code,name\nUS,United States\nUK,United Kingdom\nCA,Canada\n")

	l := loader.New()
	data, err := l.LoadCSVFile(path, loader.Config{KeyField: "code", ValueField: "name"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(data.Values, 3))
	qt.Assert(t, qt.DeepEquals(data.Values["US"], []string{"United States"}))
}

func TestLoadJSONFileCachesBySource(t *testing.T) {
	path := writeFile(t, "instances.json", `[{"id": "1", "value": "test"}]`)

	l := loader.New()
	cfg := loader.DefaultConfig()
	data1, err := l.LoadJSONFile(path, cfg)
	qt.Assert(t, qt.IsNil(err))
	data2, err := l.LoadJSONFile(path, cfg)
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.Equals(data1, data2))
	stats := l.Stats()
	qt.Assert(t, qt.Equals(stats.Entries, 1))
}

func TestLoadJSONFileRejectsMissingKeyField(t *testing.T) {
	path := writeFile(t, "instances.json", `[{"name": "no code here"}]`)

	l := loader.New()
	_, err := l.LoadJSONFile(path, loader.Config{KeyField: "code"})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestLoadCSVFileRejectsUnknownKeyField(t *testing.T) {
	path := writeFile(t, "instances.csv", "code,name\nUS,United States\n")

	l := loader.New()
	_, err := l.LoadCSVFile(path, loader.Config{KeyField: "missing"})
	qt.Assert(t, qt.IsNotNil(err))
}

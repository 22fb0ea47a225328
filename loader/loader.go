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

// Package loader loads permissible values for instance-backed enums
// (spec.md §3.1) from JSON and CSV files into schema.InstanceData, caching
// each source so repeated lookups of the same file don't re-read it.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/linkml-io/linkml-go/schema"
)

// Config controls how a source's records are turned into key/value pairs.
type Config struct {
	// KeyField names the field supplying the permissible value's code
	// (e.g. "id", "code").
	KeyField string
	// ValueField, if set, names the field supplying the human-readable
	// label; when unset the key is used as its own value.
	ValueField string
}

// DefaultConfig mirrors the original's field names.
func DefaultConfig() Config {
	return Config{KeyField: "id"}
}

// IsValid reports whether c can be used to extract values.
func (c Config) IsValid() bool { return c.KeyField != "" }

// InstanceLoader loads schema.InstanceData from JSON or CSV files, caching
// each file path so a permissible-value set bound to the same source is
// parsed only once per loader lifetime.
type InstanceLoader struct {
	mu    sync.Mutex
	cache map[string]*schema.InstanceData
	now   func() time.Time
}

// New returns an InstanceLoader using the system clock for LoadedAt
// timestamps.
func New() *InstanceLoader {
	return &InstanceLoader{cache: make(map[string]*schema.InstanceData), now: time.Now}
}

// NewWithClock is New with an injectable time source, for deterministic
// tests of LoadedAt.
func NewWithClock(now func() time.Time) *InstanceLoader {
	return &InstanceLoader{cache: make(map[string]*schema.InstanceData), now: now}
}

// LoadJSONFile loads path as JSON and extracts key/value pairs per cfg,
// returning the cached result if path was already loaded.
func (l *InstanceLoader) LoadJSONFile(path string, cfg Config) (*schema.InstanceData, error) {
	cacheKey := "file:" + path
	if cached, ok := l.cached(cacheKey); ok {
		return cached, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("loader: invalid JSON in instance file %s: %w", path, err)
	}

	values, err := extractValuesFromJSON(doc, cfg)
	if err != nil {
		return nil, err
	}

	data := &schema.InstanceData{
		Source:   cacheKey,
		LoadedAt: l.now().UTC().Format(time.RFC3339),
		Values:   values,
	}
	l.store(cacheKey, data)
	return data, nil
}

// LoadCSVFile loads path as CSV and extracts key/value pairs per cfg,
// returning the cached result if path was already loaded.
func (l *InstanceLoader) LoadCSVFile(path string, cfg Config) (*schema.InstanceData, error) {
	cacheKey := "file:" + path
	if cached, ok := l.cached(cacheKey); ok {
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("loader: reading CSV headers from %s: %w", path, err)
	}

	keyIdx := indexOf(header, cfg.KeyField)
	if keyIdx < 0 {
		return nil, fmt.Errorf("loader: key field %q not found in CSV %s", cfg.KeyField, path)
	}
	valueIdx := -1
	if cfg.ValueField != "" {
		valueIdx = indexOf(header, cfg.ValueField)
		if valueIdx < 0 {
			return nil, fmt.Errorf("loader: value field %q not found in CSV %s", cfg.ValueField, path)
		}
	}

	values := make(map[string][]string)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("loader: reading CSV record from %s: %w", path, err)
		}
		if keyIdx >= len(record) {
			return nil, fmt.Errorf("loader: missing key field in CSV record from %s", path)
		}
		key := record[keyIdx]
		value := key
		if valueIdx >= 0 {
			if valueIdx >= len(record) {
				return nil, fmt.Errorf("loader: missing value field in CSV record from %s", path)
			}
			value = record[valueIdx]
		}
		values[key] = append(values[key], value)
	}

	data := &schema.InstanceData{
		Source:   cacheKey,
		LoadedAt: l.now().UTC().Format(time.RFC3339),
		Values:   values,
	}
	l.store(cacheKey, data)
	return data, nil
}

// ClearCache discards every cached source.
func (l *InstanceLoader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*schema.InstanceData)
}

// CacheStats reports the number of cached sources and their names.
type CacheStats struct {
	Entries int
	Sources []string
}

// Stats returns the current cache contents.
func (l *InstanceLoader) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	sources := make([]string, 0, len(l.cache))
	for _, d := range l.cache {
		sources = append(sources, d.Source)
	}
	return CacheStats{Entries: len(l.cache), Sources: sources}
}

func (l *InstanceLoader) cached(key string) (*schema.InstanceData, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.cache[key]
	return d, ok
}

func (l *InstanceLoader) store(key string, data *schema.InstanceData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[key] = data
}

func indexOf(header []string, field string) int {
	for i, h := range header {
		if h == field {
			return i
		}
	}
	return -1
}

// extractValuesFromJSON handles the three shapes the original format
// supports: a top-level array of objects, a single object wrapping one or
// more arrays of objects, or one direct object. An object that has the key
// field itself is taken as a direct object; otherwise its array fields are
// searched.
func extractValuesFromJSON(doc interface{}, cfg Config) (map[string][]string, error) {
	values := make(map[string][]string)
	switch v := doc.(type) {
	case []interface{}:
		for _, item := range v {
			if err := extractFromObject(item, cfg, values); err != nil {
				return nil, err
			}
		}
	case map[string]interface{}:
		if _, direct := v[cfg.KeyField]; direct {
			if err := extractFromObject(v, cfg, values); err != nil {
				return nil, err
			}
			break
		}
		for _, field := range v {
			if arr, ok := field.([]interface{}); ok {
				for _, item := range arr {
					if err := extractFromObject(item, cfg, values); err != nil {
						return nil, err
					}
				}
			}
		}
	default:
		if err := extractFromObject(doc, cfg, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func extractFromObject(item interface{}, cfg Config, values map[string][]string) error {
	obj, ok := item.(map[string]interface{})
	if !ok {
		return nil
	}
	keyRaw, ok := obj[cfg.KeyField]
	if !ok {
		return fmt.Errorf("loader: key field %q not found or not a string", cfg.KeyField)
	}
	key, ok := keyRaw.(string)
	if !ok {
		return fmt.Errorf("loader: key field %q not found or not a string", cfg.KeyField)
	}

	value := key
	if cfg.ValueField != "" {
		valueRaw, ok := obj[cfg.ValueField]
		if !ok {
			return fmt.Errorf("loader: value field %q not found or not a string", cfg.ValueField)
		}
		value, ok = valueRaw.(string)
		if !ok {
			return fmt.Errorf("loader: value field %q not found or not a string", cfg.ValueField)
		}
	}

	values[key] = append(values[key], value)
	return nil
}

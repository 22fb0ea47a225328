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

// Package config holds the single, immutable configuration record the rest
// of the module reads from (spec.md §6.3) and the capability interfaces the
// core consumes from its host (§6.6). Load parses YAML strictly, rejecting
// any key that isn't a recognized option; Store lets a host swap in a
// freshly loaded Config atomically without readers ever observing a
// partially updated one.
package config

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// EvictionPolicy names how the expression and validator caches reclaim
// space once full.
type EvictionPolicy string

const (
	EvictionLRU  EvictionPolicy = "lru"
	EvictionLFU  EvictionPolicy = "lfu"
	EvictionFIFO EvictionPolicy = "fifo"
	EvictionTTL  EvictionPolicy = "ttl"
)

// ParserConfig bounds schema parsing (§6.3).
type ParserConfig struct {
	MaxRecursionDepth int   `yaml:"max_recursion_depth"`
	MaxFileSizeBytes  int64 `yaml:"max_file_size_bytes"`
}

// ValidatorConfig controls how validation runs are scheduled and bounded.
type ValidatorConfig struct {
	EnableParallel bool `yaml:"enable_parallel"`
	ThreadCount    int  `yaml:"thread_count"`
	BatchSize      int  `yaml:"batch_size"`
	TimeoutMs      int64 `yaml:"timeout_ms"`
	MaxErrors      int  `yaml:"max_errors"`
	FailFast       bool `yaml:"fail_fast"`
}

// CacheConfig controls the expression and validator caches shared across a
// process.
type CacheConfig struct {
	MaxEntries     int            `yaml:"max_entries"`
	TTLSeconds     int64          `yaml:"ttl_seconds"`
	EvictionPolicy EvictionPolicy `yaml:"eviction_policy"`
}

// ExpressionConfig controls the compiled-vs-interpreted threshold in the
// expression engine (expr/engine.Config.CompilationThreshold mirrors this
// once Load populates it).
type ExpressionConfig struct {
	CompilationThreshold int `yaml:"compilation_threshold"`
}

// SecurityLimitsConfig seeds a resource.Monitor's resource.Limits.
type SecurityLimitsConfig struct {
	MaxValidationTimeMs   int64  `yaml:"max_validation_time_ms"`
	MaxExpressionTimeMs   int64  `yaml:"max_expression_time_ms"`
	MaxMemoryUsageBytes   uint64 `yaml:"max_memory_usage_bytes"`
	MaxParallelValidators uint64 `yaml:"max_parallel_validators"`
	MaxCacheMemoryBytes   uint64 `yaml:"max_cache_memory_bytes"`
	MaxValidationErrors   uint64 `yaml:"max_validation_errors"`
}

// Config is the single configuration record every other package reads
// from. It's treated as immutable once loaded: callers needing a changed
// value go through Store.Reload, never field mutation.
type Config struct {
	Parser         ParserConfig          `yaml:"parser"`
	Validator      ValidatorConfig       `yaml:"validator"`
	Cache          CacheConfig           `yaml:"cache"`
	Expression     ExpressionConfig      `yaml:"expression"`
	SecurityLimits SecurityLimitsConfig  `yaml:"security_limits"`
}

// Default returns a Config with the same numbers the rest of the module's
// packages use as their own defaults (resource.DefaultLimits,
// engine.DefaultConfig), so a host that never loads a file still gets a
// consistent, validated Config.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxRecursionDepth: 100,
			MaxFileSizeBytes:  10 * 1024 * 1024,
		},
		Validator: ValidatorConfig{
			EnableParallel: false,
			ThreadCount:    1,
			BatchSize:      100,
			TimeoutMs:      30_000,
			MaxErrors:      1000,
			FailFast:       false,
		},
		Cache: CacheConfig{
			MaxEntries:     1000,
			TTLSeconds:     300,
			EvictionPolicy: EvictionLRU,
		},
		Expression: ExpressionConfig{
			CompilationThreshold: 2,
		},
		SecurityLimits: SecurityLimitsConfig{
			MaxValidationTimeMs:   30_000,
			MaxExpressionTimeMs:   1_000,
			MaxMemoryUsageBytes:   1_000_000_000,
			MaxParallelValidators: 100,
			MaxCacheMemoryBytes:   100_000_000,
			MaxValidationErrors:   1000,
		},
	}
}

// Load parses data as YAML into a Config, starting from Default() so an
// omitted section keeps its default values, and rejects any key not
// recognized by the Config struct's yaml tags (§6.3: "unknown options:
// rejected with a configuration error").
func Load(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports whether the parser bounds, validator.thread_count,
// cache.max_entries and security_limits.max_memory_usage_bytes are
// positive and cache.eviction_policy is a known policy. The other numeric
// fields are not checked.
func (c *Config) Validate() error {
	if c.Parser.MaxRecursionDepth <= 0 {
		return fmt.Errorf("config: parser.max_recursion_depth must be greater than 0")
	}
	if c.Parser.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("config: parser.max_file_size_bytes must be greater than 0")
	}
	if c.Validator.ThreadCount <= 0 {
		return fmt.Errorf("config: validator.thread_count must be greater than 0")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("config: cache.max_entries must be greater than 0")
	}
	switch c.Cache.EvictionPolicy {
	case EvictionLRU, EvictionLFU, EvictionFIFO, EvictionTTL:
	default:
		return fmt.Errorf("config: cache.eviction_policy %q is not one of lru, lfu, fifo, ttl", c.Cache.EvictionPolicy)
	}
	if c.SecurityLimits.MaxMemoryUsageBytes == 0 {
		return fmt.Errorf("config: security_limits.max_memory_usage_bytes must be greater than 0")
	}
	return nil
}

// Store holds a Config behind an atomic pointer so readers never observe a
// partially updated record and a Reload never blocks a concurrent Current.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore returns a Store seeded with initial.
func NewStore(initial *Config) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the presently active Config.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Reload atomically swaps in a newly parsed Config, validating it first so
// a bad reload never replaces a good running configuration.
func (s *Store) Reload(data []byte) error {
	cfg, err := Load(data)
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	return nil
}

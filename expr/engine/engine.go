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

// Package engine ties the parser, compiler, and VM together into a single
// expression evaluator, with a two-tier cache and a complexity threshold
// that classifies each newly compiled expression as compiled or
// interpreted in Metrics (spec.md §4.3). Every expression is compiled to
// bytecode and run on the VM; there is no separate interpreter. The cache tiers and threshold gate mirror the shape of
// the reference engine's EngineConfig/EngineBuilder/should_use_compiled
// split: a small hot set of recently used programs plus a bounded LRU
// behind it, so a repeatedly evaluated expression never falls back to
// re-parsing.
package engine

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/linkml-io/linkml-go/expr/ast"
	"github.com/linkml-io/linkml-go/expr/compile"
	"github.com/linkml-io/linkml-go/expr/parser"
	"github.com/linkml-io/linkml-go/expr/vm"
	"github.com/linkml-io/linkml-go/value"
)

// Config controls cache sizing and the compiled/interpreted threshold.
type Config struct {
	// HotSetSize bounds the first-tier cache of programs hit at least
	// twice; past it the least recently used hot entry is evicted.
	HotSetSize int
	// LRUSize bounds the second-tier cache behind the hot set.
	LRUSize int
	// CompilationThreshold is the Program.Complexity at or above which a
	// newly built program is counted in Metrics.CompiledCount rather than
	// Metrics.InterpretedCount. Every program is compiled and cached
	// either way.
	CompilationThreshold int
	// OptimizeLevel is the compile.Level used when compiling.
	OptimizeLevel compile.Level
}

// DefaultConfig returns sane defaults: a small hot set, a modest LRU, and
// a threshold that counts anything past a trivial single-node expression
// as compiled.
func DefaultConfig() Config {
	return Config{HotSetSize: 32, LRUSize: 256, CompilationThreshold: 2, OptimizeLevel: compile.LevelBasic}
}

// Metrics reports cumulative engine activity, useful for operators tuning
// CompilationThreshold/cache sizes.
type Metrics struct {
	Evaluations     uint64
	CacheHits       uint64
	CacheMisses     uint64
	CompiledCount   uint64
	InterpretedCount uint64
}

type cacheKey = digest.Digest

func keyFor(source, schemaID string) cacheKey {
	return digest.FromString(schemaID + "\x00" + source)
}

type entry struct {
	prog *vm.Program
}

// Engine parses, compiles, and executes expressions, caching compiled
// programs per (source, schema_id) pair.
type Engine struct {
	cfg       Config
	functions *vm.FunctionRegistry
	vm        *vm.VM

	mu      sync.Mutex
	hot     map[cacheKey]*entry
	hotLRU  []cacheKey // most-recently-used at the end
	lru     map[cacheKey]*entry
	lruLRU  []cacheKey

	metrics Metrics
}

// New returns an Engine using cfg and the given function registry. A nil
// registry gets the builtin set via vm.NewRegistry.
func New(cfg Config, functions *vm.FunctionRegistry) *Engine {
	if functions == nil {
		functions = vm.NewRegistry()
	}
	return &Engine{
		cfg:       cfg,
		functions: functions,
		vm:        vm.New(functions),
		hot:       map[cacheKey]*entry{},
		lru:       map[cacheKey]*entry{},
	}
}

// Functions returns the engine's function registry, so callers can
// register schema-specific functions before evaluating.
func (e *Engine) Functions() *vm.FunctionRegistry { return e.functions }

// Evaluate parses and compiles source (or fetches its program from cache)
// and executes it against env. schemaID namespaces the cache so the same
// expression text in two different schemas never collides.
func (e *Engine) Evaluate(ctx context.Context, source, schemaID string, env map[string]value.Value) (value.Value, error) {
	e.mu.Lock()
	e.metrics.Evaluations++
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return value.Null, &vm.EvalError{Kind: vm.ErrTimeout, Msg: err.Error()}
	}

	prog, err := e.programFor(source, schemaID)
	if err != nil {
		return value.Null, err
	}
	return e.vm.Execute(prog, env)
}

// Precompile parses and compiles source ahead of time and stores the
// result in the cache, so the first real Evaluate call is not the one
// that pays parse/compile cost.
func (e *Engine) Precompile(source, schemaID string) error {
	_, err := e.programFor(source, schemaID)
	return err
}

// BatchEvaluate evaluates the same source against each env in envs,
// compiling or parsing source only once.
func (e *Engine) BatchEvaluate(ctx context.Context, source, schemaID string, envs []map[string]value.Value) ([]value.Value, error) {
	prog, err := e.programFor(source, schemaID)
	if err != nil {
		return nil, err
	}
	results := make([]value.Value, len(envs))
	for i, env := range envs {
		if err := ctx.Err(); err != nil {
			return nil, &vm.EvalError{Kind: vm.ErrTimeout, Msg: err.Error()}
		}
		v, err := e.vm.Execute(prog, env)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Metrics returns a snapshot of cumulative engine activity.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

func (e *Engine) programFor(source, schemaID string) (*vm.Program, error) {
	key := keyFor(source, schemaID)

	e.mu.Lock()
	if ent, ok := e.hot[key]; ok {
		e.touchHot(key)
		e.metrics.CacheHits++
		e.mu.Unlock()
		return ent.prog, nil
	}
	if ent, ok := e.lru[key]; ok {
		e.metrics.CacheHits++
		e.promoteToHot(key, ent)
		e.mu.Unlock()
		return ent.prog, nil
	}
	e.metrics.CacheMisses++
	e.mu.Unlock()

	node, err := parser.Parse(source, schemaID)
	if err != nil {
		return nil, err
	}
	prog, err := e.buildProgram(node)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if prog.Complexity >= e.cfg.CompilationThreshold {
		e.metrics.CompiledCount++
	} else {
		e.metrics.InterpretedCount++
	}
	e.storeInLRU(key, &entry{prog: prog})
	e.mu.Unlock()

	return prog, nil
}

func (e *Engine) buildProgram(node ast.Node) (*vm.Program, error) {
	c := compile.New(e.cfg.OptimizeLevel, e.functions)
	return c.Compile(node)
}

// touchHot, promoteToHot, storeInLRU, and their eviction helpers implement
// the two-tier cache: entries move from lru into hot on a second hit, and
// each tier evicts its least-recently-used entry once full. Callers must
// hold e.mu.
func (e *Engine) touchHot(key cacheKey) {
	for i, k := range e.hotLRU {
		if k == key {
			e.hotLRU = append(e.hotLRU[:i], e.hotLRU[i+1:]...)
			break
		}
	}
	e.hotLRU = append(e.hotLRU, key)
}

func (e *Engine) promoteToHot(key cacheKey, ent *entry) {
	delete(e.lru, key)
	for i, k := range e.lruLRU {
		if k == key {
			e.lruLRU = append(e.lruLRU[:i], e.lruLRU[i+1:]...)
			break
		}
	}
	e.hot[key] = ent
	e.touchHot(key)
	e.evictHotIfFull()
}

func (e *Engine) evictHotIfFull() {
	for len(e.hot) > e.cfg.HotSetSize && len(e.hotLRU) > 0 {
		oldest := e.hotLRU[0]
		e.hotLRU = e.hotLRU[1:]
		delete(e.hot, oldest)
	}
}

func (e *Engine) storeInLRU(key cacheKey, ent *entry) {
	e.lru[key] = ent
	e.lruLRU = append(e.lruLRU, key)
	for len(e.lru) > e.cfg.LRUSize && len(e.lruLRU) > 0 {
		oldest := e.lruLRU[0]
		e.lruLRU = e.lruLRU[1:]
		delete(e.lru, oldest)
	}
}

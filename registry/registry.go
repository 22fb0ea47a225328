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

// Package registry holds the name-keyed collaborator registries that sit
// beside the core validation engine: generators and data loaders/dumpers
// (spec.md §4.9). Every registry rejects a duplicate name outright rather
// than silently overwriting the earlier registration, and reports names in
// registration order rather than map iteration order.
package registry

import (
	"fmt"
	"sync"

	"github.com/linkml-io/linkml-go/schema"
)

// Generator is the minimal shape a code/artifact generator exposes to its
// registry: the registry itself doesn't care what a generator produces, only
// that it can be named, described, and invoked.
type Generator interface {
	Name() string
	Description() string
	FileExtensions() []string
}

// Generators is a duplicate-checked, order-preserving name→Generator map.
type Generators struct {
	mu    sync.RWMutex
	byName map[string]Generator
	order  []string
}

// NewGenerators returns an empty generator registry.
func NewGenerators() *Generators {
	return &Generators{byName: make(map[string]Generator)}
}

// Register adds generator under its own Name, failing if that name is
// already registered.
func (g *Generators) Register(generator Generator) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	name := generator.Name()
	if _, exists := g.byName[name]; exists {
		return fmt.Errorf("registry: generator %q is already registered", name)
	}
	g.byName[name] = generator
	g.order = append(g.order, name)
	return nil
}

// Unregister removes a previously registered generator, failing if name
// isn't present.
func (g *Generators) Unregister(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.byName[name]; !exists {
		return fmt.Errorf("registry: generator %q not found", name)
	}
	delete(g.byName, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the generator registered under name, if any.
func (g *Generators) Get(name string) (Generator, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	gen, ok := g.byName[name]
	return gen, ok
}

// Names returns every registered name in registration order, not map
// iteration order.
func (g *Generators) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// DataInstance is one record produced by a DataLoader or consumed by a
// DataDumper — an untyped field map, left for the caller to interpret
// against the schema's classes.
type DataInstance map[string]interface{}

// DataLoader reads instances of a schema's classes from an external source.
// ValidateSchema is a pre-flight check run before Load: it reports whether
// this loader can handle sch at all (e.g. a CSV loader rejecting a target
// class that is missing or has a slot ranging over another class) without
// attempting to read source.
type DataLoader interface {
	ValidateSchema(sch *schema.Schema) error
	Load(sch *schema.Schema, source string) ([]DataInstance, error)
}

// DataDumper writes instances of a schema's classes to an external sink,
// mirroring DataLoader's pre-flight contract.
type DataDumper interface {
	ValidateSchema(sch *schema.Schema) error
	Dump(sch *schema.Schema, instances []DataInstance) ([]byte, error)
}

// Loaders is a duplicate-checked, order-preserving name→DataLoader map.
type Loaders struct {
	mu     sync.RWMutex
	byName map[string]DataLoader
	order  []string
}

// NewLoaders returns an empty loader registry.
func NewLoaders() *Loaders {
	return &Loaders{byName: make(map[string]DataLoader)}
}

// Register adds loader under name, failing if that name is already
// registered.
func (l *Loaders) Register(name string, loader DataLoader) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.byName[name]; exists {
		return fmt.Errorf("registry: loader %q is already registered", name)
	}
	l.byName[name] = loader
	l.order = append(l.order, name)
	return nil
}

// Get returns the loader registered under name, if any.
func (l *Loaders) Get(name string) (DataLoader, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ldr, ok := l.byName[name]
	return ldr, ok
}

// Names returns every registered loader name in registration order.
func (l *Loaders) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Dumpers is a duplicate-checked, order-preserving name→DataDumper map.
type Dumpers struct {
	mu     sync.RWMutex
	byName map[string]DataDumper
	order  []string
}

// NewDumpers returns an empty dumper registry.
func NewDumpers() *Dumpers {
	return &Dumpers{byName: make(map[string]DataDumper)}
}

// Register adds dumper under name, failing if that name is already
// registered.
func (d *Dumpers) Register(name string, dumper DataDumper) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byName[name]; exists {
		return fmt.Errorf("registry: dumper %q is already registered", name)
	}
	d.byName[name] = dumper
	d.order = append(d.order, name)
	return nil
}

// Get returns the dumper registered under name, if any.
func (d *Dumpers) Get(name string) (DataDumper, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dmp, ok := d.byName[name]
	return dmp, ok
}

// Names returns every registered dumper name in registration order.
func (d *Dumpers) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

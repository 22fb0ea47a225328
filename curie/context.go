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

package curie

// Context layers local, element-scoped prefix overrides on top of a
// schema-wide Resolver. It is used when a class or slot definition
// declares its own prefix that shadows the schema's for the scope of that
// element.
type Context struct {
	resolver      *Resolver
	localPrefixes map[string]string
	namespace     string
}

// NewContext creates a Context backed by resolver.
func NewContext(resolver *Resolver) *Context {
	return &Context{resolver: resolver, localPrefixes: map[string]string{}}
}

// Child returns a copy of c that can receive further local prefixes
// without mutating c.
func (c *Context) Child() *Context {
	local := make(map[string]string, len(c.localPrefixes))
	for k, v := range c.localPrefixes {
		local[k] = v
	}
	return &Context{resolver: c.resolver, localPrefixes: local, namespace: c.namespace}
}

// AddLocalPrefix registers a prefix that is visible only within this
// context and its children, shadowing any schema-level prefix of the same
// name.
func (c *Context) AddLocalPrefix(prefix, uri string) { c.localPrefixes[prefix] = uri }

// SetNamespace records the namespace of the element this context belongs
// to, for diagnostic purposes.
func (c *Context) SetNamespace(ns string) { c.namespace = ns }

// Namespace returns the namespace set by SetNamespace, if any.
func (c *Context) Namespace() string { return c.namespace }

// Resolve resolves identifier, preferring a local prefix over the
// schema-level Resolver.
func (c *Context) Resolve(identifier string) (string, error) {
	if prefix, local, ok := SplitCURIE(identifier); ok {
		if base, exists := c.localPrefixes[prefix]; exists {
			return base + local, nil
		}
	}
	return c.resolver.Resolve(identifier)
}

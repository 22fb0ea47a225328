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

package view

import "sync"

// onceMap memoizes one value per key with at-most-once-per-key compute
// semantics under concurrent access: if two goroutines race to compute the
// same key, only one runs the compute function and both see its result.
// Built on sync.Map + a per-key sync.Once rather than a package dependency
// (see DESIGN.md: no pack library offers this and it's three lines).
type onceMap[V any] struct {
	once   sync.Map // key -> *sync.Once
	values sync.Map // key -> V
}

func newOnceMap[V any]() *onceMap[V] {
	return &onceMap[V]{}
}

func (m *onceMap[V]) getOrCompute(key string, compute func() V) V {
	onceIface, _ := m.once.LoadOrStore(key, new(sync.Once))
	once := onceIface.(*sync.Once)
	once.Do(func() {
		m.values.Store(key, compute())
	})
	v, _ := m.values.Load(key)
	return v.(V)
}

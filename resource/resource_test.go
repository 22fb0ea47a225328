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

package resource_test

import (
	"testing"
	"time"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/resource"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestAllocateMemoryFailsOverLimit(t *testing.T) {
	m := resource.New(resource.Limits{MaxMemoryUsage: 100})
	qt.Assert(t, qt.IsNil(m.AllocateMemory(60)))
	err := m.AllocateMemory(60)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.Equals(m.CurrentUsage().MemoryUsed, uint64(60)))
}

func TestReleaseMemoryFreesBudget(t *testing.T) {
	m := resource.New(resource.Limits{MaxMemoryUsage: 100})
	qt.Assert(t, qt.IsNil(m.AllocateMemory(80)))
	m.ReleaseMemory(80)
	qt.Assert(t, qt.IsNil(m.AllocateMemory(90)))
}

func TestStartParallelOpRejectsOverCapacity(t *testing.T) {
	m := resource.New(resource.Limits{MaxParallelValidators: 1})
	g1, err := m.StartParallelOp()
	qt.Assert(t, qt.IsNil(err))
	_, err = m.StartParallelOp()
	qt.Assert(t, qt.IsNotNil(err))
	g1.Release()
	g2, err := m.StartParallelOp()
	qt.Assert(t, qt.IsNil(err))
	g2.Release()
}

func TestCheckTimeoutUsesInjectedClock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := resource.NewWithClock(resource.Limits{MaxValidationTime: time.Second}, clock)
	qt.Assert(t, qt.IsNil(m.CheckTimeout()))
	clock.t = clock.t.Add(2 * time.Second)
	err := m.CheckTimeout()
	qt.Assert(t, qt.IsNotNil(err))
}

func TestAddValidationErrorStopsAtLimit(t *testing.T) {
	m := resource.New(resource.Limits{MaxValidationErrors: 2})
	qt.Assert(t, qt.IsTrue(m.AddValidationError()))
	qt.Assert(t, qt.IsTrue(m.AddValidationError()))
	qt.Assert(t, qt.IsFalse(m.AddValidationError()))
}

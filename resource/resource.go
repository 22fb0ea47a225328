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

// Package resource bounds a validation run's wall time, memory, parallel
// operation count, cache memory, and error count against configured
// limits (spec.md §4.7, P9). Every counter is a plain atomic so Monitor's
// read-side methods never take a lock.
package resource

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Clock abstracts "now" so tests can control elapsed time deterministically
// instead of racing the wall clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Limits configures every bound Monitor enforces.
type Limits struct {
	MaxValidationTime  time.Duration
	MaxExpressionTime  time.Duration
	MaxMemoryUsage     uint64
	MaxParallelValidators uint64
	MaxCacheMemory     uint64
	MaxValidationErrors uint64
}

// DefaultLimits mirrors the original service's defaults: generous enough
// not to trip during ordinary use, tight enough to stop runaway input.
func DefaultLimits() Limits {
	return Limits{
		MaxValidationTime:     30 * time.Second,
		MaxExpressionTime:     time.Second,
		MaxMemoryUsage:        1_000_000_000,
		MaxParallelValidators: 100,
		MaxCacheMemory:        100_000_000,
		MaxValidationErrors:   1000,
	}
}

// ErrorKind distinguishes the ways a Monitor can refuse further work.
type ErrorKind int

const (
	ErrTimeout ErrorKind = iota
	ErrMemoryExceeded
	ErrTooManyParallelOps
	ErrCacheMemoryExceeded
)

// Error reports a resource-limit breach with the offending/allowed values.
type Error struct {
	Kind    ErrorKind
	Current uint64
	Max     uint64
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrTimeout:
		return fmt.Sprintf("resource: elapsed time exceeded limit (max %d)", e.Max)
	case ErrMemoryExceeded:
		return fmt.Sprintf("resource: memory usage %d exceeds limit %d", e.Current, e.Max)
	case ErrTooManyParallelOps:
		return fmt.Sprintf("resource: parallel operations %d exceeds limit %d", e.Current, e.Max)
	case ErrCacheMemoryExceeded:
		return fmt.Sprintf("resource: cache memory %d exceeds limit %d", e.Current, e.Max)
	default:
		return "resource: limit exceeded"
	}
}

// Usage is a snapshot of a Monitor's counters at a point in time.
type Usage struct {
	Elapsed          time.Duration
	MemoryUsed       uint64
	ParallelOps      uint64
	CacheMemory      uint64
	ValidationErrors uint64
}

// Monitor tracks one top-level call's resource consumption against Limits.
// Every counter field is accessed only through atomic operations, so a
// Monitor is safe to share across the goroutines validating one instance
// tree in parallel.
type Monitor struct {
	limits Limits
	clock  Clock
	start  time.Time

	memoryUsed       atomic.Uint64
	parallelOps      atomic.Uint64
	cacheMemory      atomic.Uint64
	validationErrors atomic.Uint64
}

// New returns a Monitor enforcing limits, starting its elapsed-time clock
// immediately using the system clock.
func New(limits Limits) *Monitor {
	return NewWithClock(limits, systemClock{})
}

// NewWithClock is New with an injectable Clock, for deterministic tests.
func NewWithClock(limits Limits, clock Clock) *Monitor {
	return &Monitor{limits: limits, clock: clock, start: clock.Now()}
}

// CheckTimeout returns a resource.Error if elapsed wall time since the
// Monitor was created exceeds MaxValidationTime.
func (m *Monitor) CheckTimeout() error {
	elapsed := m.clock.Now().Sub(m.start)
	if elapsed > m.limits.MaxValidationTime {
		return &Error{Kind: ErrTimeout, Current: uint64(elapsed.Milliseconds()), Max: uint64(m.limits.MaxValidationTime.Milliseconds())}
	}
	return nil
}

// CheckExpressionTimeout returns a resource.Error if the duration elapsed
// since start exceeds MaxExpressionTime, for bounding a single expression
// evaluation separately from the whole validation run.
func (m *Monitor) CheckExpressionTimeout(start time.Time) error {
	elapsed := m.clock.Now().Sub(start)
	if elapsed > m.limits.MaxExpressionTime {
		return &Error{Kind: ErrTimeout, Current: uint64(elapsed.Milliseconds()), Max: uint64(m.limits.MaxExpressionTime.Milliseconds())}
	}
	return nil
}

// AllocateMemory records bytes as used, failing and rolling back if doing
// so would exceed MaxMemoryUsage.
func (m *Monitor) AllocateMemory(bytes uint64) error {
	newTotal := m.memoryUsed.Add(bytes)
	if newTotal > m.limits.MaxMemoryUsage {
		m.memoryUsed.Add(^(bytes - 1)) // atomic subtract
		return &Error{Kind: ErrMemoryExceeded, Current: newTotal, Max: m.limits.MaxMemoryUsage}
	}
	return nil
}

// ReleaseMemory returns bytes to the available budget.
func (m *Monitor) ReleaseMemory(bytes uint64) {
	m.memoryUsed.Add(^(bytes - 1))
}

// AllocateCacheMemory is AllocateMemory for the cache-memory counter.
func (m *Monitor) AllocateCacheMemory(bytes uint64) error {
	newTotal := m.cacheMemory.Add(bytes)
	if newTotal > m.limits.MaxCacheMemory {
		m.cacheMemory.Add(^(bytes - 1))
		return &Error{Kind: ErrCacheMemoryExceeded, Current: newTotal, Max: m.limits.MaxCacheMemory}
	}
	return nil
}

// ReleaseCacheMemory returns bytes to the cache-memory budget.
func (m *Monitor) ReleaseCacheMemory(bytes uint64) {
	m.cacheMemory.Add(^(bytes - 1))
}

// StartParallelOp increments the in-flight parallel-operation count and
// returns a Guard that must be released (typically via defer) when the
// operation completes. It fails without incrementing if the limit is
// already at capacity.
func (m *Monitor) StartParallelOp() (*Guard, error) {
	current := m.parallelOps.Add(1)
	if current > m.limits.MaxParallelValidators {
		m.parallelOps.Add(^uint64(0))
		return nil, &Error{Kind: ErrTooManyParallelOps, Current: current, Max: m.limits.MaxParallelValidators}
	}
	return &Guard{monitor: m}, nil
}

// Guard releases its parallel-operation slot exactly once, on Release (or
// via the Go idiom `defer guard.Release()`), mirroring the original's
// Drop-based ParallelOpGuard.
type Guard struct {
	monitor  *Monitor
	released bool
}

// Release decrements the parallel-operation count. Calling it more than
// once is a no-op.
func (g *Guard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.monitor.parallelOps.Add(^uint64(0))
}

// AddValidationError records one more validation error and reports
// whether the run is still within MaxValidationErrors.
func (m *Monitor) AddValidationError() bool {
	count := m.validationErrors.Add(1)
	return count <= m.limits.MaxValidationErrors
}

// CurrentUsage returns a snapshot of every tracked counter.
func (m *Monitor) CurrentUsage() Usage {
	return Usage{
		Elapsed:          m.clock.Now().Sub(m.start),
		MemoryUsed:       m.memoryUsed.Load(),
		ParallelOps:      m.parallelOps.Load(),
		CacheMemory:       m.cacheMemory.Load(),
		ValidationErrors: m.validationErrors.Load(),
	}
}

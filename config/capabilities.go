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

package config

import (
	"context"
	"time"
)

// Logger is the async logging capability the core consumes (§6.6). No
// concrete implementation is fixed here; a host wires in whatever logging
// library it already uses.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
}

// Clock is the timestamp capability the core consumes. defaults.Clock and
// resource.Clock are narrower, package-local cuts of this same shape
// (Now() time.Time only) so those packages don't import config; a host
// wiring the whole module together can satisfy all three from one
// implementation of Clock.
type Clock interface {
	NowUTC() time.Time
	NowLocal() time.Time
	ISO8601() string
}

// Cache is the generic caching capability used by the expression and
// validator caches.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
	CleanupExpired(ctx context.Context) (removed int, err error)
}

// Monitor is the metrics-emission capability: counters and histograms,
// with no assumption about backend (Prometheus, StatsD, or otherwise).
type Monitor interface {
	IncrCounter(name string, delta int64, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// TimeoutEstimate is one adaptive-timeout calculation's result.
type TimeoutEstimate struct {
	Duration   time.Duration
	Confidence float64
}

// TimeoutService is the adaptive-timeout capability sandbox.AdaptiveTimeout
// approximates in-process; a host may instead inject a shared service that
// pools observations across many sandboxes.
type TimeoutService interface {
	CalculateTimeout(ctx context.Context, operation string) (TimeoutEstimate, error)
	RecordDuration(ctx context.Context, operation string, actual time.Duration, success bool) error
}

// TaskManager is the background-scheduling capability, used for things
// like periodic cache-expiry sweeps.
type TaskManager interface {
	SpawnPeriodic(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) (cancel func(), err error)
}

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

package engine_test

import (
	"context"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/expr/engine"
	"github.com/linkml-io/linkml-go/value"
)

func TestEvaluateArithmetic(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	result, err := e.Evaluate(context.Background(), "1 + 2 * 3", "schema-a", nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Int(), int64(7)))
}

func TestEvaluateUsesVariableEnv(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	env := map[string]value.Value{"x": value.Int(10)}
	result, err := e.Evaluate(context.Background(), "x * 2", "schema-a", env)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(result.Int(), int64(20)))
}

func TestEvaluateCachesAcrossCalls(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	for i := 0; i < 3; i++ {
		_, err := e.Evaluate(context.Background(), "1 + 1", "schema-a", nil)
		qt.Assert(t, qt.IsNil(err))
	}
	m := e.Metrics()
	qt.Assert(t, qt.Equals(m.Evaluations, uint64(3)))
	qt.Assert(t, qt.Equals(m.CacheMisses, uint64(1)))
	qt.Assert(t, qt.Equals(m.CacheHits, uint64(2)))
}

func TestEvaluateSameSourceDifferentSchemaIDsDoNotCollide(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	envA := map[string]value.Value{"x": value.Int(1)}
	envB := map[string]value.Value{"x": value.Int(2)}
	ra, err := e.Evaluate(context.Background(), "x", "schema-a", envA)
	qt.Assert(t, qt.IsNil(err))
	rb, err := e.Evaluate(context.Background(), "x", "schema-b", envB)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ra.Int(), int64(1)))
	qt.Assert(t, qt.Equals(rb.Int(), int64(2)))
}

func TestPrecompileWarmsCache(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	qt.Assert(t, qt.IsNil(e.Precompile("1 + 1", "schema-a")))
	_, err := e.Evaluate(context.Background(), "1 + 1", "schema-a", nil)
	qt.Assert(t, qt.IsNil(err))
	m := e.Metrics()
	// The only miss is Precompile's own lookup; Evaluate is served from cache.
	qt.Assert(t, qt.Equals(m.CacheMisses, uint64(1)))
}

func TestBatchEvaluateSharesCompiledProgram(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	envs := []map[string]value.Value{
		{"x": value.Int(1)},
		{"x": value.Int(2)},
		{"x": value.Int(3)},
	}
	results, err := e.BatchEvaluate(context.Background(), "x * 10", "schema-a", envs)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(results, 3))
	qt.Assert(t, qt.Equals(results[2].Int(), int64(30)))
}

func TestEvaluateUnknownIdentifierReturnsEvalError(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	_, err := e.Evaluate(context.Background(), "missing_var", "schema-a", map[string]value.Value{})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestEvaluateRespectsCanceledContext(t *testing.T) {
	e := engine.New(engine.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Evaluate(ctx, "1 + 1", "schema-a", nil)
	qt.Assert(t, qt.IsNotNil(err))
}

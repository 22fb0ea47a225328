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

// Package sandbox runs foreign-language custom-validator and rule plugins
// under capability restrictions (spec.md §4.10). Dynamic native loading is
// never supported; a plugin is a WebAssembly module instantiated with
// wazero, the same pure-Go WASM runtime the teacher embeds for extern
// functions.
package sandbox

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Capability names a single permission a plugin may be granted. An empty
// Policy.Capabilities set is the most restrictive: no operation is allowed
// except what FileSystemMode/AllowNetwork independently permit.
type Capability string

const (
	CapabilityExecute      Capability = "execute"
	CapabilityFSReadTemp   Capability = "fs.read_temp"
	CapabilityFSWriteTemp  Capability = "fs.write_temp"
	CapabilityNetwork      Capability = "network"
)

// FileSystemMode bounds what paths a plugin may touch.
type FileSystemMode int

const (
	FSNone FileSystemMode = iota
	FSReadOnly
	FSTempOnly
	FSFull
)

// Limits bounds one plugin invocation's resource consumption.
type Limits struct {
	MaxMemoryBytes uint64
	MaxCPUTime     time.Duration
	MaxOpenFiles   int
	AllowNetwork   bool
	FileSystemMode FileSystemMode
}

// DefaultLimits mirrors the original sandbox's conservative defaults:
// temp-directory-only file access, no network, generous but bounded
// memory and CPU time.
func DefaultLimits() Limits {
	return Limits{
		MaxMemoryBytes: 256 * 1024 * 1024,
		MaxCPUTime:     30 * time.Second,
		MaxOpenFiles:   100,
		AllowNetwork:   false,
		FileSystemMode: FSTempOnly,
	}
}

// Policy is a plugin's granted capabilities plus its resource Limits.
type Policy struct {
	Limits       Limits
	Capabilities []Capability
}

// NewPolicy returns a Policy with the given capabilities and DefaultLimits.
func NewPolicy(capabilities ...Capability) Policy {
	return Policy{Limits: DefaultLimits(), Capabilities: capabilities}
}

// HasCapability reports whether capability was granted.
func (p Policy) HasCapability(capability Capability) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// CheckFileAccess reports whether path may be opened for read (or write,
// when write is true) under p's FileSystemMode, mirroring the original
// PluginSandbox's temp-directory containment check.
func (p Policy) CheckFileAccess(path, tempDir string, write bool) bool {
	switch p.Limits.FileSystemMode {
	case FSNone:
		return false
	case FSReadOnly:
		return !write
	case FSTempOnly:
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		tempAbs, err := filepath.Abs(tempDir)
		if err != nil {
			return false
		}
		return abs == tempAbs || strings.HasPrefix(abs, tempAbs+string(filepath.Separator))
	case FSFull:
		return true
	default:
		return false
	}
}

// CheckMemory reports whether allocating bytes stays within MaxMemoryBytes.
func (p Policy) CheckMemory(bytes uint64) bool {
	return bytes <= p.Limits.MaxMemoryBytes
}

// AdaptiveTimeout estimates a plugin call's timeout from its operation
// name's recent actual durations, recording each call's outcome back so
// the next estimate improves (spec.md §4.10's "adaptive timeout via the
// injected timeout service").
type AdaptiveTimeout struct {
	mu        sync.Mutex
	estimates map[string]time.Duration
	fallback  time.Duration
}

// NewAdaptiveTimeout returns an AdaptiveTimeout using fallback for any
// operation name it hasn't observed yet.
func NewAdaptiveTimeout(fallback time.Duration) *AdaptiveTimeout {
	return &AdaptiveTimeout{estimates: make(map[string]time.Duration), fallback: fallback}
}

// Estimate returns the current timeout estimate for operation, padded by
// 50% over the last observed duration so a call that previously succeeded
// quickly isn't immediately re-timed out by jitter.
func (a *AdaptiveTimeout) Estimate(operation string) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.estimates[operation]; ok {
		return d + d/2
	}
	return a.fallback
}

// RecordDuration feeds operation's actual wall-clock duration back into
// future estimates. A failed (e.g. timed-out) call's duration is recorded
// too, since it's still informative about how long the operation takes.
func (a *AdaptiveTimeout) RecordDuration(operation string, actual time.Duration, success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = success
	a.estimates[operation] = actual
}

// Sandbox runs a compiled WASM module's exported functions under a Policy,
// timing each call through an AdaptiveTimeout.
type Sandbox struct {
	Runtime wazero.Runtime
	Policy  Policy
	Timeout *AdaptiveTimeout
}

// New returns a Sandbox with a fresh wazero runtime (WASI preview1
// instantiated, matching the teacher's cue/wasm.newRuntime) and the given
// policy. The runtime closes a module whose call context is done, so a
// Call's timeout stops a running function.
func New(ctx context.Context, policy Policy) (*Sandbox, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("sandbox: instantiating WASI: %w", err)
	}
	return &Sandbox{Runtime: rt, Policy: policy, Timeout: NewAdaptiveTimeout(policy.Limits.MaxCPUTime)}, nil
}

// Close releases the sandbox's wazero runtime.
func (s *Sandbox) Close(ctx context.Context) error {
	return s.Runtime.Close(ctx)
}

// Call loads moduleBytes, invokes its exported function funcName with
// args, and returns its results, refusing to run at all unless the
// sandbox's policy grants CapabilityExecute. The call is bounded by an
// adaptive timeout whose actual duration is fed back for the next call to
// the same function.
func (s *Sandbox) Call(ctx context.Context, moduleBytes []byte, funcName string, args ...uint64) ([]uint64, error) {
	if !s.Policy.HasCapability(CapabilityExecute) {
		return nil, fmt.Errorf("sandbox: plugin does not have execute capability")
	}

	compiled, err := s.Runtime.CompileModule(ctx, moduleBytes)
	if err != nil {
		return nil, fmt.Errorf("sandbox: compiling module: %w", err)
	}
	defer compiled.Close(ctx)

	mod, err := s.Runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("sandbox: instantiating module: %w", err)
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(funcName)
	if fn == nil {
		return nil, fmt.Errorf("sandbox: function %q not found in module", funcName)
	}

	timeout := s.Timeout.Estimate(funcName)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	results, callErr := fn.Call(callCtx, args...)
	actual := time.Since(start)
	s.Timeout.RecordDuration(funcName, actual, callErr == nil)

	if callErr != nil {
		return nil, fmt.Errorf("sandbox: calling %q: %w", funcName, callErr)
	}
	return results, nil
}

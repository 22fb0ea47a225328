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

// Package engine orchestrates the built-in validators in
// github.com/linkml-io/linkml-go/validate/validators, the default-value
// applier (defaults.Applier) and the rule engine (rule.Engine) over
// instance data resolved against a schema view, assembling one
// validate.Report per run (spec.md §4.5, §7). It is a separate package
// from validate itself because validators already depends one-way on
// validate for the Issue/Report types; an orchestrator living inside
// validate would close that into an import cycle.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/linkml-io/linkml-go/defaults"
	"github.com/linkml-io/linkml-go/internal/core/view"
	"github.com/linkml-io/linkml-go/resource"
	"github.com/linkml-io/linkml-go/rule"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/validate"
	"github.com/linkml-io/linkml-go/validate/validators"
	"github.com/linkml-io/linkml-go/value"
)

// Strategy controls how independent per-slot/per-class validator checks
// within one instance are scheduled, mirroring rule.Strategy's shape.
type Strategy int

const (
	// Sequential runs every applicable validator in declaration order.
	Sequential Strategy = iota
	// Parallel runs slot-level validators for independent slots
	// concurrently. The class-scoped pass (UniqueKey, which writes the
	// shared Trackers, and ConditionalRequirement) runs sequentially before
	// the slots; nested instances and rules run sequentially after them.
	Parallel
	// FailFast stops at the first error-severity issue.
	FailFast
	// CollectAll always runs every validator regardless of earlier issues.
	CollectAll
)

// Engine walks induced slots for a class plus instance data, invoking
// every applicable validator, the default applier, and the rule engine, and
// assembling a validate.Report — the full §4.5 orchestration: apply
// defaults, run slot validators, run the rule engine, consulting a
// resource.Monitor at each checkpoint.
type Engine struct {
	View       *view.SchemaView
	Strategy   Strategy
	Validators []validators.Validator
	Trackers   *validators.Trackers

	// Defaults fills in ifabsent values before validation runs (§4.5 step
	// 1). Set by New; callers may swap in a differently-clocked Applier.
	Defaults *defaults.Applier
	// Rules evaluates class-level preconditions/postconditions/else
	// conditions (§4.5 step 3, C8) after the slot loop.
	Rules *rule.Engine
	// Limits bounds each Validate/ValidateCollection call; New seeds it
	// with resource.DefaultLimits().
	Limits resource.Limits

	ruleErrors map[string]error
	callIndex  atomic.Int64
}

// New returns an Engine with the ten built-in validators registered in the
// order spec.md §4.5 lists them, running Sequential by default, with a
// fresh defaults.Applier and a rule.Engine pre-compiled for every class in
// v's schema. A class whose rules fail to compile is not excluded from
// validation: rule evaluation for it instead reports a single "internal"
// issue, matching §4.5's "validator internal errors ... never panic".
func New(v *view.SchemaView) *Engine {
	e := &Engine{
		View:       v,
		Strategy:   Sequential,
		Trackers:   validators.NewTrackers(),
		Defaults:   defaults.New(v.Schema()),
		Rules:      rule.NewEngine(nil),
		Limits:     resource.DefaultLimits(),
		ruleErrors: map[string]error{},
		Validators: []validators.Validator{
			validators.TypeValidator{},
			validators.RequiredValidator{},
			validators.CardinalityValidator{},
			validators.PatternValidator{},
			validators.RangeValidator{},
			validators.EnumValidator{},
			validators.ConditionalRequirementValidator{},
			validators.UniqueKeyValidator{},
			validators.CrossReferenceValidator{},
			validators.RecursionDepthValidator{},
		},
	}
	for _, name := range v.Schema().ClassOrder {
		if err := e.Rules.Compile(name, v.Schema().Classes[name]); err != nil {
			e.ruleErrors[name] = err
		}
	}
	return e
}

// RegisterCustom appends a custom validator to the end of the pipeline.
func (e *Engine) RegisterCustom(v validators.CustomValidator) {
	e.Validators = append(e.Validators, v)
}

// Validate checks instance against className and returns a full report.
// schemaID identifies the schema in the returned Report.
func (e *Engine) Validate(schemaID, className string, instance value.Value) *validate.Report {
	report := validate.NewReport(schemaID)
	report.TargetClass = className
	rs := &runState{monitor: resource.New(e.Limits)}
	idx := int(e.callIndex.Add(1) - 1)
	e.validateInstance(report, className, instance, "$", 0, idx, rs)
	return report
}

// ValidateCollection validates each of instances against className in
// order, attributing issues to "$[i]" paths. UniqueKeyValidator and
// CrossReferenceValidator already share Trackers across the whole call, so
// a duplicate unique-key value anywhere in instances is caught; its
// unique_key_violation issue's Context names the colliding indices (§4.5
// point 4, scenario S2). A resource breach stops the remaining instances
// after the terminal issue is appended (§7 propagation rule 4).
func (e *Engine) ValidateCollection(schemaID, className string, instances []value.Value) *validate.Report {
	report := validate.NewReport(schemaID)
	report.TargetClass = className
	rs := &runState{monitor: resource.New(e.Limits)}
	for i, instance := range instances {
		if rs.breached.Load() {
			break
		}
		e.validateInstance(report, className, instance, fmt.Sprintf("$[%d]", i), 0, i, rs)
	}
	return report
}

// runState is shared by every validator/rule call made while servicing one
// Validate/ValidateCollection call (and, under Strategy==Parallel, by every
// goroutine validating that call's slots), so a resource breach detected
// anywhere short-circuits the rest of the run after appending exactly one
// terminal issue.
type runState struct {
	monitor  *resource.Monitor
	breached atomic.Bool
}

// checkBreach consults the monitor's wall-clock budget. On first breach it
// appends the terminal issue and flips breached so later checkpoints
// short-circuit without emitting duplicates.
func (rs *runState) checkBreach(report *validate.Report, path string) bool {
	if rs.breached.Load() {
		return true
	}
	if err := rs.monitor.CheckTimeout(); err != nil {
		if rs.breached.CompareAndSwap(false, true) {
			report.AddIssue(validate.Issue{
				Severity:  validate.SeverityError,
				Message:   err.Error(),
				Path:      path,
				Validator: "ResourceMonitor",
				Code:      "resource_timeout",
			})
		}
		return true
	}
	return false
}

func (e *Engine) validateInstance(report *validate.Report, className string, instance value.Value, path string, depth int, instanceIndex int, rs *runState) {
	if rs.checkBreach(report, path) {
		return
	}

	if instance.Kind() == value.KindObject && instance.Object() != nil && e.Defaults != nil {
		if err := e.Defaults.Apply(context.Background(), instance.Object(), className); err != nil {
			report.AddIssue(validate.Issue{
				Severity:  validate.SeverityError,
				Message:   fmt.Sprintf("applying defaults for class %q: %s", className, err),
				Path:      path,
				Validator: "DefaultApplier",
				Code:      "internal",
			})
		}
	}

	classCtx := &validators.Context{
		View: e.View, ClassName: className, Slot: nil,
		Value: instance, Instance: instance, Path: path, Depth: depth,
		Trackers: e.Trackers, InstanceIndex: instanceIndex,
	}
	if e.runValidators(report, classCtx) && e.Strategy == FailFast {
		return
	}
	if class, ok := e.View.Schema().Classes[className]; ok && class.RecursionOptions != nil &&
		class.RecursionOptions.MaxDepth > 0 && depth > class.RecursionOptions.MaxDepth {
		return
	}

	slots := e.View.ClassSlots(className)
	if e.Strategy == Parallel {
		e.validateSlotsParallel(report, className, instance, slots, path, depth, instanceIndex, rs)
	} else {
		for _, slot := range slots {
			if e.validateSlot(report, className, instance, slot, path, depth, instanceIndex, rs) && e.Strategy == FailFast {
				return
			}
		}
	}

	e.runRules(report, className, instance, path, rs)
}

// runRules evaluates className's compiled rules (C8) against instance,
// converting every unsatisfied Result into a rule_postcondition_failed (for
// a matched "then" branch) or rule_else_failed (for an "else" branch) issue
// per spec.md §6.5.
func (e *Engine) runRules(report *validate.Report, className string, instance value.Value, path string, rs *runState) {
	if e.Rules == nil || rs.checkBreach(report, path) {
		return
	}
	if err, failed := e.ruleErrors[className]; failed {
		report.AddIssue(validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("rules for class %q failed to compile: %s", className, err),
			Path:      path,
			Validator: "RuleEngine",
			Code:      "internal",
		})
		return
	}

	results, err := e.Rules.Evaluate(className, instance, slotNamesOf(e.View.ClassSlots(className)))
	if err != nil {
		report.AddIssue(validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("evaluating rules for class %q: %s", className, err),
			Path:      path,
			Validator: "RuleEngine",
			Code:      "expression_error",
		})
		return
	}

	for _, res := range results {
		if res.Satisfied {
			continue
		}
		code := "rule_postcondition_failed"
		if res.Branch == "else" {
			code = "rule_else_failed"
		}
		report.AddIssue(validate.Issue{
			Severity:  validate.SeverityError,
			Message:   fmt.Sprintf("rule %q %s condition was not satisfied", res.Rule.Description, res.Branch),
			Path:      path,
			Validator: "RuleEngine",
			Code:      code,
		})
	}
}

func slotNamesOf(slots []*schema.Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return names
}

func (e *Engine) validateSlotsParallel(report *validate.Report, className string, instance value.Value, slots []*schema.Slot, path string, depth int, instanceIndex int, rs *runState) {
	type slotResult struct {
		issues []validate.Issue
		nested []nestedWork
	}
	results := make([]slotResult, len(slots))
	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slot *schema.Slot) {
			defer wg.Done()
			sub := validate.NewReport(report.SchemaID)
			nested := e.collectSlot(sub, className, instance, slot, path, depth, instanceIndex, rs)
			results[i] = slotResult{issues: sub.Issues, nested: nested}
		}(i, slot)
	}
	wg.Wait()
	for _, r := range results {
		for _, issue := range r.issues {
			report.AddIssue(issue)
		}
		for _, n := range r.nested {
			e.validateInstance(report, n.class, n.value, n.path, n.depth, n.instanceIndex, rs)
		}
	}
}

type nestedWork struct {
	class         string
	value         value.Value
	path          string
	depth         int
	instanceIndex int
}

func (e *Engine) validateSlot(report *validate.Report, className string, instance value.Value, slot *schema.Slot, path string, depth int, instanceIndex int, rs *runState) (hadError bool) {
	nested := e.collectSlot(report, className, instance, slot, path, depth, instanceIndex, rs)
	for _, n := range nested {
		e.validateInstance(report, n.class, n.value, n.path, n.depth, n.instanceIndex, rs)
	}
	return !report.Valid
}

// collectSlot runs every validator against one slot value and returns any
// nested class instances that still need recursive validation.
func (e *Engine) collectSlot(report *validate.Report, className string, instance value.Value, slot *schema.Slot, path string, depth int, instanceIndex int, rs *runState) []nestedWork {
	slotValue, _ := fieldValue(instance, slot.Name)
	slotPath := fmt.Sprintf("%s.%s", path, slot.Name)
	if rs.checkBreach(report, slotPath) {
		return nil
	}
	ctx := &validators.Context{
		View: e.View, ClassName: className, Slot: slot,
		Value: slotValue, Instance: instance, Path: slotPath, Depth: depth,
		Trackers: e.Trackers, InstanceIndex: instanceIndex,
	}
	e.runValidators(report, ctx)

	if _, isClass := e.View.Schema().Classes[slot.Range]; !isClass || slotValue.IsNull() {
		return nil
	}
	var nested []nestedWork
	if slotValue.Kind() == value.KindList {
		for i, item := range slotValue.List() {
			nested = append(nested, nestedWork{slot.Range, item, fmt.Sprintf("%s[%d]", slotPath, i), depth + 1, instanceIndex})
		}
	} else if slotValue.Kind() == value.KindObject {
		nested = append(nested, nestedWork{slot.Range, slotValue, slotPath, depth + 1, instanceIndex})
	}
	return nested
}

func (e *Engine) runValidators(report *validate.Report, ctx *validators.Context) (hadError bool) {
	for _, v := range e.Validators {
		for _, issue := range v.Validate(ctx) {
			report.AddIssue(issue)
			if issue.Severity == validate.SeverityError {
				hadError = true
			}
		}
		if hadError && e.Strategy == FailFast {
			return true
		}
	}
	return hadError
}

func fieldValue(instance value.Value, name string) (value.Value, bool) {
	if instance.Kind() != value.KindObject || instance.Object() == nil {
		return value.Null, false
	}
	return instance.Object().Get(name)
}

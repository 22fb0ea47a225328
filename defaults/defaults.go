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

// Package defaults applies a slot's ifabsent default-value strategy to
// instance data when the slot is missing (spec.md §3.1, §4.5; P5: applying
// defaults twice to the same object must be a no-op).
package defaults

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/linkml-io/linkml-go/expr/engine"
	"github.com/linkml-io/linkml-go/schema"
	"github.com/linkml-io/linkml-go/value"
)

// Clock abstracts the current time, so tests can supply a fixed instant
// instead of racing the system clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Applier computes and fills in default values for a schema's classes.
type Applier struct {
	Schema *schema.Schema
	Engine *engine.Engine
	Clock  Clock
}

// New returns an Applier for schema using a fresh expression engine and the
// system clock.
func New(sch *schema.Schema) *Applier {
	return &Applier{Schema: sch, Engine: engine.New(engine.DefaultConfig(), nil), Clock: systemClock{}}
}

var variablePattern = regexp.MustCompile(`\{([^}]+)\}`)

// Apply fills in default values for every slot of className absent from
// obj, checking the class's declared slots and then its slot_usage
// overrides, exactly as the original two-pass walk does. Already-present
// keys are never overwritten (P5: idempotent).
func (a *Applier) Apply(ctx context.Context, obj *value.Object, className string) error {
	class, ok := a.Schema.Classes[className]
	if !ok {
		return fmt.Errorf("defaults: class %q not found", className)
	}

	for _, slotName := range class.Slots {
		if _, present := obj.Get(slotName); present {
			continue
		}
		slot, ok := a.Schema.Slots[slotName]
		if !ok || slot.IfAbsent == nil {
			continue
		}
		v, err := a.computeDefault(ctx, slot.IfAbsent, slotName, className, obj)
		if err != nil {
			return err
		}
		if !v.IsNull() {
			obj.Set(slotName, v)
		}
	}

	for slotName, override := range class.SlotUsage {
		if _, present := obj.Get(slotName); present {
			continue
		}
		if override.IfAbsent == nil {
			continue
		}
		v, err := a.computeDefault(ctx, override.IfAbsent, slotName, className, obj)
		if err != nil {
			return err
		}
		if !v.IsNull() {
			obj.Set(slotName, v)
		}
	}
	return nil
}

func (a *Applier) computeDefault(ctx context.Context, action *schema.IfAbsentAction, slotName, className string, obj *value.Object) (value.Value, error) {
	switch action.Kind {
	case schema.IfAbsentSlotName:
		return value.String(slotName), nil
	case schema.IfAbsentClassName:
		return value.String(className), nil
	case schema.IfAbsentClassSlotCurie:
		return value.String(fmt.Sprintf("%s:%s", className, slotName)), nil
	case schema.IfAbsentBnode:
		return value.String("_:b" + uuid.New().String()), nil
	case schema.IfAbsentDefaultValue:
		if slot, ok := a.Schema.Slots[slotName]; ok && slot.Default != nil {
			return fromGo(slot.Default), nil
		}
		return value.Null, nil
	case schema.IfAbsentString:
		return value.String(action.StringVal), nil
	case schema.IfAbsentDate:
		return value.String(a.Clock.Now().Format("2006-01-02")), nil
	case schema.IfAbsentDatetime:
		return value.String(a.Clock.Now().UTC().Format(time.RFC3339)), nil
	case schema.IfAbsentInt:
		return value.Int(action.IntVal), nil
	case schema.IfAbsentExpression:
		return a.evaluateExpression(ctx, action.Expression, obj)
	default:
		return value.Null, nil
	}
}

// evaluateExpression runs expression through the real expression engine;
// on any evaluation error it falls back to literal {var} interpolation
// against obj's current fields, matching common schema author usage like
// "{prefix}_{number}" that isn't valid expression syntax on its own.
func (a *Applier) evaluateExpression(ctx context.Context, expression string, obj *value.Object) (value.Value, error) {
	env := make(map[string]value.Value, obj.Len())
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		env[k] = v
	}
	v, err := a.Engine.Evaluate(ctx, expression, "", env)
	if err == nil {
		return v, nil
	}
	return value.String(interpolate(expression, obj)), nil
}

func interpolate(expression string, obj *value.Object) string {
	return variablePattern.ReplaceAllStringFunc(expression, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := obj.Get(name)
		if !ok || v.Kind() != value.KindString {
			return match
		}
		return v.Str()
	})
}

func fromGo(v interface{}) value.Value {
	switch t := v.(type) {
	case string:
		return value.String(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case bool:
		return value.Bool(t)
	default:
		return value.Null
	}
}

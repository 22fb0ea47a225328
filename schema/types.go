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

// Package schema holds the pure, unresolved LinkML schema data model
// (§3.1 of the specification): Schema, Class, Slot, Type, Enum, Rule and
// their supporting types. Nothing in this package performs inheritance
// resolution, CURIE expansion, or validation — see internal/core/resolve,
// curie, and validate for those.
package schema

// Schema is the top-level parsed schema. Field order here mirrors the
// LinkML metamodel grouping in spec.md §3.1.
type Schema struct {
	ID      string // URI identity
	Name    string
	Version string

	Classes map[string]*Class
	Slots   map[string]*Slot
	Types   map[string]*Type
	Enums   map[string]*Enum

	Prefixes      map[string]string // CURIE prefix -> URI base
	DefaultPrefix string

	Metadata Metadata

	// ClassOrder, SlotOrder etc. record declaration order from the source
	// document, since §6.1 requires slot/rule ordering to survive
	// deserialization even though Go maps are unordered.
	ClassOrder []string
	SlotOrder  []string
	TypeOrder  []string
	EnumOrder  []string
}

// Metadata carries schema-level bookkeeping fields that never affect
// validation or resolution semantics.
type Metadata struct {
	Contributors []string
	License      string
	Keywords     []string
	Status       string
	Created      string
	Modified     string
}

// NewSchema returns an empty, initialized Schema ready for population by a
// parser.
func NewSchema() *Schema {
	return &Schema{
		Classes:  map[string]*Class{},
		Slots:    map[string]*Slot{},
		Types:    map[string]*Type{},
		Enums:    map[string]*Enum{},
		Prefixes: map[string]string{},
	}
}

// Class is a LinkML class definition (spec.md §3.1).
type Class struct {
	Name        string
	Description string

	IsA    string // optional parent class name
	Mixins []string

	Abstract  bool
	TreeRoot  bool

	Slots      []string          // ordered list of slot names
	SlotUsage  map[string]*Slot  // slot-name -> override (partial Slot)
	Attributes map[string]*Slot  // inline slot definitions
	// AttributeOrder preserves declaration order of inline attributes,
	// since Attributes is a map.
	AttributeOrder []string

	UniqueKeys map[string]*UniqueKey
	Rules      []*Rule
	IfRequired map[string]*ConditionalRequirement

	RecursionOptions *RecursionOptions
}

// RecursionOptions bounds self-referential instance depth for a class
// (§4.5 RecursionDepth validator).
type RecursionOptions struct {
	MaxDepth int
}

// ConditionalRequirement is the value of Class.IfRequired[slot] (§4.5
// ConditionalRequirement validator): when Condition matches, every slot
// named in ThenRequired must be present.
type ConditionalRequirement struct {
	Condition     *SlotCondition
	ThenRequired  []string
}

// Slot is a LinkML slot definition (spec.md §3.1). Used both for top-level
// named slots and, with most fields left zero, for slot_usage overrides
// and inline attributes.
type Slot struct {
	Name        string
	Description string

	Range string // Type/Class/Enum name; defaults to "string"

	Required     *bool
	Multivalued  *bool
	Identifier   *bool

	Pattern        string
	MinimumValue   *Number
	MaximumValue   *Number

	IfAbsent         *IfAbsentAction
	EqualsExpression string

	PermissibleValues []PermissibleValue // inline enum, if Range is empty

	Default interface{}

	CaseSensitive *bool // metadata.case_sensitive, nil means "unset"

	MinCardinality *int
	MaxCardinality *int
}

// Number is a schema-declared numeric literal, kept as a decimal string so
// later consumers can choose float64 or arbitrary-precision comparison
// (see validate/validators.Range) without a lossy round trip at parse time.
type Number struct {
	Literal string
}

// Type is a LinkML type definition (spec.md §3.1).
type Type struct {
	Name    string
	Base    string // string, integer, float, boolean, date, datetime, time, uri
	Pattern string
	Minimum *Number
	Maximum *Number
	TypeOf  string // parent type name
}

// Enum is a LinkML enumeration (spec.md §3.1).
type Enum struct {
	Name              string
	PermissibleValues []PermissibleValue
	// InstanceDataSource, if set, names an external InstanceData binding
	// (§3.1 "may be sourced from an InstanceData binding") consulted by the
	// Enum validator when PermissibleValues is empty.
	InstanceDataSource string
}

// PermissibleValue is one member of an enumeration; Text is required,
// Description and Meaning are optional (the "complex" form in spec.md
// §3.1).
type PermissibleValue struct {
	Text        string
	Description string
	Meaning     string
}

// Rule is a class-scoped precondition/postcondition pair (spec.md §3.1).
type Rule struct {
	Description     string
	Preconditions   *RuleConditions
	Postconditions  *RuleConditions
	ElseConditions  *RuleConditions
	Priority        int
	Deactivated     bool
}

// RuleConditions is one of {slot conditions, expression conditions,
// composite conditions} or a combination of all three evaluated as a
// logical AND (spec.md §3.1, §9 Open Question — AND is adopted explicitly).
type RuleConditions struct {
	SlotConditions       map[string]*SlotCondition
	ExpressionConditions []string
	CompositeConditions  *CompositeConditions
}

// CompositeConditions nests RuleConditions under a connective.
type CompositeConditions struct {
	AnyOf       []*RuleConditions
	AllOf       []*RuleConditions
	ExactlyOneOf []*RuleConditions
	NoneOf      []*RuleConditions
}

// SlotCondition is a single slot-scoped predicate (spec.md §3.1).
type SlotCondition struct {
	EqualsString     *string
	EqualsNumber     *Number
	EqualsExpression string
	Pattern          string
	MinimumValue     *Number
	MaximumValue     *Number
	Required         *bool // presence test
}

// UniqueKey is a composite uniqueness constraint over a class (spec.md
// §3.1; I4: an identifier slot is implicitly a primary unique key).
type UniqueKey struct {
	Name                  string
	SlotNames             []string
	ConsiderNullsInequal  bool // default true, per spec.md
}

// IfAbsentAction is the default-value strategy for an absent slot (spec.md
// §3.1, applied by package defaults).
type IfAbsentAction struct {
	Kind       IfAbsentKind
	StringVal  string
	IntVal     int64
	Expression string
}

// IfAbsentKind enumerates the IfAbsentAction variants.
type IfAbsentKind int

const (
	IfAbsentSlotName IfAbsentKind = iota
	IfAbsentClassName
	IfAbsentClassSlotCurie
	IfAbsentBnode
	IfAbsentDefaultValue
	IfAbsentString
	IfAbsentDate
	IfAbsentDatetime
	IfAbsentInt
	IfAbsentExpression
)

// InstanceData is an externally loaded permissible-value set (spec.md
// §3.1), produced by package loader. Its values reach the Enum validator
// only through EnumValidator.ExternalEnumValues, which the caller fills.
type InstanceData struct {
	Source   string
	LoadedAt string // ISO-8601
	Values   map[string][]string
}

package core

import (
	"strings"
)

// =============================================================================
// Record
// =============================================================================

// Source locates a record in the text it was parsed from.
type Source struct {
	Document string // document (file or package) name
	Section  string // section header the block appeared under
	Line     int    // line number of the declaration line
}

// Record is the unit of identity. The set of implementations is closed.
type Record interface {
	Name() string
	Kind() Kind
	Origin() Source
	base() *Base
}

// Base carries the identity shared by every record.
type Base struct {
	name   string
	source Source
}

// Name returns the globally unique record name.
func (b *Base) Name() string { return b.name }

// Origin returns where the record was declared.
func (b *Base) Origin() Source { return b.source }

func (b *Base) base() *Base { return b }

// SetName changes the record name without any uniqueness check.
// Registered records are renamed through the registry, which calls this.
func SetName(r Record, name string) {
	r.base().name = name
}

func newBase(name string, src Source) Base {
	return Base{name: name, source: src}
}

// =============================================================================
// Category
// =============================================================================

// Category organizes functions in the editor.
//
//	Key: category identifier
//	Value 0: display text
//	Value 1: icon image file
//	Value 2: optional flag (default 0) hiding the category name
type Category struct {
	Base
	DisplayText string
	Icon        string
	HideName    Flag
}

// NewCategory creates an unregistered category.
func NewCategory(name string, src Source) *Category {
	return &Category{Base: newBase(name, src)}
}

// Kind implements Record.
func (*Category) Kind() Kind { return KindCategory }

// =============================================================================
// Function family
// =============================================================================

// Function holds the fields shared by conditions, actions and calls.
type Function struct {
	Base
	MinVersion GameVersion
	ArgTypes   []string
	Params     *BlockParams
}

func newFunction(name string, src Source, k Kind) Function {
	return Function{Base: newBase(name, src), Params: NewBlockParams(k)}
}

// Condition is a boolean condition function.
//
//	Value 0: first game version in which the function is valid
//	Value 1+: argument types
type Condition struct {
	Function
}

// NewCondition creates an unregistered condition.
func NewCondition(name string, src Source) *Condition {
	return &Condition{Function: newFunction(name, src, KindCondition)}
}

// Kind implements Record.
func (*Condition) Kind() Kind { return KindCondition }

// Action is an action function.
//
//	Value 0: first game version in which the function is valid
//	Value 1+: argument types
type Action struct {
	Function
}

// NewAction creates an unregistered action.
func NewAction(name string, src Source) *Action {
	return &Action{Function: newFunction(name, src, KindAction)}
}

// Kind implements Record.
func (*Action) Kind() Kind { return KindAction }

// Call is a function call usable as a parameter value.
//
//	Value 0: first game version in which the function is valid
//	Value 1: flag indicating the call can be used in events
//	Value 2: return type
//	Value 3+: argument types
type Call struct {
	Function
	EventsUsable Flag
	ReturnType   string
}

// NewCall creates an unregistered call.
func NewCall(name string, src Source) *Call {
	return &Call{Function: newFunction(name, src, KindCall)}
}

// Kind implements Record.
func (*Call) Kind() Kind { return KindCall }

// FunctionOf returns the shared function fields of a Function-family record.
func FunctionOf(r Record) (*Function, bool) {
	switch f := r.(type) {
	case *Condition:
		return &f.Function, true
	case *Action:
		return &f.Function, true
	case *Call:
		return &f.Function, true
	}
	return nil, false
}

// =============================================================================
// Type
// =============================================================================

// Type is a trigger variable type.
//
//	Value 0: first game version in which the type is valid
//	Value 1: flag indicating the type can be a global variable
//	Value 2: flag indicating the type can be used with comparison operators
//	Value 3: display name
//	Value 4-6: base type, import type, treat-as-base flag (custom types only)
type Type struct {
	Base
	MinVersion  GameVersion
	IsGlobal    Flag
	Comparable  Flag
	DisplayName string
	// Custom is nil unless the optional trailing group was declared.
	Custom *CustomType
}

// CustomType is the trailing field group of a custom type.
type CustomType struct {
	BaseType    string
	ImportType  string
	TreatAsBase Flag
}

// NewType creates an unregistered type.
func NewType(name string, src Source) *Type {
	return &Type{Base: newBase(name, src)}
}

// Kind implements Record.
func (*Type) Kind() Kind { return KindType }

// =============================================================================
// TypeDefault
// =============================================================================

// DefaultSuffix is appended to a type name to form its TypeDefault name.
const DefaultSuffix = "_DEFAULT_"

// TypeDefaultName derives the identity name of the default for typeName.
func TypeDefaultName(typeName string) string {
	return typeName + DefaultSuffix
}

// TypeDefault is the default value of a type's variables.
type TypeDefault struct {
	Base
	ScriptText  string
	DisplayText string
}

// NewTypeDefault creates an unregistered default for typeName.
func NewTypeDefault(typeName string, src Source) *TypeDefault {
	return &TypeDefault{Base: newBase(TypeDefaultName(typeName), src)}
}

// Kind implements Record.
func (*TypeDefault) Kind() Kind { return KindTypeDefault }

// TypeName returns the name of the owning type.
func (d *TypeDefault) TypeName() string {
	return strings.TrimSuffix(d.name, DefaultSuffix)
}

// =============================================================================
// Unknown
// =============================================================================

// Unknown is an opaque block from a section whose grammar is not modeled.
// It takes part in name uniqueness only.
type Unknown struct {
	Base
	// Lines are the block's original lines, replayed verbatim.
	Lines []string
}

// NewUnknown creates an unregistered passthrough record.
func NewUnknown(name string, src Source, lines []string) *Unknown {
	return &Unknown{Base: newBase(name, src), Lines: lines}
}

// Kind implements Record.
func (*Unknown) Kind() Kind { return KindUnknown }

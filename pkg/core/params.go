package core

import (
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// Block parameters
// =============================================================================

// Param is a block-parameter name, written as _<Key>_<Param>=value.
type Param string

// Recognized block parameters.
const (
	ParamDefaults   Param = "Defaults"
	ParamLimits     Param = "Limits"
	ParamCategory   Param = "Category"
	ParamScriptName Param = "ScriptName"
)

// whitelist is the static kind → allowed parameters table.
// Conditions and Calls do not accept ScriptName.
var whitelist = map[Kind][]Param{
	KindCondition: {ParamDefaults, ParamLimits, ParamCategory},
	KindAction:    {ParamDefaults, ParamLimits, ParamCategory, ParamScriptName},
	KindCall:      {ParamDefaults, ParamLimits, ParamCategory},
}

// Whitelist returns the block parameters allowed for kind k.
// Kinds outside the Function family accept none.
func Whitelist(k Kind) []Param {
	return slices.Clone(whitelist[k])
}

// Supports reports whether kind k accepts block parameter p.
func Supports(k Kind, p Param) bool {
	return slices.Contains(whitelist[k], p)
}

// Value is the typed value of a block parameter.
type Value interface {
	// String renders the value as it appears after '=' in a continuation line.
	String() string
	// IsSet is false only for Unset.
	IsSet() bool
}

// List is the value of Defaults and Limits.
type List []string

func (l List) String() string { return strings.Join(l, ",") }

// IsSet implements Value.
func (l List) IsSet() bool { return true }

// CategoryRef is a back-reference to a Category record, held by name.
type CategoryRef string

func (c CategoryRef) String() string { return string(c) }

// IsSet implements Value.
func (c CategoryRef) IsSet() bool { return true }

// ScriptName overrides the script function name of an Action.
type ScriptName string

func (s ScriptName) String() string { return string(s) }

// IsSet implements Value.
func (s ScriptName) IsSet() bool { return true }

type unset struct{}

func (unset) String() string { return "" }
func (unset) IsSet() bool    { return false }

// Unset is returned when reading a whitelisted parameter that was never set.
var Unset Value = unset{}

// ParseValue converts the raw text of a continuation line into the value
// type of parameter p. It does not resolve Category references.
func ParseValue(p Param, raw string) (Value, error) {
	switch p {
	case ParamDefaults, ParamLimits:
		return List(SplitFields(raw)), nil
	case ParamCategory:
		if raw == "" {
			return nil, fmt.Errorf("empty category reference")
		}
		return CategoryRef(raw), nil
	case ParamScriptName:
		if raw == "" {
			return nil, fmt.Errorf("empty script name")
		}
		return ScriptName(raw), nil
	default:
		return nil, fmt.Errorf("unrecognized block parameter %q", p)
	}
}

func valueMatches(p Param, v Value) bool {
	switch v.(type) {
	case List:
		return p == ParamDefaults || p == ParamLimits
	case CategoryRef:
		return p == ParamCategory
	case ScriptName:
		return p == ParamScriptName
	}
	return false
}

// BlockParams is the ordered, whitelist-constrained parameter map of a
// Function-family record. Iteration order is insertion order.
type BlockParams struct {
	kind   Kind
	order  []Param
	values map[Param]Value
}

// NewBlockParams returns an empty map constrained to the whitelist of k.
func NewBlockParams(k Kind) *BlockParams {
	return &BlockParams{kind: k, values: make(map[Param]Value)}
}

// Kind returns the kind whose whitelist constrains the map.
func (b *BlockParams) Kind() Kind { return b.kind }

// Get returns the value of p, or Unset when p is allowed but absent.
// Reading a parameter outside the whitelist is an error.
func (b *BlockParams) Get(p Param) (Value, error) {
	if !Supports(b.kind, p) {
		return nil, &InvalidBlockParameterError{Kind: b.kind, Param: p}
	}
	if v, ok := b.values[p]; ok {
		return v, nil
	}
	return Unset, nil
}

// Set stores v under p. Overwriting keeps the original position.
func (b *BlockParams) Set(p Param, v Value) error {
	if !Supports(b.kind, p) {
		return &InvalidBlockParameterError{Kind: b.kind, Param: p}
	}
	if v == nil || !v.IsSet() {
		return b.Delete(p)
	}
	if !valueMatches(p, v) {
		return &InvalidValueError{Field: string(p), Value: v.String(), Reason: fmt.Sprintf("wrong value type %T", v)}
	}
	if _, ok := b.values[p]; !ok {
		b.order = append(b.order, p)
	}
	b.values[p] = v
	return nil
}

// Delete removes p. Deleting an allowed parameter that is not set is a no-op.
func (b *BlockParams) Delete(p Param) error {
	if !Supports(b.kind, p) {
		return &InvalidBlockParameterError{Kind: b.kind, Param: p}
	}
	if _, ok := b.values[p]; !ok {
		return nil
	}
	delete(b.values, p)
	b.order = slices.DeleteFunc(b.order, func(q Param) bool { return q == p })
	return nil
}

// Has reports whether p is set.
func (b *BlockParams) Has(p Param) bool {
	_, ok := b.values[p]
	return ok
}

// Params returns the set parameters in insertion order.
func (b *BlockParams) Params() []Param {
	return slices.Clone(b.order)
}

// Len returns the number of set parameters.
func (b *BlockParams) Len() int { return len(b.order) }

// Category returns the referenced category name, if set.
func (b *BlockParams) Category() (string, bool) {
	v, ok := b.values[ParamCategory].(CategoryRef)
	return string(v), ok
}

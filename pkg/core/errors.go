package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error taxonomy
// =============================================================================

// ErrSyntax is the root of every syntax or semantic error in trigger data.
var ErrSyntax = errors.New("trigger data error")

// Error categories. Each wraps ErrSyntax.
var (
	ErrStructural            = fmt.Errorf("%w: structural error", ErrSyntax)
	ErrDuplicateName         = fmt.Errorf("%w: duplicate name", ErrSyntax)
	ErrUnknownSymbol         = fmt.Errorf("%w: unknown symbol", ErrSyntax)
	ErrUnrecognizedSection   = fmt.Errorf("%w: unrecognized section", ErrSyntax)
	ErrInvalidBlockParameter = fmt.Errorf("%w: invalid block parameter", ErrSyntax)
	ErrReferencedObject      = fmt.Errorf("%w: referenced object", ErrSyntax)
	ErrInvalidValue          = fmt.Errorf("%w: invalid value", ErrSyntax)
)

// Position is a location in a document.
type Position struct {
	File string
	Line int
}

func (p Position) prefix(msg string) string {
	switch {
	case p.File != "" && p.Line > 0:
		return fmt.Sprintf("%s:%d: %s", p.File, p.Line, msg)
	case p.File != "":
		return fmt.Sprintf("%s: %s", p.File, msg)
	case p.Line > 0:
		return fmt.Sprintf("line %d: %s", p.Line, msg)
	}
	return msg
}

// StructuralError is a block member outside a block, a duplicate or
// malformed section header, or a continuation line for another key.
type StructuralError struct {
	Pos     Position
	Message string
}

func (e *StructuralError) Error() string { return e.Pos.prefix(e.Message) }

// Unwrap returns ErrStructural.
func (e *StructuralError) Unwrap() error { return ErrStructural }

// DuplicateNameError is returned when a name is already in the symbol table.
type DuplicateNameError struct {
	Pos      Position
	Name     string
	Existing Kind
}

func (e *DuplicateNameError) Error() string {
	return e.Pos.prefix(fmt.Sprintf("symbol %q already exists (%s)", e.Name, e.Existing))
}

// Unwrap returns ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// UnknownSymbolError is a lookup of a name that is not in the table, or that
// names a record of the wrong kind.
type UnknownSymbolError struct {
	Pos  Position
	Name string
	// Want is the kind the lookup required, KindInvalid for any kind.
	Want Kind
	// Got is the kind actually found when Want did not match.
	Got Kind
}

func (e *UnknownSymbolError) Error() string {
	if e.Got != KindInvalid {
		return e.Pos.prefix(fmt.Sprintf("symbol %q is a %s, not a %s", e.Name, e.Got, e.Want))
	}
	return e.Pos.prefix(fmt.Sprintf("symbol %q is not defined", e.Name))
}

// Unwrap returns ErrUnknownSymbol.
func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// UnrecognizedSectionError reports a section with no bound record kind.
// It is not fatal: the section is skipped.
type UnrecognizedSectionError struct {
	Pos     Position
	Section string
}

func (e *UnrecognizedSectionError) Error() string {
	return e.Pos.prefix(fmt.Sprintf("section [%s] is not recognized", e.Section))
}

// Unwrap returns ErrUnrecognizedSection.
func (e *UnrecognizedSectionError) Unwrap() error { return ErrUnrecognizedSection }

// InvalidBlockParameterError is a parameter outside the kind's whitelist,
// or a parameter given twice in one block.
type InvalidBlockParameterError struct {
	Pos    Position
	Record string
	Kind   Kind
	Param  Param
	Reason string
}

func (e *InvalidBlockParameterError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("not allowed for %s records", e.Kind)
	}
	if e.Record != "" {
		return e.Pos.prefix(fmt.Sprintf("block parameter %q on %s: %s", e.Param, e.Record, reason))
	}
	return e.Pos.prefix(fmt.Sprintf("block parameter %q: %s", e.Param, reason))
}

// Unwrap returns ErrInvalidBlockParameter.
func (e *InvalidBlockParameterError) Unwrap() error { return ErrInvalidBlockParameter }

// ReferencedObjectError is returned when removing a record that others
// still reference. References holds the full reference set.
type ReferencedObjectError struct {
	Name       string
	References []string
}

func (e *ReferencedObjectError) Error() string {
	return fmt.Sprintf("cannot remove %s because it is referenced by %s", e.Name, strings.Join(e.References, ", "))
}

// Unwrap returns ErrReferencedObject.
func (e *ReferencedObjectError) Unwrap() error { return ErrReferencedObject }

// InvalidValueError is a malformed positional field or parameter value.
type InvalidValueError struct {
	Pos    Position
	Record string
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Record != "" {
		msg = fmt.Sprintf("%s: %s", e.Record, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return e.Pos.prefix(msg)
}

// Unwrap returns ErrInvalidValue.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

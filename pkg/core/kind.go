package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Kind
// =============================================================================

// Kind identifies one of the fixed record kinds.
type Kind int

// Record kinds. KindFunction is abstract: no record has it, it names the
// Condition/Action/Call family for enumeration.
const (
	KindInvalid Kind = iota
	KindCategory
	KindCondition
	KindAction
	KindCall
	KindType
	KindTypeDefault
	KindUnknown
	KindFunction
)

var kindNames = map[Kind]string{
	KindCategory:    "Category",
	KindCondition:   "Condition",
	KindAction:      "Action",
	KindCall:        "Call",
	KindType:        "Type",
	KindTypeDefault: "TypeDefault",
	KindUnknown:     "Unknown",
	KindFunction:    "Function",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Invalid"
}

// ParseKind converts a case-insensitive kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if strings.ToLower(name) == want {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown record kind %q", s)
}

// ConcreteKinds returns every kind a record can have, in declaration order.
func ConcreteKinds() []Kind {
	return []Kind{
		KindCategory,
		KindType,
		KindTypeDefault,
		KindCondition,
		KindAction,
		KindCall,
		KindUnknown,
	}
}

// Concrete expands k into the concrete kinds it covers.
// A concrete kind expands to itself; KindFunction expands to its family.
func (k Kind) Concrete() []Kind {
	switch k {
	case KindFunction:
		return []Kind{KindCondition, KindAction, KindCall}
	case KindInvalid:
		return nil
	default:
		return []Kind{k}
	}
}

// IsFunction reports whether k belongs to the Function family.
func (k Kind) IsFunction() bool {
	return k == KindCondition || k == KindAction || k == KindCall
}

// Referenceable reports whether records of kind k can be the target of a
// reference held by another record.
func (k Kind) Referenceable() bool {
	return k == KindCategory || k == KindType
}

package loader

import "github.com/leapstack-labs/trigdata/pkg/core"

// sectionKinds binds section names to record kinds.
var sectionKinds = map[string]core.Kind{
	"TriggerCategories":   core.KindCategory,
	"TriggerTypes":        core.KindType,
	"TriggerTypeDefaults": core.KindTypeDefault,
	"TriggerConditions":   core.KindCondition,
	"TriggerActions":      core.KindAction,
	"TriggerCalls":        core.KindCall,
}

// unmodeledSections are known sections whose grammar is not modeled.
// They are kept as Unknown records when preserving unmodeled content.
var unmodeledSections = map[string]bool{
	"TriggerEvents":            true,
	"TriggerParams":            true,
	"DefaultTriggerCategories": true,
	"DefaultTriggers":          true,
}

// SectionKind returns the record kind bound to a modeled section.
func SectionKind(section string) (core.Kind, bool) {
	k, ok := sectionKinds[section]
	return k, ok
}

// SectionName returns the section a modeled kind is declared in.
func SectionName(kind core.Kind) (string, bool) {
	for name, k := range sectionKinds {
		if k == kind {
			return name, true
		}
	}
	return "", false
}

// IsUnmodeled reports whether section is a known section without a model.
func IsUnmodeled(section string) bool {
	return unmodeledSections[section]
}

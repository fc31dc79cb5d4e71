package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/spf13/cobra"
)

// parseKindFlag parses --kind. Empty selects every concrete kind.
func parseKindFlag(s string) ([]core.Kind, error) {
	if s == "" {
		return core.ConcreteKinds(), nil
	}
	for _, k := range core.ConcreteKinds() {
		if strings.EqualFold(k.String(), s) {
			return []core.Kind{k}, nil
		}
	}
	if strings.EqualFold(core.KindFunction.String(), s) {
		return core.KindFunction.Concrete(), nil
	}
	return nil, fmt.Errorf("unknown kind %q", s)
}

// completeKinds completes --kind values.
func completeKinds(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	kinds := make([]string, 0, len(core.ConcreteKinds())+1)
	for _, k := range core.ConcreteKinds() {
		kinds = append(kinds, strings.ToLower(k.String()))
	}
	kinds = append(kinds, strings.ToLower(core.KindFunction.String()))
	return kinds, cobra.ShellCompDirectiveNoFileComp
}

// recordInfo describes rec for structured output.
func recordInfo(eng *engine.Engine, rec core.Record) output.RecordInfo {
	src := rec.Origin()
	info := output.RecordInfo{
		Name:       rec.Name(),
		Kind:       rec.Kind().String(),
		Document:   src.Document,
		Section:    src.Section,
		Line:       src.Line,
		Fields:     recordFields(rec),
		References: eng.References(rec.Name()),
	}
	if text, err := eng.FormatRecord(rec.Name()); err == nil {
		info.Text = text
	}
	return info
}

// recordFields lists the values of rec in declaration order.
func recordFields(rec core.Record) []output.Field {
	var fields []output.Field
	add := func(key, value string) {
		fields = append(fields, output.Field{Key: key, Value: value})
	}

	switch r := rec.(type) {
	case *core.Category:
		add("display_text", r.DisplayText)
		add("icon", r.Icon)
		add("hide_name", r.HideName.String())
	case *core.Type:
		add("min_version", versionValue(r.MinVersion))
		add("is_global", r.IsGlobal.String())
		add("comparable", r.Comparable.String())
		add("display_name", r.DisplayName)
		if r.Custom != nil {
			add("base_type", r.Custom.BaseType)
			add("import_type", r.Custom.ImportType)
			add("treat_as_base", r.Custom.TreatAsBase.String())
		}
	case *core.TypeDefault:
		add("type", r.TypeName())
		add("script_text", r.ScriptText)
		if r.DisplayText != "" {
			add("display_text", r.DisplayText)
		}
	case *core.Unknown:
		add("lines", fmt.Sprint(len(r.Lines)))
	}

	if fn, ok := core.FunctionOf(rec); ok {
		add("min_version", versionValue(fn.MinVersion))
		if call, ok := rec.(*core.Call); ok {
			add("events_usable", call.EventsUsable.String())
			add("return_type", call.ReturnType)
		}
		add("arg_types", strings.Join(fn.ArgTypes, ","))
		for _, p := range fn.Params.Params() {
			if v, err := fn.Params.Get(p); err == nil {
				add("_"+string(p), v.String())
			}
		}
	}
	return fields
}

func versionValue(v core.GameVersion) string {
	return fmt.Sprintf("%s (%s)", v, v.Title())
}

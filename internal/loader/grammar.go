package loader

import (
	"fmt"

	"github.com/leapstack-labs/trigdata/internal/parser"
	"github.com/leapstack-labs/trigdata/pkg/core"
)

// decoder interprets the positional fields of one declaration line.
type decoder struct {
	f      *Factory
	key    string
	line   parser.Line
	fields []string
}

func (d *decoder) invalid(field, value, reason string) error {
	return &core.InvalidValueError{
		Pos:    d.f.pos(d.line),
		Record: d.key,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

func (d *decoder) arity(kind core.Kind, want string) error {
	return d.invalid("field count", fmt.Sprint(len(d.fields)), fmt.Sprintf("%s expects %s", kind, want))
}

func (d *decoder) version(i int) (core.GameVersion, error) {
	v, err := core.ParseGameVersion(d.fields[i])
	if err != nil {
		return 0, d.invalid("minimum version", d.fields[i], err.Error())
	}
	return v, nil
}

func (d *decoder) flag(i int, name string) (core.Flag, error) {
	v, err := core.ParseFlag(d.fields[i])
	if err != nil {
		return false, d.invalid(name, d.fields[i], err.Error())
	}
	return v, nil
}

func (d *decoder) typeName(i int, name string) (string, error) {
	if d.fields[i] == "" {
		return "", d.invalid(name, "", "empty type name")
	}
	return d.fields[i], nil
}

// noParams rejects continuation lines for kinds without block parameters.
func (d *decoder) noParams(kind core.Kind, block *parser.Block) error {
	for _, l := range block.Continuations() {
		param, _, ok := paramName(d.key, l)
		if !ok {
			return d.foreignMember(l)
		}
		return &core.InvalidBlockParameterError{Pos: d.f.pos(l), Record: d.key, Kind: kind, Param: param}
	}
	return nil
}

func (d *decoder) foreignMember(l parser.Line) error {
	return &core.StructuralError{
		Pos:     d.f.pos(l),
		Message: fmt.Sprintf("block member %q does not belong to %s", l.Text, d.key),
	}
}

// Category: displayText, icon[, hideName]
func (d *decoder) category(src core.Source, block *parser.Block) (core.Record, error) {
	if len(d.fields) < 2 || len(d.fields) > 3 {
		return nil, d.arity(core.KindCategory, "2 or 3 fields")
	}
	c := core.NewCategory(d.key, src)
	c.DisplayText = d.fields[0]
	c.Icon = d.fields[1]
	if len(d.fields) == 3 {
		hide, err := d.flag(2, "hide-name flag")
		if err != nil {
			return nil, err
		}
		c.HideName = hide
	}
	return c, d.noParams(core.KindCategory, block)
}

// function decodes minVersion and the argument types from index first on,
// then the block parameters. first is where argument types start.
func (d *decoder) function(fn *core.Function, first int, block *parser.Block) error {
	kind := fn.Params.Kind()
	if len(d.fields) < first {
		return d.arity(kind, fmt.Sprintf("at least %d fields", first))
	}
	v, err := d.version(0)
	if err != nil {
		return err
	}
	fn.MinVersion = v

	for i := first; i < len(d.fields); i++ {
		t, err := d.typeName(i, "argument type")
		if err != nil {
			return err
		}
		fn.ArgTypes = append(fn.ArgTypes, t)
	}

	return d.params(fn, block)
}

func (d *decoder) params(fn *core.Function, block *parser.Block) error {
	kind := fn.Params.Kind()
	for _, l := range block.Continuations() {
		param, raw, ok := paramName(d.key, l)
		if !ok {
			return d.foreignMember(l)
		}
		if !core.Supports(kind, param) {
			return &core.InvalidBlockParameterError{Pos: d.f.pos(l), Record: d.key, Kind: kind, Param: param}
		}
		if fn.Params.Has(param) {
			return &core.InvalidBlockParameterError{
				Pos: d.f.pos(l), Record: d.key, Kind: kind, Param: param,
				Reason: "given more than once",
			}
		}
		value, err := core.ParseValue(param, raw)
		if err != nil {
			return &core.InvalidValueError{Pos: d.f.pos(l), Record: d.key, Field: string(param), Value: raw, Reason: err.Error()}
		}
		if ref, ok := value.(core.CategoryRef); ok {
			if err := d.f.resolveCategory(string(ref), l); err != nil {
				return err
			}
		}
		if err := fn.Params.Set(param, value); err != nil {
			return err
		}
	}
	return nil
}

// Call: minVersion, eventsFlag, returnType, argType*
func (d *decoder) call(src core.Source, block *parser.Block) (core.Record, error) {
	if len(d.fields) < 3 {
		return nil, d.arity(core.KindCall, "at least 3 fields")
	}
	c := core.NewCall(d.key, src)
	events, err := d.flag(1, "events flag")
	if err != nil {
		return nil, err
	}
	c.EventsUsable = events
	if c.ReturnType, err = d.typeName(2, "return type"); err != nil {
		return nil, err
	}
	return c, d.function(&c.Function, 3, block)
}

// Type: minVersion, isGlobal, comparable, displayName[, baseType, importType, treatAsBase]
//
// The trailing group is all-or-none.
func (d *decoder) typ(src core.Source, block *parser.Block) (core.Record, error) {
	if len(d.fields) != 4 && len(d.fields) != 7 {
		return nil, d.arity(core.KindType, "4 fields, or 7 with base type, import type and treat-as-base")
	}
	t := core.NewType(d.key, src)

	var err error
	if t.MinVersion, err = d.version(0); err != nil {
		return nil, err
	}
	if t.IsGlobal, err = d.flag(1, "global flag"); err != nil {
		return nil, err
	}
	if t.Comparable, err = d.flag(2, "comparable flag"); err != nil {
		return nil, err
	}
	t.DisplayName = d.fields[3]

	if len(d.fields) == 7 {
		custom := &core.CustomType{ImportType: d.fields[5]}
		if custom.BaseType, err = d.typeName(4, "base type"); err != nil {
			return nil, err
		}
		if custom.TreatAsBase, err = d.flag(6, "treat-as-base flag"); err != nil {
			return nil, err
		}
		t.Custom = custom
	}
	return t, d.noParams(core.KindType, block)
}

// TypeDefault: scriptText[, displayText]
func (d *decoder) typeDefault(src core.Source, block *parser.Block) (core.Record, error) {
	if len(d.fields) < 1 || len(d.fields) > 2 {
		return nil, d.arity(core.KindTypeDefault, "1 or 2 fields")
	}
	td := core.NewTypeDefault(d.key, src)
	td.ScriptText = d.fields[0]
	if len(d.fields) == 2 {
		td.DisplayText = d.fields[1]
	}
	return td, d.noParams(core.KindTypeDefault, block)
}

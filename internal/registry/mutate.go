package registry

import (
	"errors"
	"slices"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Rename changes the name of a record, keeping its declaration position.
//
// Renaming a Category rewrites the Category parameter of every referrer.
// Renaming a Type rewrites argument and return types of every referrer and
// renames the Type's default along with it. Every new name is checked
// before anything changes: on a collision the rename fails with
// *core.DuplicateNameError and the table is untouched.
func (r *Registry) Rename(oldName, newName string) error {
	rec, err := r.Lookup(oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if newName == "" {
		return &core.InvalidValueError{Record: oldName, Field: "name", Reason: "empty name"}
	}
	if rec.Kind() == core.KindTypeDefault {
		return &core.InvalidValueError{
			Record: oldName, Field: "name", Value: newName,
			Reason: "a type default is renamed with its type",
		}
	}

	moves := map[string]string{oldName: newName}
	if rec.Kind() == core.KindType {
		if def := core.TypeDefaultName(oldName); r.Contains(def) {
			moves[def] = core.TypeDefaultName(newName)
		}
	}
	for _, to := range moves {
		if existing, ok := r.records[to]; ok {
			return &core.DuplicateNameError{Name: to, Existing: existing.Kind()}
		}
	}

	referrers := r.References(oldName)
	for from := range moves {
		r.unindex(from)
	}
	for _, ref := range referrers {
		r.unindex(ref)
	}

	for from, to := range moves {
		r.move(from, to)
	}

	for _, ref := range referrers {
		// A referrer may itself have been moved (the Type's default).
		if to, ok := moves[ref]; ok {
			ref = to
		}
		retarget(r.records[ref], rec.Kind(), oldName, newName)
		r.index(r.records[ref])
	}
	for _, to := range moves {
		r.reindex(r.records[to])
	}

	r.logger.Debug("record renamed", "from", oldName, "to", newName, "kind", rec.Kind(), "referrers", len(referrers))
	return nil
}

// move re-keys a record in place.
func (r *Registry) move(from, to string) {
	rec := r.records[from]
	core.SetName(rec, to)

	delete(r.records, from)
	r.records[to] = rec

	r.seq[to] = r.seq[from]
	delete(r.seq, from)

	names := r.byKind[rec.Kind()]
	if i := slices.Index(names, from); i >= 0 {
		names[i] = to
	}
}

// retarget rewrites the references to from held by rec in the fields
// that refer to a record of kind k.
func retarget(rec core.Record, k core.Kind, from, to string) {
	fn, ok := core.FunctionOf(rec)
	if !ok {
		return
	}
	if k == core.KindCategory {
		if cat, ok := fn.Params.Category(); ok && cat == from {
			_ = fn.Params.Set(core.ParamCategory, core.CategoryRef(to))
		}
		return
	}
	for i, t := range fn.ArgTypes {
		if t == from {
			fn.ArgTypes[i] = to
		}
	}
	if call, ok := rec.(*core.Call); ok && call.ReturnType == from {
		call.ReturnType = to
	}
}

// function looks up a Function-family record for an access to block
// parameter p. Records of other kinds accept no block parameters.
func (r *Registry) function(name string, p core.Param) (core.Record, *core.Function, error) {
	rec, err := r.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	fn, ok := core.FunctionOf(rec)
	if !ok {
		return nil, nil, &core.InvalidBlockParameterError{Record: name, Kind: rec.Kind(), Param: p}
	}
	return rec, fn, nil
}

// Param returns block parameter p of a Function-family record, or
// core.Unset when it was never set.
func (r *Registry) Param(name string, p core.Param) (core.Value, error) {
	_, fn, err := r.function(name, p)
	if err != nil {
		return nil, err
	}
	v, err := fn.Params.Get(p)
	if err != nil {
		var ibp *core.InvalidBlockParameterError
		if errors.As(err, &ibp) {
			ibp.Record = name
		}
		return nil, err
	}
	return v, nil
}

// SetParam sets a block parameter on a Function-family record. The
// parameter must be in the record kind's whitelist and a Category value
// must name a registered Category.
func (r *Registry) SetParam(name string, p core.Param, v core.Value) error {
	rec, fn, err := r.function(name, p)
	if err != nil {
		return err
	}
	if !core.Supports(rec.Kind(), p) {
		return &core.InvalidBlockParameterError{Record: name, Kind: rec.Kind(), Param: p}
	}
	if ref, ok := v.(core.CategoryRef); ok {
		if _, err := r.LookupKind(string(ref), core.KindCategory); err != nil {
			return err
		}
	}
	if err := fn.Params.Set(p, v); err != nil {
		return err
	}
	r.reindex(rec)
	return nil
}

// DeleteParam clears a block parameter on a Function-family record.
func (r *Registry) DeleteParam(name string, p core.Param) error {
	rec, fn, err := r.function(name, p)
	if err != nil {
		return err
	}
	if err := fn.Params.Delete(p); err != nil {
		var ibp *core.InvalidBlockParameterError
		if errors.As(err, &ibp) {
			ibp.Record = name
		}
		return err
	}
	r.reindex(rec)
	return nil
}

package registry

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// edge is an outgoing reference from a record to a name.
type edge struct {
	target string
	want   core.Kind
}

// kindSet holds the kinds one referrer expects a target to have. A
// function may name the same target as its category and as a type.
type kindSet map[core.Kind]struct{}

// outgoing lists what rec refers to:
//   - a Function-family record refers to its Category parameter,
//     its argument types and, for a Call, its return type;
//   - a TypeDefault refers to its owning Type.
func outgoing(rec core.Record) []edge {
	var edges []edge
	if fn, ok := core.FunctionOf(rec); ok {
		if cat, ok := fn.Params.Category(); ok {
			edges = append(edges, edge{cat, core.KindCategory})
		}
		for _, t := range fn.ArgTypes {
			edges = append(edges, edge{t, core.KindType})
		}
	}
	switch rec := rec.(type) {
	case *core.Call:
		edges = append(edges, edge{rec.ReturnType, core.KindType})
	case *core.TypeDefault:
		edges = append(edges, edge{rec.TypeName(), core.KindType})
	}
	return edges
}

func (r *Registry) index(rec core.Record) {
	name := rec.Name()
	for _, e := range outgoing(rec) {
		referrers, ok := r.refs[e.target]
		if !ok {
			referrers = make(map[string]kindSet)
			r.refs[e.target] = referrers
		}
		if referrers[name] == nil {
			referrers[name] = make(kindSet)
		}
		referrers[name][e.want] = struct{}{}
		if !slices.Contains(r.forward[name], e.target) {
			r.forward[name] = append(r.forward[name], e.target)
		}
	}
}

func (r *Registry) unindex(name string) {
	for _, target := range r.forward[name] {
		delete(r.refs[target], name)
		if len(r.refs[target]) == 0 {
			delete(r.refs, target)
		}
	}
	delete(r.forward, name)
}

// reindex recomputes the outgoing edges of a record after it changed.
func (r *Registry) reindex(rec core.Record) {
	r.unindex(rec.Name())
	r.index(rec)
}

// References returns the names of the records referring to name, in
// declaration order. Only Categories and Types can be referenced.
func (r *Registry) References(name string) []string {
	rec, ok := r.records[name]
	if !ok || !rec.Kind().Referenceable() {
		return nil
	}

	var refs []string
	for referrer, wants := range r.refs[name] {
		if _, ok := wants[rec.Kind()]; ok {
			refs = append(refs, referrer)
		}
	}
	slices.SortFunc(refs, func(a, b string) int {
		return cmp.Compare(r.seq[a], r.seq[b])
	})
	return refs
}

// IsReferenced reports whether any record refers to name.
func (r *Registry) IsReferenced(name string) bool {
	return len(r.References(name)) > 0
}

// Targets returns the names rec refers to, in field order.
func (r *Registry) Targets(name string) []string {
	return slices.Clone(r.forward[name])
}

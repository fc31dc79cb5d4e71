// Package registry provides the symbol table for trigger data records.
// It enforces global name uniqueness, keeps one ordered registry per record
// kind and maintains a reverse reference index so that removal of a record
// still referenced by others can be refused without scanning the table.
package registry

import (
	"log/slog"
	"slices"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Registry maps record names to records.
//
// A Registry is not safe for concurrent use. Independent registries share
// no state.
type Registry struct {
	// records maps every live name to its record: "TC_GAME" → *core.Category
	records map[string]core.Record

	// byKind holds names per concrete kind in declaration order.
	byKind map[core.Kind][]string

	// seq orders records across kinds. A rename keeps the sequence number.
	seq  map[string]uint64
	next uint64

	// refs is the reverse index: target name → referrer name → wanted kinds.
	// An edge only counts as a reference when the target's kind matches.
	refs map[string]map[string]kindSet

	// forward lists the targets each referrer points at, for unindexing.
	forward map[string][]string

	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a new empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{logger: slog.New(slog.DiscardHandler)}
	r.reset()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) reset() {
	r.records = make(map[string]core.Record)
	r.byKind = make(map[core.Kind][]string)
	r.seq = make(map[string]uint64)
	r.refs = make(map[string]map[string]kindSet)
	r.forward = make(map[string][]string)
	r.next = 0
}

// Clear drops every record so the table can be rebuilt.
func (r *Registry) Clear() {
	r.reset()
	r.logger.Debug("registry cleared")
}

// Len returns the number of registered records.
func (r *Registry) Len() int { return len(r.records) }

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	_, ok := r.records[name]
	return ok
}

// Insert registers rec. It fails with *core.DuplicateNameError when the
// name is taken by a record of any kind, leaving the table unchanged.
func (r *Registry) Insert(rec core.Record) error {
	name := rec.Name()
	if existing, ok := r.records[name]; ok {
		return &core.DuplicateNameError{Name: name, Existing: existing.Kind()}
	}

	r.records[name] = rec
	r.byKind[rec.Kind()] = append(r.byKind[rec.Kind()], name)
	r.seq[name] = r.next
	r.next++
	r.index(rec)

	r.logger.Debug("record inserted", "name", name, "kind", rec.Kind())
	return nil
}

// Lookup returns the record registered under name.
func (r *Registry) Lookup(name string) (core.Record, error) {
	rec, ok := r.records[name]
	if !ok {
		return nil, &core.UnknownSymbolError{Name: name}
	}
	return rec, nil
}

// LookupKind returns the record registered under name if it is of kind k.
// Abstract kinds match any of their concrete kinds.
func (r *Registry) LookupKind(name string, k core.Kind) (core.Record, error) {
	rec, err := r.Lookup(name)
	if err != nil {
		return nil, &core.UnknownSymbolError{Name: name, Want: k}
	}
	if !slices.Contains(k.Concrete(), rec.Kind()) {
		return nil, &core.UnknownSymbolError{Name: name, Want: k, Got: rec.Kind()}
	}
	return rec, nil
}

// Names returns the names of every live record of kind k in declaration
// order. KindFunction enumerates Conditions, Actions and Calls.
func (r *Registry) Names(k core.Kind) []string {
	var names []string
	for _, c := range k.Concrete() {
		names = append(names, r.byKind[c]...)
	}
	return names
}

// Records returns the live records of kind k in declaration order.
func (r *Registry) Records(k core.Kind) []core.Record {
	names := r.Names(k)
	recs := make([]core.Record, len(names))
	for i, name := range names {
		recs[i] = r.records[name]
	}
	return recs
}

// All returns every record, grouped by kind in core.ConcreteKinds order.
func (r *Registry) All() []core.Record {
	recs := make([]core.Record, 0, len(r.records))
	for _, k := range core.ConcreteKinds() {
		for _, name := range r.byKind[k] {
			recs = append(recs, r.records[name])
		}
	}
	return recs
}

// Remove unregisters name from the global table and its kind's registry
// without any integrity check. Use Delete to honour references.
func (r *Registry) Remove(name string) error {
	rec, ok := r.records[name]
	if !ok {
		return &core.UnknownSymbolError{Name: name}
	}

	r.unindex(name)
	delete(r.records, name)
	delete(r.seq, name)
	r.byKind[rec.Kind()] = slices.DeleteFunc(r.byKind[rec.Kind()], func(n string) bool { return n == name })

	r.logger.Debug("record removed", "name", name, "kind", rec.Kind())
	return nil
}

// Delete removes name unless other records reference it, in which case it
// fails with *core.ReferencedObjectError carrying the full reference set.
func (r *Registry) Delete(name string) error {
	return r.DeleteAll(name)
}

// DeleteAll removes several records at once. References between the named
// records do not block the removal; references from any other record do.
// Nothing is removed when any check fails.
func (r *Registry) DeleteAll(names ...string) error {
	doomed := make(map[string]bool, len(names))
	for _, name := range names {
		if !r.Contains(name) {
			return &core.UnknownSymbolError{Name: name}
		}
		doomed[name] = true
	}

	for _, name := range names {
		external := slices.DeleteFunc(r.References(name), func(ref string) bool { return doomed[ref] })
		if len(external) > 0 {
			return &core.ReferencedObjectError{Name: name, References: external}
		}
	}

	for _, name := range names {
		if doomed[name] {
			_ = r.Remove(name)
			delete(doomed, name)
		}
	}
	return nil
}

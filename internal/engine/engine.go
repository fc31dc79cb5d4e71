// Package engine provides the trigger data parse context.
// An Engine owns one symbol table and runs documents through the line
// classifier, the block accumulator and the object factory into it.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/trigdata/internal/registry"
	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Engine loads trigger data documents into a symbol table.
//
// An Engine is not safe for concurrent use; independent engines share no
// state and can run side by side.
type Engine struct {
	logger    *slog.Logger
	cfg       Config
	registry  *registry.Registry
	documents []*Document
}

// Config holds engine configuration.
type Config struct {
	// PreserveUnmodeled keeps the known sections without a model
	// (TriggerEvents, TriggerParams, DefaultTriggerCategories,
	// DefaultTriggers) as Unknown records.
	PreserveUnmodeled bool
	// PreserveUnrecognized keeps every other unbound section as Unknown records.
	PreserveUnrecognized bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{PreserveUnmodeled: true}
}

// Document is a loaded input and the sections that produced records.
type Document struct {
	Name     string
	Hash     string
	Sections []Section
}

// Section is a section of a loaded document bound to a record kind.
type Section struct {
	Name string
	Line int
	Kind core.Kind
}

// New creates an engine with an empty symbol table.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg.Logger = logger

	return &Engine{
		logger:   logger,
		cfg:      cfg,
		registry: registry.New(registry.WithLogger(logger)),
	}
}

// Reset clears the symbol table and forgets every document so the engine
// can be rebuilt from scratch.
func (e *Engine) Reset() {
	e.registry.Clear()
	e.documents = nil
	e.logger.Debug("engine reset")
}

// --- Getters (public accessors) ---

// Registry returns the symbol table. Mutations should go through the engine.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Documents returns the loaded documents in load order.
func (e *Engine) Documents() []*Document {
	return slices.Clone(e.documents)
}

// Document returns the loaded document named name.
func (e *Engine) Document(name string) (*Document, bool) {
	i := e.documentIndex(name)
	if i < 0 {
		return nil, false
	}
	return e.documents[i], true
}

func (e *Engine) documentIndex(name string) int {
	return slices.IndexFunc(e.documents, func(d *Document) bool { return d.Name == name })
}

// Lookup returns the record registered under name.
func (e *Engine) Lookup(name string) (core.Record, error) {
	return e.registry.Lookup(name)
}

// Names returns the ordered record names of kind k.
func (e *Engine) Names(k core.Kind) []string {
	return e.registry.Names(k)
}

// References returns the names of the records referring to name.
func (e *Engine) References(name string) []string {
	return e.registry.References(name)
}

// IsReferenced reports whether any record refers to name.
func (e *Engine) IsReferenced(name string) bool {
	return e.registry.IsReferenced(name)
}

// RecordsOf returns the records a document contributed, in table order.
func (e *Engine) RecordsOf(document string) []core.Record {
	var recs []core.Record
	for _, r := range e.registry.All() {
		if r.Origin().Document == document {
			recs = append(recs, r)
		}
	}
	return recs
}

// Unload removes every record a document contributed and forgets it.
// It fails without removing anything when records of other documents
// still refer to them.
func (e *Engine) Unload(document string) error {
	i := e.documentIndex(document)
	if i < 0 {
		return fmt.Errorf("document %q is not loaded", document)
	}

	recs := e.RecordsOf(document)
	names := make([]string, len(recs))
	for j, r := range recs {
		names[j] = r.Name()
	}
	if err := e.registry.DeleteAll(names...); err != nil {
		return fmt.Errorf("unload %s: %w", document, err)
	}

	e.documents = slices.Delete(e.documents, i, i+1)
	e.logger.Debug("document unloaded", "document", document, "records", len(names))
	return nil
}

// Package loader is the object factory: it turns accumulated blocks into
// validated records and registers them in a symbol table.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/parser"
	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Table is the part of the symbol table the factory uses.
type Table interface {
	Lookup(name string) (core.Record, error)
	Insert(r core.Record) error
}

// Options controls which sections produce records.
type Options struct {
	// PreserveUnmodeled keeps known-but-unmodeled sections as Unknown records.
	PreserveUnmodeled bool
	// PreserveUnrecognized keeps every other unbound section as Unknown records.
	PreserveUnrecognized bool
	// Logger receives debug output. Nil discards.
	Logger *slog.Logger
}

// Factory builds records for one document.
type Factory struct {
	table    Table
	opts     Options
	document string
	logger   *slog.Logger
}

// New returns a factory that inserts into table. document names the input
// in positions and record origins.
func New(table Table, document string, opts Options) *Factory {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Factory{table: table, opts: opts, document: document, logger: logger}
}

// KindFor resolves the record kind of a section. Sections that produce no
// records return an *core.UnrecognizedSectionError, which callers treat as
// a reason to skip the section.
func (f *Factory) KindFor(section *parser.Section) (core.Kind, error) {
	if k, ok := SectionKind(section.Name); ok {
		return k, nil
	}
	if (IsUnmodeled(section.Name) && f.opts.PreserveUnmodeled) || f.opts.PreserveUnrecognized {
		return core.KindUnknown, nil
	}
	return core.KindInvalid, &core.UnrecognizedSectionError{
		Pos:     core.Position{File: f.document, Line: section.Line},
		Section: section.Name,
	}
}

// Construct parses block as a record of kind and inserts it. Construction is
// atomic: on error nothing is registered.
func (f *Factory) Construct(section string, kind core.Kind, block *parser.Block) (core.Record, error) {
	r, err := f.Build(section, kind, block)
	if err != nil {
		return nil, err
	}
	if err := f.table.Insert(r); err != nil {
		return nil, f.locate(err, block.Declaration().Number)
	}
	f.logger.Debug("record constructed", "name", r.Name(), "kind", r.Kind(), "line", r.Origin().Line)
	return r, nil
}

// Build parses block as a record of kind without registering it.
// Category back-references are resolved against the table.
func (f *Factory) Build(section string, kind core.Kind, block *parser.Block) (core.Record, error) {
	decl := block.Declaration()
	key, value, ok := parser.SplitAssignment(decl.Text)
	if !ok || key == "" {
		return nil, &core.StructuralError{
			Pos:     f.pos(decl),
			Message: fmt.Sprintf("declaration %q is not of the form Key=values", decl.Text),
		}
	}

	src := core.Source{Document: f.document, Section: section, Line: decl.Number}
	d := &decoder{f: f, key: key, line: decl, fields: core.SplitFields(value)}

	switch kind {
	case core.KindCategory:
		return d.category(src, block)
	case core.KindCondition:
		r := core.NewCondition(key, src)
		return r, d.function(&r.Function, 1, block)
	case core.KindAction:
		r := core.NewAction(key, src)
		return r, d.function(&r.Function, 1, block)
	case core.KindCall:
		return d.call(src, block)
	case core.KindType:
		return d.typ(src, block)
	case core.KindTypeDefault:
		return d.typeDefault(src, block)
	case core.KindUnknown:
		return core.NewUnknown(key, src, block.RawLines()), nil
	}
	return nil, fmt.Errorf("no grammar for record kind %s", kind)
}

func (f *Factory) pos(l parser.Line) core.Position {
	return core.Position{File: f.document, Line: l.Number}
}

// locate fills in the position of identity errors raised by the table.
func (f *Factory) locate(err error, line int) error {
	var dup *core.DuplicateNameError
	if errors.As(err, &dup) && dup.Pos == (core.Position{}) {
		dup.Pos = core.Position{File: f.document, Line: line}
	}
	return err
}

// resolveCategory looks up a Category back-reference.
func (f *Factory) resolveCategory(name string, l parser.Line) error {
	r, err := f.table.Lookup(name)
	if err != nil {
		return &core.UnknownSymbolError{Pos: f.pos(l), Name: name, Want: core.KindCategory}
	}
	if r.Kind() != core.KindCategory {
		return &core.UnknownSymbolError{Pos: f.pos(l), Name: name, Want: core.KindCategory, Got: r.Kind()}
	}
	return nil
}

// paramName extracts the parameter of a continuation line that belongs to
// the block declared as key.
func paramName(key string, l parser.Line) (core.Param, string, bool) {
	lhs, value, ok := parser.SplitAssignment(l.Text)
	if !ok {
		return "", "", false
	}
	param, ok := strings.CutPrefix(lhs, "_"+key+"_")
	if !ok || param == "" {
		return "", "", false
	}
	return core.Param(param), value, true
}

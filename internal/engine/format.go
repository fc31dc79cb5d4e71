package engine

import (
	"fmt"

	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/leapstack-labs/trigdata/pkg/format"
)

// Format returns the canonical text of a loaded document: its record
// sections in the order they were read, each listing the document's live
// records in declaration order.
func (e *Engine) Format(document string) (string, error) {
	sections, err := e.Sections(document)
	if err != nil {
		return "", err
	}
	return format.Document(sections), nil
}

// FormatRecord returns the canonical text of the named record.
func (e *Engine) FormatRecord(name string) (string, error) {
	r, err := e.registry.Lookup(name)
	if err != nil {
		return "", err
	}
	return format.Record(r), nil
}

// Sections returns the record sections of a loaded document with their
// live records, for consumers that present records per section.
func (e *Engine) Sections(document string) ([]format.Section, error) {
	doc, ok := e.Document(document)
	if !ok {
		return nil, fmt.Errorf("document %q is not loaded", document)
	}
	var out []format.Section
	for _, s := range doc.Sections {
		fs := format.Section{Name: s.Name}
		for _, r := range e.registry.Records(s.Kind) {
			if isFrom(r, doc.Name, s.Name) {
				fs.Records = append(fs.Records, r)
			}
		}
		out = append(out, fs)
	}
	return out, nil
}

func isFrom(r core.Record, document, section string) bool {
	src := r.Origin()
	return src.Document == document && src.Section == section
}

// Package format serializes trigger data records back to their canonical
// text form. The output of Record re-parses to an equal record.
package format

import "github.com/leapstack-labs/trigdata/pkg/core"

// Section is a named, ordered group of records.
type Section struct {
	Name    string
	Records []core.Record
}

// Record returns the canonical text of r: its declaration line followed by
// one continuation line per set block parameter, in insertion order.
// Unknown records replay their original lines.
func Record(r core.Record) string {
	p := newPrinter()
	p.formatRecord(r)
	return p.String()
}

// Document returns sections in the given order, separated by a blank line.
// Sections without records are still written so that the section structure
// survives a round trip.
func Document(sections []Section) string {
	p := newPrinter()
	for i, s := range sections {
		if i > 0 {
			p.blank()
		}
		p.header(s.Name)
		for _, r := range s.Records {
			p.formatRecord(r)
		}
	}
	return p.String()
}

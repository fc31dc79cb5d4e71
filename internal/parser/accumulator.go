package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// State is the accumulator state.
type State int

// Accumulator states.
const (
	StateNoSection State = iota
	StateAwaitingBlock
	StateInBlock
)

func (s State) String() string {
	switch s {
	case StateNoSection:
		return "NoSection"
	case StateAwaitingBlock:
		return "AwaitingBlock"
	case StateInBlock:
		return "InBlock"
	default:
		return "Invalid"
	}
}

// Accumulator groups classified lines into sections and blocks.
//
// After an error the accumulator drops lines until the next point where it
// can resume: a declaration resumes after a bad block, a section header
// resumes after a bad section.
type Accumulator struct {
	doc   *Document
	state State
	cur   *Section
	block *Block

	skipBlock   bool // dropping members of a rejected block
	skipSection bool // dropping the body of a rejected section
}

// NewAccumulator returns an accumulator for a document called name.
func NewAccumulator(name string) *Accumulator {
	return &Accumulator{
		doc: &Document{Name: name, index: make(map[string]*Section)},
	}
}

// State returns the current state.
func (a *Accumulator) State() State { return a.state }

// Document returns the document accumulated so far.
func (a *Accumulator) Document() *Document { return a.doc }

// Feed consumes one classified line. A non-nil error rejects the line (and
// the block or section it would have opened); feeding may continue.
func (a *Accumulator) Feed(line Line) error {
	switch line.Kind {
	case LineEmpty:
		return nil
	case LineSection:
		return a.openSection(line)
	case LineDeclaration:
		return a.openBlock(line)
	case LineContinuation:
		return a.appendMember(line)
	}
	return a.errorf(line, "unclassified line")
}

func (a *Accumulator) openSection(line Line) error {
	name := line.SectionName()
	a.block = nil
	a.skipBlock = false

	if prev, dup := a.doc.index[name]; dup {
		a.cur = nil
		a.state = StateNoSection
		a.skipSection = true
		return a.errorf(line, "duplicate section [%s] (first declared on line %d)", name, prev.Line)
	}

	a.cur = &Section{Name: name, Line: line.Number}
	a.doc.Sections = append(a.doc.Sections, a.cur)
	a.doc.index[name] = a.cur
	a.state = StateAwaitingBlock
	a.skipSection = false
	return nil
}

func (a *Accumulator) openBlock(line Line) error {
	if a.skipSection {
		return nil
	}
	if a.cur == nil {
		a.skipBlock = true
		return a.errorf(line, "declaration outside any section")
	}

	a.block = &Block{Lines: []Line{line}}
	a.cur.Blocks = append(a.cur.Blocks, a.block)
	a.state = StateInBlock
	a.skipBlock = false
	return nil
}

func (a *Accumulator) appendMember(line Line) error {
	if a.skipSection || a.skipBlock {
		return nil
	}
	if a.state != StateInBlock {
		a.skipBlock = true
		return a.errorf(line, "block member found outside block")
	}

	a.block.Lines = append(a.block.Lines, line)
	return nil
}

// reject records a line that failed classification. Only malformed section
// headers fail, so the section body that follows is dropped with it.
func (a *Accumulator) reject(err error) error {
	a.cur = nil
	a.block = nil
	a.state = StateNoSection
	a.skipSection = true
	return a.withFile(err)
}

func (a *Accumulator) errorf(line Line, format string, args ...any) error {
	return &core.StructuralError{
		Pos:     core.Position{File: a.doc.Name, Line: line.Number},
		Message: fmt.Sprintf(format, args...),
	}
}

func (a *Accumulator) withFile(err error) error {
	var se *core.StructuralError
	if errors.As(err, &se) && se.Pos.File == "" {
		se.Pos.File = a.doc.Name
	}
	return err
}

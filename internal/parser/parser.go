// Package parser turns trigger data text into an ordered section → block
// structure. It classifies each physical line and accumulates lines into
// blocks without interpreting their values.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Block member lines start with this marker.
const memberMarker = '_'

// maxLineSize bounds a single physical line.
const maxLineSize = 1 << 20

// LineKind classifies a normalized line.
type LineKind int

// Line kinds.
const (
	LineEmpty LineKind = iota
	LineSection
	LineDeclaration
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineSection:
		return "section"
	case LineDeclaration:
		return "declaration"
	case LineContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Line is one classified physical line.
type Line struct {
	Number int
	Kind   LineKind
	// Raw is the line as read, without the line terminator
	Raw string
	// Text is the normalized line: comment stripped, unquoted whitespace removed
	Text string
}

// SectionName returns the header payload of a section line.
func (l Line) SectionName() string {
	if l.Kind != LineSection {
		return ""
	}
	return l.Text[1 : len(l.Text)-1]
}

// Normalize strips an end-of-line comment and removes all whitespace that is
// not enclosed in matching quotes. Both ' and " quote. A quote character
// without a closing partner later on the line is an ordinary character.
func Normalize(raw string) string {
	var (
		b     strings.Builder
		quote rune
	)
	b.Grow(len(raw))

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			b.WriteRune(c)
			continue
		}
		switch {
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			return b.String()
		case (c == '"' || c == '\'') && slices.Contains(runes[i+1:], c):
			quote = c
			b.WriteRune(c)
		case unicode.IsSpace(c):
			// dropped
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Classify normalizes raw and determines its kind. A line that starts with
// '[' but is not a well-formed header is a structural error.
func Classify(number int, raw string) (Line, error) {
	line := Line{Number: number, Raw: raw, Text: Normalize(raw)}

	switch {
	case line.Text == "":
		line.Kind = LineEmpty
	case line.Text[0] == '[':
		if len(line.Text) < 3 || line.Text[len(line.Text)-1] != ']' {
			return line, &core.StructuralError{
				Pos:     core.Position{Line: number},
				Message: fmt.Sprintf("malformed section header %q", line.Text),
			}
		}
		line.Kind = LineSection
	case line.Text[0] == memberMarker:
		line.Kind = LineContinuation
	default:
		line.Kind = LineDeclaration
	}
	return line, nil
}

// SplitAssignment splits a normalized line on its first '='.
func SplitAssignment(text string) (key, value string, ok bool) {
	return strings.Cut(text, "=")
}

// Block is one record's declaration line followed by its continuation lines.
type Block struct {
	Lines []Line
}

// Declaration returns the line that opened the block.
func (b *Block) Declaration() Line { return b.Lines[0] }

// Continuations returns the block member lines.
func (b *Block) Continuations() []Line { return b.Lines[1:] }

// Key returns the declared key (the text before '=').
func (b *Block) Key() string {
	key, _, _ := SplitAssignment(b.Lines[0].Text)
	return key
}

// RawLines returns the block's lines as originally read.
func (b *Block) RawLines() []string {
	raw := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		raw[i] = l.Raw
	}
	return raw
}

// Section is a named bucket of blocks in declaration order.
type Section struct {
	Name   string
	Line   int
	Blocks []*Block
}

// Document is the ordered section → blocks structure of one input.
type Document struct {
	Name     string
	Sections []*Section
	index    map[string]*Section
}

// Section returns the section named name.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// ParseString is a convenience wrapper around Parse.
func ParseString(name, content string) (*Document, []error) {
	doc, diags, _ := Parse(name, strings.NewReader(content))
	return doc, diags
}

// Parse reads r line by line and accumulates the document.
// Structural problems are returned as per-line diagnostics; the offending
// block is skipped and accumulation continues. The error result is only set
// when reading fails.
func Parse(name string, r io.Reader) (*Document, []error, error) {
	acc := NewAccumulator(name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var diags []error
	number := 0
	for scanner.Scan() {
		number++
		line, err := Classify(number, strings.TrimSuffix(scanner.Text(), "\r"))
		if err != nil {
			diags = append(diags, acc.reject(err))
			continue
		}
		if err := acc.Feed(line); err != nil {
			diags = append(diags, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return acc.Document(), diags, fmt.Errorf("error scanning %s: %w", name, err)
	}

	return acc.Document(), diags, nil
}

package packages

import (
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/trigdata/internal/parser"
	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Manifest sections.
const (
	sectionPackage      = "TriggerEditorPackage"
	sectionRequirements = "TriggerEditorPackageRequirements"
)

// Manifest file names inside a package directory.
const (
	ManifestFile = "package.txt"
	ContentsFile = "triggerdata.txt"
)

// ParseManifest reads a package manifest written in the trigger data
// grammar:
//
//	[TriggerEditorPackage]
//	MyPackage=1.2.0
//
//	[TriggerEditorPackageRequirements]
//	BasePackage=1.0.0
func ParseManifest(name string, r io.Reader) (*Package, error) {
	doc, diags, err := parser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if len(diags) > 0 {
		return nil, errors.Join(diags...)
	}

	head, ok := doc.Section(sectionPackage)
	if !ok || len(head.Blocks) != 1 {
		return nil, &core.StructuralError{
			Pos:     core.Position{File: name},
			Message: fmt.Sprintf("manifest needs exactly one entry in [%s]", sectionPackage),
		}
	}

	p := &Package{}
	if p.Name, p.Version, err = entry(name, head.Blocks[0]); err != nil {
		return nil, err
	}

	if reqs, ok := doc.Section(sectionRequirements); ok {
		for _, b := range reqs.Blocks {
			dep, version, err := entry(name, b)
			if err != nil {
				return nil, err
			}
			if p.Requires(dep) {
				return nil, &core.DuplicateNameError{
					Pos:  core.Position{File: name, Line: b.Declaration().Number},
					Name: dep,
				}
			}
			p.Requirements = append(p.Requirements, Requirement{Name: dep, Version: version})
		}
	}
	return p, nil
}

// entry decodes a "Name=version" block.
func entry(file string, b *parser.Block) (string, string, error) {
	decl := b.Declaration()
	pos := core.Position{File: file, Line: decl.Number}
	if len(b.Continuations()) > 0 {
		return "", "", &core.StructuralError{Pos: pos, Message: "manifest entries take no block parameters"}
	}
	key, raw, ok := parser.SplitAssignment(decl.Text)
	if !ok || key == "" {
		return "", "", &core.StructuralError{Pos: pos, Message: fmt.Sprintf("entry %q is not of the form Name=version", decl.Text)}
	}
	version, err := ParseVersion(raw)
	if err != nil {
		return "", "", &core.InvalidValueError{Pos: pos, Record: key, Field: "version", Value: raw, Reason: err.Error()}
	}
	return key, version, nil
}

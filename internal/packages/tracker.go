// Package packages tracks trigger editor packages by semantic version and
// loads them, with their dependencies, into an engine.
package packages

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Requirement is a dependency on another package.
type Requirement struct {
	Name    string
	Version string
}

// Package is a named, versioned set of trigger data.
type Package struct {
	Name         string
	Version      string
	Requirements []Requirement
	// Document is the engine document holding the package contents.
	Document string
}

// Requires reports whether p depends on name.
func (p *Package) Requires(name string) bool {
	return slices.ContainsFunc(p.Requirements, func(r Requirement) bool { return r.Name == name })
}

// Tracker maps package names to the registered package.
type Tracker struct {
	packages map[string]*Package
	order    []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{packages: make(map[string]*Package)}
}

// Get returns the registered package named name.
func (t *Tracker) Get(name string) (*Package, bool) {
	p, ok := t.packages[name]
	return p, ok
}

// Packages returns the registered packages in registration order.
func (t *Tracker) Packages() []*Package {
	out := make([]*Package, len(t.order))
	for i, name := range t.order {
		out[i] = t.packages[name]
	}
	return out
}

// Check verifies the requirements of p against the registered packages.
// The first unmet requirement is returned as a *DependencyError.
func (t *Tracker) Check(p *Package) error {
	for _, req := range p.Requirements {
		dep, ok := t.packages[req.Name]
		if !ok {
			return &DependencyError{Package: req.Name, Version: req.Version}
		}
		if !Compatible(dep.Version, req.Version) {
			return &DependencyError{Package: req.Name, Version: req.Version, Found: dep.Version}
		}
	}
	return nil
}

// Register adds p. Its requirements must be met. A package already
// registered under the same name may only be replaced by a newer version of
// the same major series.
func (t *Tracker) Register(p *Package) error {
	if err := t.Check(p); err != nil {
		return err
	}

	if cur, ok := t.packages[p.Name]; ok {
		if semver.Major(cur.Version) != semver.Major(p.Version) {
			return &PackageError{Package: p.Name, Version: p.Version, Reason: "major version differs from loaded " + cur.Version}
		}
		if semver.Compare(p.Version, cur.Version) < 0 {
			return &PackageError{Package: p.Name, Version: p.Version, Reason: "older than loaded " + cur.Version}
		}
	} else {
		t.order = append(t.order, p.Name)
	}
	t.packages[p.Name] = p
	return nil
}

// Requirers returns the registered packages that depend on name.
func (t *Tracker) Requirers(name string) []string {
	var out []string
	for _, n := range t.order {
		if t.packages[n].Requires(name) {
			out = append(out, n)
		}
	}
	return out
}

// Unregister removes name. It fails while another package requires it.
func (t *Tracker) Unregister(name string) error {
	if _, ok := t.packages[name]; !ok {
		return &PackageError{Package: name, Reason: "not loaded"}
	}
	if by := t.Requirers(name); len(by) > 0 {
		return &PackageError{Package: name, Reason: "required by " + strings.Join(by, ", ")}
	}
	delete(t.packages, name)
	t.order = slices.DeleteFunc(t.order, func(n string) bool { return n == name })
	return nil
}

// Clear forgets every package.
func (t *Tracker) Clear() {
	t.packages = make(map[string]*Package)
	t.order = nil
}

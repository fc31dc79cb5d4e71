//go:build governance

package core_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// =============================================================================
// LAYERING TEST - pkg/ never reaches into internal/
// =============================================================================

// TestGovernance_PkgDoesNotImportInternal loads every public package and
// fails if any of them imports an internal package of this module.
func TestGovernance_PkgDoesNotImportInternal(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		for path := range p.Imports {
			if strings.HasPrefix(path, modulePath+"/internal/") {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: move the shared code into pkg/.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"), path)
			}
		}
	}
}

// =============================================================================
// PURITY TEST - pkg/core has no transitive module dependencies
// =============================================================================

// TestGovernance_CoreIsLeaf verifies the whole import closure of pkg/core
// is standard library.
func TestGovernance_CoreIsLeaf(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/core")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("expected 1 package, got %d", len(pkgs))
	}

	seen := make(map[string]bool)
	var walk func(p *packages.Package)
	walk = func(p *packages.Package) {
		for path, dep := range p.Imports {
			if seen[path] {
				continue
			}
			seen[path] = true
			first, _, _ := strings.Cut(path, "/")
			if strings.Contains(first, ".") {
				t.Errorf("PURITY VIOLATION: pkg/core depends on '%s'", path)
			}
			walk(dep)
		}
	}
	walk(pkgs[0])
}

package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/trigdata"

// TestPublicImports verifies the public packages stay free of third-party
// and internal dependencies. pkg/core imports ONLY stdlib; pkg/format may
// add pkg/core.
func TestPublicImports(t *testing.T) {
	tests := []struct {
		dir     string
		allowed []string
	}{
		{".", nil},
		{"../format", []string{modulePath + "/pkg/core"}},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(filepath.Clean(tt.dir)), func(t *testing.T) {
			for path, imp := range nonTestImports(t, tt.dir) {
				first, _, _ := strings.Cut(imp, "/")
				if strings.Contains(first, ".") && !slices.Contains(tt.allowed, imp) {
					t.Errorf("%s imports forbidden package: %s", path, imp)
				}
			}
		})
	}
}

// nonTestImports yields "file: import" pairs for the non-test files in dir.
func nonTestImports(t *testing.T, dir string) func(yield func(string, string) bool) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	fset := token.NewFileSet()
	return func(yield func(string, string) bool) {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			path := filepath.Join(dir, name)
			f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				t.Errorf("Failed to parse %s: %v", path, err)
				continue
			}
			for _, imp := range f.Imports {
				if !yield(path, strings.Trim(imp.Path.Value, `"`)) {
					return
				}
			}
		}
	}
}

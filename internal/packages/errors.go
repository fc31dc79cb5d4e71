package packages

import (
	"errors"
	"fmt"
)

// ErrPackage is the root of package tracking errors.
var ErrPackage = errors.New("package error")

// ErrDependency marks a missing or incompatible dependency.
var ErrDependency = fmt.Errorf("%w: dependency", ErrPackage)

// PackageError is a package that cannot be registered or removed.
type PackageError struct {
	Package string
	Version string
	Reason  string
}

func (e *PackageError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("package %s: %s", e.Package, e.Reason)
	}
	return fmt.Sprintf("package %s %s: %s", e.Package, e.Version, e.Reason)
}

// Unwrap returns ErrPackage.
func (e *PackageError) Unwrap() error { return ErrPackage }

// DependencyError is returned when a requirement is not loaded or the
// loaded version is incompatible. Callers load Package at Version and retry.
type DependencyError struct {
	Package string
	Version string
	// Found is the loaded version, empty when the package is not loaded.
	Found string
}

func (e *DependencyError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("dependency %s %s was not found", e.Package, e.Version)
	}
	return fmt.Sprintf("dependency %s is at %s but %s is required", e.Package, e.Found, e.Version)
}

// Unwrap returns ErrDependency.
func (e *DependencyError) Unwrap() error { return ErrDependency }

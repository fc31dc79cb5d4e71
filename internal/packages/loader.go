package packages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/engine"
)

// Loader loads packages from a directory laid out as
// <dir>/<name>/<major>/{package.txt,triggerdata.txt} into an engine. All
// package contents share the engine's symbol table.
type Loader struct {
	dir     string
	engine  *engine.Engine
	tracker *Tracker
	logger  *slog.Logger
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string, e *engine.Engine, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, engine: e, tracker: NewTracker(), logger: logger}
}

// Tracker returns the loader's package tracker.
func (l *Loader) Tracker() *Tracker {
	return l.tracker
}

// Load loads package name at a version compatible with version, loading
// missing dependencies first. It returns the newly loaded packages in load
// order; dependencies come before the packages that need them.
func (l *Loader) Load(ctx context.Context, name, version string) ([]*Package, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, &PackageError{Package: name, Version: version, Reason: err.Error()}
	}
	return l.load(ctx, name, v, map[string]bool{})
}

func (l *Loader) load(ctx context.Context, name, version string, visiting map[string]bool) ([]*Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cur, ok := l.tracker.Get(name); ok {
		if Compatible(cur.Version, version) {
			return nil, nil
		}
		return nil, &DependencyError{Package: name, Version: version, Found: cur.Version}
	}
	if visiting[name] {
		return nil, &PackageError{Package: name, Version: version, Reason: "dependency cycle"}
	}
	visiting[name] = true
	defer delete(visiting, name)

	pkg, err := l.readManifest(name, version)
	if err != nil {
		return nil, err
	}

	// Register dependencies one at a time: each failed check names the
	// next missing package, which is loaded before checking again.
	var loaded []*Package
	for attempt := 0; ; attempt++ {
		err := l.tracker.Check(pkg)
		if err == nil {
			break
		}
		var dep *DependencyError
		if !errors.As(err, &dep) || dep.Found != "" || attempt >= len(pkg.Requirements) {
			return loaded, fmt.Errorf("load %s: %w", name, err)
		}

		l.logger.Debug("loading dependency", "package", name, "dependency", dep.Package, "version", dep.Version)
		deps, err := l.load(ctx, dep.Package, dep.Version, visiting)
		loaded = append(loaded, deps...)
		if err != nil {
			return loaded, fmt.Errorf("load %s: %w", name, err)
		}
	}

	contents := filepath.Join(l.packageDir(name, version), ContentsFile)
	result, err := l.engine.LoadFile(contents)
	if err != nil {
		return loaded, err
	}
	if result.HasErrors() {
		_ = l.engine.Unload(contents)
		return loaded, fmt.Errorf("load %s: %w", name, result.Err())
	}

	pkg.Document = contents
	if err := l.tracker.Register(pkg); err != nil {
		_ = l.engine.Unload(contents)
		return loaded, err
	}

	l.logger.Info("package loaded", "package", name, "version", pkg.Version, "records", result.Records)
	return append(loaded, pkg), nil
}

func (l *Loader) packageDir(name, version string) string {
	return filepath.Join(l.dir, name, majorDir(version))
}

// readManifest reads the manifest of name and checks it offers version.
func (l *Loader) readManifest(name, version string) (*Package, error) {
	path := filepath.Join(l.packageDir(name, version), ManifestFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &PackageError{Package: name, Version: version, Reason: "not found in " + l.dir}
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	pkg, err := ParseManifest(path, f)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if pkg.Name != name {
		return nil, &PackageError{Package: name, Version: version, Reason: fmt.Sprintf("manifest %s declares package %s", path, pkg.Name)}
	}
	if !Compatible(pkg.Version, version) {
		return nil, &PackageError{Package: name, Version: version, Reason: "available version " + pkg.Version + " is not compatible"}
	}
	return pkg, nil
}

// Unload removes a package and every record it contributed. It fails while
// another loaded package requires it or while other records still refer to
// its records.
func (l *Loader) Unload(name string) error {
	pkg, ok := l.tracker.Get(name)
	if !ok {
		return &PackageError{Package: name, Reason: "not loaded"}
	}
	if by := l.tracker.Requirers(name); len(by) > 0 {
		return &PackageError{Package: name, Version: pkg.Version, Reason: "required by " + strings.Join(by, ", ")}
	}
	if err := l.engine.Unload(pkg.Document); err != nil {
		return err
	}
	l.logger.Info("package unloaded", "package", name, "version", pkg.Version)
	return l.tracker.Unregister(name)
}

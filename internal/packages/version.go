package packages

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ParseVersion returns the canonical form ("v1.2.3") of a semantic version.
// The leading "v" is optional and missing minor or patch numbers are zero.
func ParseVersion(s string) (string, error) {
	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", s)
	}
	return semver.Canonical(v), nil
}

// Compatible reports whether a package at version current satisfies a
// requirement for version required: same major version, and current is not
// older than required.
func Compatible(current, required string) bool {
	return semver.Major(current) == semver.Major(required) && semver.Compare(current, required) >= 0
}

// majorDir is the directory name of a version's major series: "v1.2.3" → "1".
func majorDir(version string) string {
	return strings.TrimPrefix(semver.Major(version), "v")
}

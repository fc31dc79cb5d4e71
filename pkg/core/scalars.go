package core

import (
	"fmt"
	"strconv"
)

// =============================================================================
// Flag
// =============================================================================

// Flag is a 0/1 switch. Any integer parses; non-zero is true.
type Flag bool

// ParseFlag parses an integer flag.
func ParseFlag(s string) (Flag, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, fmt.Errorf("flag %q is not an integer", s)
	}
	return n != 0, nil
}

// String returns "1" or "0".
func (f Flag) String() string {
	if f {
		return "1"
	}
	return "0"
}

// =============================================================================
// GameVersion
// =============================================================================

// GameVersion is the first game version in which a record is valid.
type GameVersion int

// Known game versions.
const (
	ReignOfChaos    GameVersion = 0
	TheFrozenThrone GameVersion = 1
)

var versionTitles = map[GameVersion]string{
	ReignOfChaos:    "Reign of Chaos",
	TheFrozenThrone: "The Frozen Throne",
}

// ParseGameVersion parses the minimum-version field of a declaration.
func ParseGameVersion(s string) (GameVersion, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("version %q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("version %d is negative", n)
	}
	return GameVersion(n), nil
}

// String returns the version number as written in the text form.
func (v GameVersion) String() string {
	return strconv.Itoa(int(v))
}

// Title returns the release name of a known version, or "Unknown".
func (v GameVersion) Title() string {
	if t, ok := versionTitles[v]; ok {
		return t
	}
	return "Unknown"
}

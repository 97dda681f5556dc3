// Package version implements the semantic version model and the
// trunk/branch reconciliation used to decide the next version for a
// pull request. Everything here is pure; callers own all I/O.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

var triplePattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a strict three-component semantic version. Pre-release and
// build metadata are deliberately unsupported: manifest files handled by
// this tool carry plain X.Y.Z versions only.
type Version struct {
	Major int
	Minor int
	Patch int
}

// InvalidVersionError reports a version string that is not exactly three
// dot-separated non-negative integers.
type InvalidVersionError struct {
	Raw string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: expected three dot-separated non-negative integers", e.Raw)
}

// Parse parses a strict X.Y.Z version string.
func Parse(raw string) (Version, error) {
	m := triplePattern.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, &InvalidVersionError{Raw: raw}
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, &InvalidVersionError{Raw: raw}
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, &InvalidVersionError{Raw: raw}
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, &InvalidVersionError{Raw: raw}
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders versions lexicographically on (major, minor, patch).
// It returns -1 when v is lower than other, 0 when equal, +1 when higher.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

// Bump applies the increment rule for the given class.
func (v Version) Bump(class IncrementClass) Version {
	switch class {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Package version parses release identifiers and orders them for migration.
//
// Registries hand back a mix of well-formed semantic versions and legacy
// strings that do not follow the grammar (e.g. "latest", "1.0", "v2.0.0").
// [Sort] produces one deterministic ascending order over both kinds:
//
//   - valid semantic versions are ordered by semver 2.0.0 precedence
//   - every valid version sorts before every unparsed string
//   - unparsed strings are ordered byte-wise
//
// Build metadata never affects ordering. Sorting is stable, so equal
// versions keep their input order.
package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid is returned by [Parse] for strings outside the semver grammar.
var ErrInvalid = errors.New("invalid semantic version")

// semverRE is the semver 2.0.0 grammar: no leading zeros in numeric parts,
// no "v" prefix, all three numeric components required.
var semverRE = regexp.MustCompile(
	`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)` +
		`(?:-((?:0|[1-9][0-9]*|[0-9]*[A-Za-z-][0-9A-Za-z-]*)(?:\.(?:0|[1-9][0-9]*|[0-9]*[A-Za-z-][0-9A-Za-z-]*))*))?` +
		`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// Version is a parsed semantic version. The zero value is not meaningful;
// obtain one from [Parse].
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []string // dot-separated pre-release identifiers, nil for releases
	Build      string   // build metadata, ignored for precedence
	Original   string   // raw text as read from the registry
}

// Parse parses s as a semantic version. Surrounding whitespace is not
// trimmed: registry version strings are compared exactly as published.
func Parse(s string) (*Version, error) {
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	v := &Version{Original: s, Build: m[5]}
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q: major out of range", ErrInvalid, s)
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q: minor out of range", ErrInvalid, s)
	}
	if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q: patch out of range", ErrInvalid, s)
	}
	if m[4] != "" {
		v.Prerelease = strings.Split(m[4], ".")
	}
	return v, nil
}

// IsValid reports whether s is a valid semantic version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// IsPrerelease reports whether v carries pre-release identifiers.
func (v *Version) IsPrerelease() bool {
	return len(v.Prerelease) > 0
}

// String returns the raw text the version was parsed from.
func (v *Version) String() string {
	return v.Original
}

// Compare returns -1, 0 or 1 as a has lower, equal or higher precedence
// than b.
func Compare(a, b *Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Patch, b.Patch); c != 0 {
		return c
	}
	return comparePrerelease(a.Prerelease, b.Prerelease)
}

func comparePrerelease(a, b []string) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return 1
	case len(b) == 0:
		return -1
	}

	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareIdentifier(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// compareIdentifier orders numeric identifiers numerically and before
// alphanumeric ones, which compare in ASCII order.
func compareIdentifier(a, b string) int {
	an, aNum := numeric(a)
	bn, bNum := numeric(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func numeric(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		// Longer than uint64 but still numeric: more digits means larger.
		return ^uint64(0), true
	}
	return n, true
}

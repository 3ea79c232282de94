package version

import (
	"slices"
	"strings"
)

// entry pairs a raw version string with its parse result.
type entry struct {
	raw    string
	parsed *Version // nil when raw is not a valid semantic version
}

func newEntry(raw string) entry {
	v, err := Parse(raw)
	if err != nil {
		return entry{raw: raw}
	}
	return entry{raw: raw, parsed: v}
}

func compareEntries(a, b entry) int {
	switch {
	case a.parsed != nil && b.parsed != nil:
		return Compare(a.parsed, b.parsed)
	case a.parsed != nil:
		return -1
	case b.parsed != nil:
		return 1
	default:
		return strings.Compare(a.raw, b.raw)
	}
}

// CompareStrings orders two raw version strings: valid semantic versions
// by precedence, valid before unparsed, and unparsed strings byte-wise.
func CompareStrings(a, b string) int {
	return compareEntries(newEntry(a), newEntry(b))
}

// Sort returns versions in ascending order as defined by [CompareStrings].
// The input slice is not modified. Equal elements keep their relative
// input order.
func Sort(versions []string) []string {
	entries := make([]entry, len(versions))
	for i, v := range versions {
		entries[i] = newEntry(v)
	}
	slices.SortStableFunc(entries, compareEntries)

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}

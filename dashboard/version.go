package dashboard

import "fmt"

// Version is a PolyScope firmware version: an ordered 4-tuple parsed from a
// dotted string such as "5.9.2.10332". Ordering is lexicographic over the
// four components.
type Version struct {
	Major int
	Minor int
	Patch int
	Build int
}

// ParseVersion parses a dotted 4-component version string.
//
// It reads the first integer, then three more times skips exactly one
// separator character and reads the next integer. A *ParseError is returned
// if any of the four integers is missing.
func ParseVersion(s string) (Version, error) {
	var fields [4]int

	pos := 0
	for i := 0; i < 4; i++ {
		if i > 0 {
			// Skip exactly one separator character.
			if pos >= len(s) {
				return Version{}, &ParseError{Input: s}
			}
			pos++
		}

		start := pos
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			fields[i] = fields[i]*10 + int(s[pos]-'0')
			pos++
		}
		if pos == start {
			return Version{}, &ParseError{Input: s}
		}
	}

	return Version{Major: fields[0], Minor: fields[1], Patch: fields[2], Build: fields[3]}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// It is intended for static version literals.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1 if v orders before o, 0 if equal, and 1 if v orders
// after o.
func (v Version) Compare(o Version) int {
	pairs := [4][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
		{v.Build, o.Build},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// IsESeries reports whether the version belongs to an e-Series controller
// (PolyScope 5 and above). Versions below 5 belong to the CB3 generation.
func (v Version) IsESeries() bool {
	return v.Major >= 5
}

// String formats the version in dotted notation.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

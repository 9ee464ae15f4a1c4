// Package version provides provider and API version parsing, comparison
// and packing into the 32-bit form carried in fabric attributes.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the attribute negotiation API version implemented by this library.
const Current = "1.5"

// Version represents a parsed "major.minor" version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromUint32 unpacks a version packed as major<<16 | minor.
func FromUint32(packed uint32) Version {
	return Version{Major: uint16(packed >> 16), Minor: uint16(packed & 0xffff)}
}

// Uint32 packs the version as major<<16 | minor. Packed versions order the
// same way as their major/minor pairs, so they can be compared numerically.
func (v Version) Uint32() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or +1 depending on whether v is older than, equal to
// or newer than other.
func (v Version) Compare(other Version) int {
	a, b := v.Uint32(), other.Uint32()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Format renders a packed version for diagnostics. Zero renders as "unspecified".
func Format(packed uint32) string {
	if packed == 0 {
		return "unspecified"
	}
	return FromUint32(packed).String()
}

// Package region holds the static catalog of administrative regions, the
// identifier normalization shared by every comparison, and the mapping from
// GeoJSON feature names to canonical identifiers.
//
// Catalogs are immutable values built once at startup and passed by pointer.
// They are safe for concurrent readers.
package region

import "strings"

const (
	// CanonicalPrefix prefixes every canonical region identifier.
	CanonicalPrefix = "RU-"
	// LegacyPrefix is the prefix some staff data sources use for the same regions.
	LegacyPrefix = "RF-"
)

// Region is one administrative subdivision.
type Region struct {
	// ID is the canonical identifier, e.g. "RU-MOW".
	ID string `yaml:"id" json:"id"`
	// Name is the display name.
	Name string `yaml:"name" json:"name"`
	// Info is the parent regional group code, e.g. "ЦФО".
	Info string `yaml:"info" json:"info"`
}

// Normalize returns the canonical form of a region identifier: a leading
// "RF-" becomes "RU-", anything else is returned unchanged.  The empty string
// normalizes to itself.  Normalize is idempotent.
//
// Every identifier comparison in this module goes through Normalize.
func Normalize(id string) string {
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, LegacyPrefix) {
		return CanonicalPrefix + id[len(LegacyPrefix):]
	}
	return id
}

// SameID reports whether two identifiers denote the same region.
func SameID(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

//Personal.AI order the ending

package representative

import "github.com/turtacn/regionmap/internal/domain/region"

// Matcher decides region membership against a region catalog.
type Matcher struct {
	catalog *region.Catalog
}

// NewMatcher returns a Matcher bound to catalog.
func NewMatcher(catalog *region.Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// IsInRegion reports whether rep covers regionID, either directly (the
// normalized identifiers match) or through the region's group code.
//
// Group codes are compared verbatim: they are not region identifiers and
// are never normalized.  Empty associations, an empty target, or a target
// missing from the catalog all yield false.
func (m *Matcher) IsInRegion(rep Representative, regionID string) bool {
	assoc := rep.RegionIDs.Present()
	target := region.Normalize(regionID)
	if len(assoc) == 0 || target == "" {
		return false
	}

	for _, id := range assoc {
		if region.SameID(id, target) {
			return true
		}
	}

	r, ok := m.catalog.FindByID(target)
	if !ok {
		return false
	}
	for _, id := range assoc {
		if id == r.Info {
			return true
		}
	}
	return false
}

// ForRegion returns the representatives covering regionID, in input order.
func (m *Matcher) ForRegion(reps []Representative, regionID string) []Representative {
	out := make([]Representative, 0)
	for _, rep := range reps {
		if m.IsInRegion(rep, regionID) {
			out = append(out, rep)
		}
	}
	return out
}

// CountByRegion returns, for every catalog region, how many representatives
// cover it.  Regions nobody covers are present with zero.
func (m *Matcher) CountByRegion(reps []Representative) map[string]int {
	counts := make(map[string]int, m.catalog.Len())
	for _, r := range m.catalog.All() {
		counts[r.ID] = 0
		for _, rep := range reps {
			if m.IsInRegion(rep, r.ID) {
				counts[r.ID]++
			}
		}
	}
	return counts
}

//Personal.AI order the ending

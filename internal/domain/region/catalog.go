package region

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/regions.yaml
var embeddedCatalog []byte

// FallbackRegion is a region drawn as a marker at Lon/Lat when the GeoJSON
// document yields no shape for it.
type FallbackRegion struct {
	ID  string  `yaml:"id" json:"id"`
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

type catalogDocument struct {
	Regions  []Region         `yaml:"regions"`
	Fallback []FallbackRegion `yaml:"fallback"`
}

// Catalog is the ordered, read-only list of regions.
type Catalog struct {
	regions  []Region
	byID     map[string]int
	byName   map[string]int
	byFolded map[string]int
	fallback []FallbackRegion
	groups   []string
}

// NewCatalog builds a Catalog from regions in the given order.  Identifiers
// are normalized; duplicates and empty identifiers are rejected.
func NewCatalog(regions []Region, fallback []FallbackRegion) (*Catalog, error) {
	c := &Catalog{
		regions:  make([]Region, 0, len(regions)),
		byID:     make(map[string]int, len(regions)),
		byName:   make(map[string]int, len(regions)),
		byFolded: make(map[string]int, len(regions)),
	}
	seenGroup := map[string]bool{}
	for _, r := range regions {
		r.ID = Normalize(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("region: catalog entry %q has no id", r.Name)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("region: duplicate catalog id %s", r.ID)
		}
		idx := len(c.regions)
		c.regions = append(c.regions, r)
		c.byID[r.ID] = idx
		if _, ok := c.byName[r.Name]; !ok {
			c.byName[r.Name] = idx
		}
		if folded := FoldName(r.Name); folded != "" {
			if _, ok := c.byFolded[folded]; !ok {
				c.byFolded[folded] = idx
			}
		}
		if r.Info != "" && !seenGroup[r.Info] {
			seenGroup[r.Info] = true
			c.groups = append(c.groups, r.Info)
		}
	}
	for _, f := range fallback {
		f.ID = Normalize(f.ID)
		if _, ok := c.byID[f.ID]; !ok {
			return nil, fmt.Errorf("region: fallback %s is not in the catalog", f.ID)
		}
		c.fallback = append(c.fallback, f)
	}
	return c, nil
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("region: decode catalog: %w", err)
	}
	return NewCatalog(doc.Regions, doc.Fallback)
}

// LoadCatalogFile parses the catalog at path; an empty path selects the
// embedded catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("region: open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog returns the embedded catalog of the 89 federal subjects.
// Each call builds a fresh value.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(embeddedCatalog))
}

// All returns a copy of the regions in catalog order.
func (c *Catalog) All() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// Len returns the number of regions.
func (c *Catalog) Len() int { return len(c.regions) }

// Groups returns the distinct group codes in first-seen order.
func (c *Catalog) Groups() []string {
	out := make([]string, len(c.groups))
	copy(out, c.groups)
	return out
}

// Fallback returns the marker positions for regions that may lack a shape.
func (c *Catalog) Fallback() []FallbackRegion {
	out := make([]FallbackRegion, len(c.fallback))
	copy(out, c.fallback)
	return out
}

// FindByID looks a region up by identifier, comparing normalized forms.
func (c *Catalog) FindByID(id string) (Region, bool) {
	idx, ok := c.byID[Normalize(id)]
	if !ok {
		return Region{}, false
	}
	return c.regions[idx], true
}

// FindByName looks a region up by display name.  An exact match wins;
// otherwise both sides are compared after FoldName.
func (c *Catalog) FindByName(name string) (Region, bool) {
	if idx, ok := c.byName[name]; ok {
		return c.regions[idx], true
	}
	folded := FoldName(name)
	if folded == "" {
		return Region{}, false
	}
	if idx, ok := c.byFolded[folded]; ok {
		return c.regions[idx], true
	}
	return Region{}, false
}

// InGroup returns the regions whose Info equals group, in catalog order.
func (c *Catalog) InGroup(group string) []Region {
	var out []Region
	for _, r := range c.regions {
		if r.Info == group {
			out = append(out, r)
		}
	}
	return out
}

//Personal.AI order the ending

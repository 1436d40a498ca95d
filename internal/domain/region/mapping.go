package region

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/name_mapping.yaml
var embeddedMapping []byte

type mappingDocument struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// NameMapping resolves GeoJSON feature names to canonical region identifiers.
type NameMapping struct {
	catalog *Catalog
	exact   map[string]string
	folded  map[string]string
}

// NewNameMapping builds a mapping from id → alias names.  Every id must exist
// in catalog; an alias claimed by two regions is rejected.
func NewNameMapping(catalog *Catalog, aliases map[string][]string) (*NameMapping, error) {
	m := &NameMapping{
		catalog: catalog,
		exact:   make(map[string]string),
		folded:  make(map[string]string),
	}
	for rawID, names := range aliases {
		r, ok := catalog.FindByID(rawID)
		if !ok {
			return nil, fmt.Errorf("region: mapping references unknown id %s", rawID)
		}
		for _, name := range names {
			name = strings.TrimSpace(name)
			if prev, dup := m.exact[name]; dup && prev != r.ID {
				return nil, fmt.Errorf("region: alias %q maps to both %s and %s", name, prev, r.ID)
			}
			m.exact[name] = r.ID
			if f := FoldName(name); f != "" {
				m.folded[f] = r.ID
			}
		}
	}
	return m, nil
}

// LoadNameMapping parses a YAML mapping document.
func LoadNameMapping(catalog *Catalog, r io.Reader) (*NameMapping, error) {
	var doc mappingDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("region: decode name mapping: %w", err)
	}
	return NewNameMapping(catalog, doc.Aliases)
}

// LoadNameMappingFile parses the mapping at path; an empty path selects the
// embedded mapping.
func LoadNameMappingFile(catalog *Catalog, path string) (*NameMapping, error) {
	if path == "" {
		return DefaultNameMapping(catalog)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("region: open name mapping: %w", err)
	}
	defer f.Close()
	return LoadNameMapping(catalog, f)
}

// DefaultNameMapping returns the embedded mapping bound to catalog.
func DefaultNameMapping(catalog *Catalog) (*NameMapping, error) {
	return LoadNameMapping(catalog, bytes.NewReader(embeddedMapping))
}

// Resolve returns the canonical identifier for a GeoJSON feature name.
// ok is false when nothing matches; callers skip such features.
//
// Resolution order: alias table, catalog name, folded alias, folded catalog name.
func (m *NameMapping) Resolve(name string) (id string, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if id, ok := m.exact[name]; ok {
		return id, true
	}
	if r, ok := m.catalog.byName[name]; ok {
		return m.catalog.regions[r].ID, true
	}
	folded := FoldName(name)
	if id, ok := m.folded[folded]; ok {
		return id, true
	}
	if r, ok := m.catalog.FindByName(name); ok {
		return r.ID, true
	}
	return "", false
}

// Len returns the number of alias names.
func (m *NameMapping) Len() int { return len(m.exact) }

//Personal.AI order the ending

package mapview

import (
	"context"
	"time"

	"github.com/turtacn/regionmap/internal/domain/geo"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/infrastructure/geodata"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
)

// Shape is one drawable element of the map: a path built from GeoJSON, or
// a fallback marker for a region the document has no geometry for.
type Shape struct {
	RegionID string      `json:"region_id"`
	Name     string      `json:"name"`
	Info     string      `json:"info"`
	Path     string      `json:"path,omitempty"`
	Marker   *geo.Marker `json:"marker,omitempty"`
}

// IsMarker reports whether the shape is a fallback circle.
func (s Shape) IsMarker() bool { return s.Marker != nil }

// Atlas is the immutable result of resolving a GeoJSON document against the
// region catalog.
type Atlas struct {
	Fingerprint string
	Source      string
	LoadedAt    time.Time

	shapes   []Shape
	rendered map[string]bool
	unmapped []string
	index    *geo.Index
}

// BuildAtlas resolves every feature of doc to a catalog region through
// mapping.  Features whose name does not resolve, or whose geometry yields
// no path, are skipped.  Each fallback region not drawn from the document
// becomes a marker, appended after the paths in catalog fallback order.
//
// doc may be nil, in which case only markers are produced.
func BuildAtlas(doc *geodata.Document, catalog *region.Catalog, mapping *region.NameMapping) *Atlas {
	a := &Atlas{rendered: map[string]bool{}}
	var indexed []geo.Shape
	if doc != nil {
		a.Fingerprint = doc.Fingerprint
		a.shapes = make([]Shape, 0, len(doc.Features))
		for _, f := range doc.Features {
			id, ok := mapping.Resolve(f.Name)
			if !ok {
				a.unmapped = append(a.unmapped, f.Name)
				continue
			}
			r, ok := catalog.FindByID(id)
			if !ok {
				a.unmapped = append(a.unmapped, f.Name)
				continue
			}
			path := geo.GeometryToPath(f.Geometry)
			if path == "" {
				continue
			}
			a.shapes = append(a.shapes, Shape{RegionID: r.ID, Name: r.Name, Info: r.Info, Path: path})
			a.rendered[r.ID] = true
			indexed = append(indexed, geo.Shape{RegionID: r.ID, Geometry: f.Geometry})
		}
	}

	for _, fb := range catalog.Fallback() {
		if a.rendered[fb.ID] {
			continue
		}
		r, ok := catalog.FindByID(fb.ID)
		if !ok {
			continue
		}
		m := geo.MarkerAt(fb.Lon, fb.Lat)
		a.shapes = append(a.shapes, Shape{RegionID: r.ID, Name: r.Name, Info: r.Info, Marker: &m})
	}

	a.index = geo.NewIndex(indexed)
	return a
}

// Shapes returns the drawable shapes, paths first.  The slice is shared and
// must not be modified.
func (a *Atlas) Shapes() []Shape { return a.shapes }

// RenderedCount is the number of distinct regions drawn from the document.
func (a *Atlas) RenderedCount() int { return len(a.rendered) }

// Unmapped lists feature names that resolved to no catalog region.
func (a *Atlas) Unmapped() []string { return a.unmapped }

// Locate returns the region whose geometry contains the point.
func (a *Atlas) Locate(lon, lat float64) (string, bool) {
	return a.index.Locate(lon, lat)
}

// LoadAtlas fetches and parses the document from src and builds an Atlas.
func LoadAtlas(ctx context.Context, src geodata.Source, catalog *region.Catalog, mapping *region.NameMapping, log logging.Logger) (*Atlas, error) {
	start := time.Now()
	doc, err := geodata.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	a := BuildAtlas(doc, catalog, mapping)
	a.Source = src.Name()
	a.LoadedAt = time.Now().UTC()

	fields := []logging.Field{
		logging.String("source", a.Source),
		logging.String("fingerprint", a.Fingerprint),
		logging.Int("features", len(doc.Features)),
		logging.Int("regions", a.RenderedCount()),
		logging.Int("shapes", len(a.shapes)),
		logging.Duration("latency", time.Since(start)),
	}
	if len(a.unmapped) > 0 {
		fields = append(fields, logging.Strings("unmapped", a.unmapped))
	}
	if doc.Skipped > 0 {
		fields = append(fields, logging.Int("skipped", doc.Skipped))
	}
	log.Info("geo document loaded", fields...)
	return a, nil
}

//Personal.AI order the ending

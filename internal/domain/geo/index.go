package geo

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// minExtent keeps degenerate boxes valid for the R-tree.
const minExtent = 1e-6

// Shape is a geometry tagged with the region it belongs to.
type Shape struct {
	RegionID string
	Geometry orb.Geometry
}

type indexedShape struct {
	shape Shape
	bound orb.Bound
	seq   int
}

// Bounds implements rtreego.Spatial.
func (s *indexedShape) Bounds() rtreego.Rect {
	return rectFromBound(s.bound)
}

func rectFromBound(b orb.Bound) rtreego.Rect {
	lonLength := b.Max[0] - b.Min[0]
	latLength := b.Max[1] - b.Min[1]
	if lonLength < minExtent {
		lonLength = minExtent
	}
	if latLength < minExtent {
		latLength = minExtent
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{lonLength, latLength})
	return rect
}

// Index answers "which region contains this lon/lat" for polygonal shapes.
// Bounding boxes are filtered through an R-tree, then candidates are tested
// with an exact point-in-polygon check.  An Index is read-only once built.
type Index struct {
	tree  *rtreego.Rtree
	count int
}

// NewIndex indexes the polygonal shapes; other geometry types are ignored.
func NewIndex(shapes []Shape) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	n := 0
	for _, s := range shapes {
		if !Supported(s.Geometry) {
			continue
		}
		tree.Insert(&indexedShape{shape: s, bound: s.Geometry.Bound(), seq: n})
		n++
	}
	return &Index{tree: tree, count: n}
}

// Len returns the number of indexed shapes.
func (ix *Index) Len() int { return ix.count }

// Locate returns the region whose shape contains (lon, lat).  When shapes
// overlap, the first one inserted wins.
func (ix *Index) Locate(lon, lat float64) (string, bool) {
	pt := orb.Point{lon, lat}
	query := rectFromBound(orb.Bound{Min: pt, Max: pt})
	candidates := ix.tree.SearchIntersect(query)

	var hit *indexedShape
	for _, c := range candidates {
		s := c.(*indexedShape)
		if !s.bound.Contains(pt) || !contains(s.shape.Geometry, pt) {
			continue
		}
		if hit == nil || s.seq < hit.seq {
			hit = s
		}
	}
	if hit == nil {
		return "", false
	}
	return hit.shape.RegionID, true
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	}
	return false
}

//Personal.AI order the ending

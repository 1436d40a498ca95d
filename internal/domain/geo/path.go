package geo

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// formatCoord renders one surface coordinate with two fractional digits.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RingPath renders one closed subpath: "M" x,y ("L" x,y)* "Z".
// An empty ring yields "".
func RingPath(ring orb.Ring) string {
	if len(ring) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(ring) * 16)
	sb.WriteByte('M')
	for i, pt := range ring {
		if i > 0 {
			sb.WriteByte('L')
		}
		p := Project(pt[0], pt[1])
		sb.WriteString(formatCoord(p.X))
		sb.WriteByte(',')
		sb.WriteString(formatCoord(p.Y))
	}
	sb.WriteByte('Z')
	return sb.String()
}

// PolygonPath renders each ring of poly and joins them with a space.
// Holes are left to the renderer's fill rule.
func PolygonPath(poly orb.Polygon) string {
	parts := make([]string, 0, len(poly))
	for _, ring := range poly {
		parts = append(parts, RingPath(ring))
	}
	return strings.Join(parts, " ")
}

// GeometryToPath renders a Polygon or MultiPolygon as SVG path data.
// Any other geometry, including nil, yields "".
func GeometryToPath(g orb.Geometry) string {
	switch geom := g.(type) {
	case orb.Polygon:
		return PolygonPath(geom)
	case orb.MultiPolygon:
		parts := make([]string, 0, len(geom))
		for _, poly := range geom {
			parts = append(parts, PolygonPath(poly))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

//Personal.AI order the ending

// Package geo projects longitude/latitude geometry onto the fixed 1000×600
// drawing surface of the region map and turns polygons into SVG path data.
//
// Everything here is pure: no I/O, no shared state, identical input gives
// byte-identical output.
package geo

import "math"

// Bounds of the design viewport.
const (
	MinLon = 19.0
	MaxLon = 180.0
	MinLat = 41.0
	MaxLat = 82.0

	Width  = 1000.0
	Height = 600.0
)

// Point is a position on the drawing surface; Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var (
	mercMin = mercatorN(MinLat)
	mercMax = mercatorN(MaxLat)
)

func mercatorN(latDeg float64) float64 {
	latRad := latDeg * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + latRad/2))
}

// Project maps a geographic coordinate to the drawing surface.  Longitude is
// linear over [MinLon, MaxLon]; latitude goes through the Mercator transform
// and is interpolated between the values at MinLat and MaxLat, then flipped.
// Coordinates outside the bounds extrapolate; NaN propagates.
func Project(lon, lat float64) Point {
	x := (lon - MinLon) / (MaxLon - MinLon) * Width
	normalized := (mercatorN(lat) - mercMin) / (mercMax - mercMin)
	return Point{X: x, Y: Height - normalized*Height}
}

//Personal.AI order the ending

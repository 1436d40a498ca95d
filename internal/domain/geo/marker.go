package geo

// MarkerRadius is the radius of the circle drawn for a region without a shape.
const MarkerRadius = 8.0

// Marker is a circle on the drawing surface.
type Marker struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// MarkerAt projects a geographic centre into a fallback marker.
func MarkerAt(lon, lat float64) Marker {
	return Marker{Center: Project(lon, lat), Radius: MarkerRadius}
}

//Personal.AI order the ending

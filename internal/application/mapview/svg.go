package mapview

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/turtacn/regionmap/internal/domain/geo"
	"github.com/turtacn/regionmap/internal/domain/region"
)

// Theme holds the colours of the rendered map.
type Theme struct {
	Background   string
	Accent       string
	Fill         string
	Stroke       string
	ActiveFill   string
	ActiveStroke string
}

// DefaultTheme is used when no colours are configured.
var DefaultTheme = Theme{
	Background:   "#f8fafc",
	Accent:       "#e2e8f0",
	Fill:         "#cbd5e1",
	Stroke:       "#ffffff",
	ActiveFill:   "#0f172a",
	ActiveStroke: "#ffffff",
}

// Stroke widths of paths and fallback markers.
const (
	pathStrokeWidth   = 0.5
	markerStrokeWidth = 1.0
)

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.Width}} {{.Height}}" preserveAspectRatio="xMidYMid meet">
<rect width="{{.Width}}" height="{{.Height}}" fill="{{.Theme.Background}}" stroke="{{.Theme.Accent}}"/>
{{- range .Elements}}
{{- if .Marker}}
<circle data-region-id="{{.RegionID}}" cx="{{.CX}}" cy="{{.CY}}" r="{{.R}}" fill="{{.Fill}}" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"><title>{{.Title}}</title></circle>
{{- else}}
<path data-region-id="{{.RegionID}}" d="{{.Path}}" fill="{{.Fill}}" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"><title>{{.Title}}</title></path>
{{- end}}
{{- end}}
</svg>
`

var svgTpl = template.Must(template.New("regionmap").Parse(svgTemplate))

type svgElement struct {
	RegionID    string
	Title       string
	Path        string
	Marker      bool
	CX, CY, R   string
	Fill        string
	Stroke      string
	StrokeWidth string
}

type svgDocument struct {
	Width    string
	Height   string
	Theme    Theme
	Elements []svgElement
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG draws shapes onto the 1000x600 surface.  The selected region is
// drawn with the active colours; title returns the hover text of a region.
// Output is deterministic for identical input.
func RenderSVG(shapes []Shape, selected string, theme Theme, title func(regionID string) string) ([]byte, error) {
	selected = region.Normalize(selected)
	doc := svgDocument{
		Width:    strconv.Itoa(int(geo.Width)),
		Height:   strconv.Itoa(int(geo.Height)),
		Theme:    theme,
		Elements: make([]svgElement, 0, len(shapes)),
	}
	for _, s := range shapes {
		el := svgElement{RegionID: s.RegionID, Title: s.Name, Fill: theme.Fill, Stroke: theme.Stroke}
		if title != nil {
			el.Title = title(s.RegionID)
		}
		if selected != "" && s.RegionID == selected {
			el.Fill, el.Stroke = theme.ActiveFill, theme.ActiveStroke
		}
		if s.IsMarker() {
			el.Marker = true
			el.CX = formatNumber(s.Marker.Center.X)
			el.CY = formatNumber(s.Marker.Center.Y)
			el.R = formatNumber(s.Marker.Radius)
			el.StrokeWidth = formatNumber(markerStrokeWidth)
		} else {
			el.Path = s.Path
			el.StrokeWidth = formatNumber(pathStrokeWidth)
		}
		doc.Elements = append(doc.Elements, el)
	}

	var buf bytes.Buffer
	if err := svgTpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//Personal.AI order the ending

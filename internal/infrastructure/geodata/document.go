// Package geodata loads the GeoJSON document the region map is drawn from.
package geodata

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/turtacn/regionmap/pkg/errors"
)

// Feature is one named geometry of the document.  Geometry is nil when the
// feature could not be decoded.
type Feature struct {
	Name     string
	Geometry orb.Geometry
}

// Document is a parsed FeatureCollection.  Fingerprint is the hex SHA-256 of
// the raw bytes and identifies the document in cache keys.  Skipped counts
// features kept without geometry because they failed to decode.
type Document struct {
	Features    []Feature
	Fingerprint string
	Size        int
	Skipped     int
}

// Parse decodes a GeoJSON FeatureCollection.  Features keep document order;
// a missing or non-string "name" property becomes "".  Features are decoded
// one at a time so a malformed one only loses its own geometry.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.CodeGeoDocumentInvalid, "geojson document is empty")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.CodeGeoDocumentInvalid, "failed to decode geojson: malformed json")
	}
	if typ := gjson.GetBytes(data, "type").String(); typ != "FeatureCollection" {
		return nil, errors.New(errors.CodeGeoDocumentInvalid, "failed to decode geojson: not a feature collection").
			WithDetail(typ)
	}
	features := gjson.GetBytes(data, "features")
	if features.Exists() && !features.IsArray() {
		return nil, errors.New(errors.CodeGeoDocumentInvalid, "failed to decode geojson: features is not an array")
	}

	all := features.Array()
	doc := &Document{
		Features:    make([]Feature, 0, len(all)),
		Fingerprint: Fingerprint(data),
		Size:        len(data),
	}
	for _, raw := range all {
		if raw.Type == gjson.Null {
			continue
		}
		name := raw.Get("properties.name")
		feature := Feature{}
		if name.Type == gjson.String {
			feature.Name = strings.TrimSpace(name.Str)
		}
		if f, err := geojson.UnmarshalFeature([]byte(raw.Raw)); err == nil {
			feature.Geometry = f.Geometry
		} else {
			doc.Skipped++
		}
		doc.Features = append(doc.Features, feature)
	}
	return doc, nil
}

// Fingerprint returns the hex SHA-256 of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

//Personal.AI order the ending

package mapview_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/infrastructure/geodata"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/testutil"
)

func TestBuildAtlas_PathsThenMarkers(t *testing.T) {
	catalog, mapping := loadCatalog(t)
	doc, err := geodata.Parse([]byte(testGeoJSON))
	require.NoError(t, err)

	a := mapview.BuildAtlas(doc, catalog, mapping)
	shapes := a.Shapes()

	// 2 paths, then every fallback region except Moscow.
	require.Len(t, shapes, 2+len(catalog.Fallback())-1)
	assert.Equal(t, "RU-TVE", shapes[0].RegionID)
	assert.False(t, shapes[0].IsMarker())
	assert.Contains(t, shapes[0].Path, "M")
	assert.Equal(t, "RU-MOW", shapes[1].RegionID)
	assert.Equal(t, "RU-SPE", shapes[2].RegionID)
	for _, s := range shapes[2:] {
		assert.True(t, s.IsMarker(), s.RegionID)
		assert.Equal(t, 8.0, s.Marker.Radius)
	}

	assert.Equal(t, 2, a.RenderedCount())
	assert.Equal(t, []string{"Атлантида"}, a.Unmapped())
	assert.Equal(t, doc.Fingerprint, a.Fingerprint)
}

const mixedGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "г. Москва"},
     "geometry": {"type": "Polygon", "coordinates": [[[37.3,55.5],[37.9,55.5],[37.9,56.0],[37.3,56.0],[37.3,55.5]]]}},
    {"type": "Feature", "properties": {"name": "Тверская область"},
     "geometry": {"type": "Hexagon", "coordinates": [[34,56],[36,56]]}},
    {"type": "Feature", "properties": {"name": "г. Санкт-Петербург"},
     "geometry": {"type": "Polygon", "coordinates": [30.1, 59.8]}}
  ]
}`

func TestBuildAtlas_MalformedFeaturesKeepTheRest(t *testing.T) {
	catalog, mapping := loadCatalog(t)
	doc, err := geodata.Parse([]byte(mixedGeoJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Skipped)

	a := mapview.BuildAtlas(doc, catalog, mapping)
	shapes := a.Shapes()
	require.NotEmpty(t, shapes)
	assert.Equal(t, "RU-MOW", shapes[0].RegionID)
	assert.False(t, shapes[0].IsMarker())
	assert.Equal(t, 1, a.RenderedCount())
	assert.Empty(t, a.Unmapped())

	// Saint Petersburg has no usable geometry, so its fallback marker is drawn.
	var spb *mapview.Shape
	for i := range shapes {
		if shapes[i].RegionID == "RU-SPE" {
			spb = &shapes[i]
		}
	}
	require.NotNil(t, spb)
	assert.True(t, spb.IsMarker())
}

func TestBuildAtlas_NilDocument(t *testing.T) {
	catalog, mapping := loadCatalog(t)
	a := mapview.BuildAtlas(nil, catalog, mapping)

	assert.Len(t, a.Shapes(), len(catalog.Fallback()))
	assert.Equal(t, 0, a.RenderedCount())
	_, ok := a.Locate(37.6, 55.7)
	assert.False(t, ok)
}

func TestAtlas_Locate(t *testing.T) {
	catalog, mapping := loadCatalog(t)
	doc, err := geodata.Parse([]byte(testGeoJSON))
	require.NoError(t, err)
	a := mapview.BuildAtlas(doc, catalog, mapping)

	id, ok := a.Locate(35, 57)
	assert.True(t, ok)
	assert.Equal(t, "RU-TVE", id)

	id, ok = a.Locate(37.6, 55.75)
	assert.True(t, ok)
	assert.Equal(t, "RU-MOW", id)

	_, ok = a.Locate(50.5, 60.5)
	assert.False(t, ok, "unmapped features are not indexed")
}

func TestLoadAtlas(t *testing.T) {
	catalog, mapping := loadCatalog(t)
	logger := testutil.NewMockLogger()

	a, err := mapview.LoadAtlas(context.Background(), &memGeoSource{body: []byte(testGeoJSON)}, catalog, mapping, logger)
	require.NoError(t, err)
	assert.Equal(t, "memory", a.Source)
	assert.False(t, a.LoadedAt.IsZero())
	assert.True(t, logger.HasMessage("info", "geo document loaded"))

	a, err = mapview.LoadAtlas(context.Background(), &memGeoSource{body: []byte(mixedGeoJSON)}, catalog, mapping, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, a.RenderedCount())
	msgs := logger.GetMessages()
	last := msgs[len(msgs)-1]
	assert.Equal(t, "geo document loaded", last.Message)
	assert.Contains(t, last.Fields, logging.Int("skipped", 2))

	_, err = mapview.LoadAtlas(context.Background(), &memGeoSource{err: errors.New("boom")}, catalog, mapping, logger)
	assert.Error(t, err)
}

//Personal.AI order the ending

package mapview_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
)

// Two regions drawn as polygons plus one feature no region claims.
const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Тверская область"},
     "geometry": {"type": "Polygon", "coordinates": [[[34,56],[36,56],[36,58],[34,58],[34,56]]]}},
    {"type": "Feature", "properties": {"name": "г. Москва"},
     "geometry": {"type": "Polygon", "coordinates": [[[37.3,55.5],[37.9,55.5],[37.9,56.0],[37.3,56.0],[37.3,55.5]]]}},
    {"type": "Feature", "properties": {"name": "Атлантида"},
     "geometry": {"type": "Polygon", "coordinates": [[[50,60],[51,60],[51,61],[50,61],[50,60]]]}}
  ]
}`

var (
	catalogOnce sync.Once
	testCatalog *region.Catalog
	testMapping *region.NameMapping
	catalogErr  error
)

func loadCatalog(t *testing.T) (*region.Catalog, *region.NameMapping) {
	t.Helper()
	catalogOnce.Do(func() {
		testCatalog, catalogErr = region.DefaultCatalog()
		if catalogErr == nil {
			testMapping, catalogErr = region.DefaultNameMapping(testCatalog)
		}
	})
	require.NoError(t, catalogErr)
	return testCatalog, testMapping
}

type memGeoSource struct {
	mu   sync.Mutex
	body []byte
	err  error
}

func (s *memGeoSource) Name() string { return "memory" }

func (s *memGeoSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.body, nil
}

func testReps() []representative.Representative {
	return []representative.Representative{
		{
			ID: 1, Name: "Иванов Иван Иванович", Position: "Региональный менеджер",
			Phone: "+7 (900) 123-45-67", Email: "ivanov@example.com",
			RegionIDs:  representative.Associations{"ЦФО"},
			Activities: []string{"Продажи", "Сервис"},
		},
		{
			ID: 2, Name: "Петров Петр", Email: "petrov@example.com",
			RegionIDs:  representative.Associations{"RF-MOW"},
			Activities: []string{"Продажи"},
		},
		{
			ID: 3, Name: "Сидорова Анна",
			RegionIDs: representative.Associations{"RU-SPE"},
		},
	}
}

//Personal.AI order the ending

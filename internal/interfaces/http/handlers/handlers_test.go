package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Тверская область"},
  "geometry":{"type":"Polygon","coordinates":[[[34,56],[36,56],[36,58],[34,58],[34,56]]]}}
]}`

type geoStub struct{}

func (geoStub) Name() string { return "stub" }

func (geoStub) Fetch(context.Context) ([]byte, error) { return []byte(testGeoJSON), nil }

type env struct {
	svc   mapview.Service
	store *snapshot.Store
	src   *testutil.StubSource
}

func newEnv(t *testing.T) *env {
	t.Helper()
	catalog, err := region.DefaultCatalog()
	require.NoError(t, err)
	mapping, err := region.DefaultNameMapping(catalog)
	require.NoError(t, err)

	src := testutil.NewStubSource("stub", []representative.Representative{
		{ID: 1, Name: "Иванов Иван", Phone: "+7 900 000-00-01", RegionIDs: representative.Associations{"ЦФО"}, Activities: []string{"Продажи"}},
		{ID: 2, Name: "Петров Петр", RegionIDs: representative.Associations{"RU-SPE"}},
	})
	store := snapshot.NewStore(src, logging.NewNopLogger())
	svc := mapview.NewService(catalog, mapping, store, geoStub{}, mapview.Options{}, logging.NewNopLogger())
	require.NoError(t, svc.ReloadAtlas(context.Background()))
	_, err = store.Refresh(context.Background())
	require.NoError(t, err)
	return &env{svc: svc, store: store, src: src}
}

func do(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

//Personal.AI order the ending

package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	apihttp "github.com/turtacn/regionmap/internal/interfaces/http"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/internal/interfaces/http/middleware"
	"github.com/turtacn/regionmap/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, mutate func(*apihttp.RouterConfig)) *gin.Engine {
	t.Helper()
	catalog, err := region.DefaultCatalog()
	require.NoError(t, err)
	mapping, err := region.DefaultNameMapping(catalog)
	require.NoError(t, err)

	src := testutil.NewStubSource("stub", []representative.Representative{
		{ID: 1, Name: "Иванов Иван", RegionIDs: representative.Associations{"RU-MOW"}},
	})
	store := snapshot.NewStore(src, logging.NewNopLogger())
	_, err = store.Refresh(context.Background())
	require.NoError(t, err)
	svc := mapview.NewService(catalog, mapping, store, nil, mapview.Options{}, logging.NewNopLogger())

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "regionmap_test"}, logging.NewNopLogger())
	require.NoError(t, err)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"*"}
	cfg := apihttp.RouterConfig{
		RegionHandler:         handlers.NewRegionHandler(svc),
		MapHandler:            handlers.NewMapHandler(svc),
		RepresentativeHandler: handlers.NewRepresentativeHandler(store, nil),
		HealthHandler:         handlers.NewHealthHandler("test"),
		CORS:                  &cors,
		Logging:               middleware.DefaultLoggingConfig(),
		AdminToken:            "token",
		Logger:                logging.NewNopLogger(),
		Metrics:               prometheus.NewAppMetrics(collector),
		MetricsHandler:        collector.Handler(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return apihttp.NewRouter(cfg)
}

func get(r http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newRouter(t, nil)

	for _, target := range []string{
		"/healthz",
		"/readyz",
		"/health",
		"/api/v1/regions",
		"/api/v1/regions/RU-MOW",
		"/api/v1/regions/RU-MOW/tooltip",
		"/api/v1/regions/RU-MOW/representatives",
		"/api/v1/regions/lookup?name=%D0%9C%D0%BE%D1%81%D0%BA%D0%B2%D0%B0",
		"/api/v1/contacts",
		"/api/v1/stats",
		"/api/v1/map/shapes",
		"/api/v1/map/svg",
		"/api/v1/map/atlas",
		"/api/v1/representatives",
	} {
		w := get(r, target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID), target)
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newRouter(t, nil)
	get(r, "/api/v1/stats")

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "regionmap_test_http_requests_total")
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	r := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/representatives/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/representatives/refresh", nil)
	req.Header.Set("Authorization", "Bearer token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/map/reload", nil)
	req.Header.Set("Authorization", "Bearer token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "no geo source configured")
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	r := newRouter(t, nil)

	w := get(r, "/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/stats", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CORSAndRateLimit(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(1, 1, 0)
	defer limiter.Stop()
	r := newRouter(t, func(cfg *apihttp.RouterConfig) {
		cfg.RateLimiter = limiter
		cfg.RateLimit = middleware.DefaultRateLimitConfig(1)
	})

	w := get(r, "/api/v1/stats", "Origin", "https://widget.example.ru")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, "/api/v1/stats")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code, "health checks bypass the limiter")
}

//Personal.AI order the ending

package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
)

func healthRouter(h *handlers.HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	r.GET("/health", h.Detailed)
	return r
}

func TestHealthHandler_Liveness(t *testing.T) {
	failing := handlers.NewCheck("redis", func(context.Context) error { return errors.New("down") })
	w := do(healthRouter(handlers.NewHealthHandler("1.2.3", failing)), http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.LivenessResponse
	decode(t, w, &resp)
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_ReadinessNoCheckers(t *testing.T) {
	w := do(healthRouter(handlers.NewHealthHandler("dev")), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := handlers.NewCheck("snapshot", func(context.Context) error { return nil })
	bad := handlers.NewCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	w := do(healthRouter(handlers.NewHealthHandler("dev", ok)), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(healthRouter(handlers.NewHealthHandler("dev", ok, bad)), http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp handlers.ReadinessResponse
	decode(t, w, &resp)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "healthy", resp.Components["snapshot"].Status)
	assert.Equal(t, "connection refused", resp.Components["redis"].Error)
}

func TestHealthHandler_Detailed(t *testing.T) {
	bad := handlers.NewCheck("postgres", func(context.Context) error { return errors.New("timeout") })
	w := do(healthRouter(handlers.NewHealthHandler("dev", bad)), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp handlers.DetailedResponse
	decode(t, w, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Contains(t, resp.Components, "postgres")
}

//Personal.AI order the ending

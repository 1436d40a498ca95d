// Package http assembles the gin engine and HTTP server of the map API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/internal/interfaces/http/middleware"
	"github.com/turtacn/regionmap/pkg/errors"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	// Handlers
	RegionHandler         *handlers.RegionHandler
	MapHandler            *handlers.MapHandler
	RepresentativeHandler *handlers.RepresentativeHandler
	HealthHandler         *handlers.HealthHandler

	// Middleware
	CORS        *middleware.CORSConfig
	Logging     middleware.LoggingConfig
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	AdminToken  string

	// Infrastructure
	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the gin engine: global middleware, public health checks and
// metrics, the read-only /api/v1 surface and the token-guarded admin routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// --- Global middleware ---
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, cfg.Logging, cfg.Metrics))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}

	// --- Health and metrics ---
	if h := cfg.HealthHandler; h != nil {
		r.GET("/healthz", h.Liveness)
		r.GET("/readyz", h.Readiness)
		r.GET("/health", h.Detailed)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	admin := api.Group("", middleware.AdminAuth(cfg.AdminToken))

	registerRegionRoutes(api, cfg.RegionHandler)
	registerMapRoutes(api, admin, cfg.MapHandler)
	registerRepresentativeRoutes(api, admin, cfg.RepresentativeHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Code: errors.ErrCodeNotFound, Message: "route not found", Detail: c.Request.URL.Path})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.ErrorResponse{Code: errors.ErrCodeBadRequest, Message: "method not allowed", Detail: c.Request.Method})
	})

	return r
}

func registerRegionRoutes(api *gin.RouterGroup, h *handlers.RegionHandler) {
	if h == nil {
		return
	}
	api.GET("/regions", h.List)
	api.GET("/regions/lookup", h.Lookup)
	api.GET("/regions/:id", h.Get)
	api.GET("/regions/:id/tooltip", h.Tooltip)
	api.GET("/regions/:id/representatives", h.Contacts)
	api.GET("/contacts", h.Prompt)
	api.GET("/stats", h.Stats)
}

func registerMapRoutes(api, admin *gin.RouterGroup, h *handlers.MapHandler) {
	if h == nil {
		return
	}
	m := api.Group("/map")
	m.GET("/shapes", h.Shapes)
	m.GET("/svg", h.SVG)
	m.GET("/locate", h.Locate)
	m.GET("/locate/ip", h.LocateIP)
	m.GET("/atlas", h.Atlas)

	admin.POST("/map/reload", h.Reload)
}

func registerRepresentativeRoutes(api, admin *gin.RouterGroup, h *handlers.RepresentativeHandler) {
	if h == nil {
		return
	}
	api.GET("/representatives", h.List)

	admin.POST("/representatives/refresh", h.Refresh)
	admin.POST("/representatives", h.Create)
	admin.GET("/representatives/:id", h.Get)
	admin.PUT("/representatives/:id", h.Update)
	admin.DELETE("/representatives/:id", h.Delete)
}

//Personal.AI order the ending

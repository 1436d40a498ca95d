package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.  Every Record helper accepts a
// nil *AppMetrics and does nothing, so components can run unmetered in tests.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// gRPC
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	// Map rendering
	MapRenderDuration HistogramVec
	MapRenderBytes    HistogramVec
	LocateTotal       CounterVec

	// Representative snapshot
	SnapshotRefreshTotal    CounterVec
	SnapshotRefreshDuration HistogramVec
	SnapshotRepresentatives GaugeVec
	SnapshotVersion         GaugeVec
	SnapshotLastRefresh     GaugeVec

	// Infrastructure
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsTotal      CounterVec
	DBQueryDuration  HistogramVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultRenderDurationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultRefreshBuckets        = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultSizeBuckets           = []float64{1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 16 << 20}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	m.MapRenderDuration = collector.RegisterHistogram("map_render_duration_seconds", "Time to build a map view", DefaultRenderDurationBuckets, "format")
	m.MapRenderBytes = collector.RegisterHistogram("map_render_bytes", "Size of rendered map documents", DefaultSizeBuckets, "format")
	m.LocateTotal = collector.RegisterCounter("map_locate_total", "Point and address lookups", "method", "result")

	m.SnapshotRefreshTotal = collector.RegisterCounter("snapshot_refresh_total", "Representative snapshot refreshes", "source", "status")
	m.SnapshotRefreshDuration = collector.RegisterHistogram("snapshot_refresh_duration_seconds", "Representative snapshot refresh duration", DefaultRefreshBuckets, "source")
	m.SnapshotRepresentatives = collector.RegisterGauge("snapshot_representatives", "Representatives in the current snapshot")
	m.SnapshotVersion = collector.RegisterGauge("snapshot_version", "Version of the current snapshot")
	m.SnapshotLastRefresh = collector.RegisterGauge("snapshot_last_refresh_timestamp_seconds", "Unix time of the last successful refresh")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsTotal = collector.RegisterCounter("events_total", "Representative change events", "direction", "event_type", "status")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGRPCRequest records one finished gRPC call; code is the status code
// name, e.g. "OK".
func RecordGRPCRequest(m *AppMetrics, service, method, code string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// TrackActiveRequest increments the in-flight gauge and returns the matching
// decrement.
func TrackActiveRequest(m *AppMetrics) func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPActiveRequests.WithLabelValues()
	g.Inc()
	return g.Dec
}

// RecordRender records one rendered map document; format is "svg" or "shapes".
func RecordRender(m *AppMetrics, format string, duration time.Duration, size int) {
	if m == nil {
		return
	}
	m.MapRenderDuration.WithLabelValues(format).Observe(duration.Seconds())
	m.MapRenderBytes.WithLabelValues(format).Observe(float64(size))
}

// RecordLocate records a lookup; method is "point" or "ip".
func RecordLocate(m *AppMetrics, method string, found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.LocateTotal.WithLabelValues(method, result).Inc()
}

// RecordSnapshotRefresh records a refresh attempt.  The gauges move only on
// success.
func RecordSnapshotRefresh(m *AppMetrics, source string, duration time.Duration, size int, version uint64, err error) {
	if m == nil {
		return
	}
	m.SnapshotRefreshTotal.WithLabelValues(source, statusLabel(err)).Inc()
	m.SnapshotRefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("snapshot", "refresh").Inc()
		return
	}
	m.SnapshotRepresentatives.WithLabelValues().Set(float64(size))
	m.SnapshotVersion.WithLabelValues().Set(float64(version))
	m.SnapshotLastRefresh.WithLabelValues().Set(float64(time.Now().Unix()))
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordEvent records a change event; direction is "published" or "consumed".
func RecordEvent(m *AppMetrics, direction, eventType string, err error) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(direction, eventType, statusLabel(err)).Inc()
}

func RecordDBQuery(m *AppMetrics, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("postgres", "query").Inc()
	}
}

func SetHealth(m *AppMetrics, component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordError(m *AppMetrics, component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending

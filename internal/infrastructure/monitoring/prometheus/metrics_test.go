package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)
	return m, c
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "GET", "/api/v1/map/svg", 200, 100*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="GET",path="/api/v1/map/svg",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_request_duration_seconds_count{method="GET",path="/api/v1/map/svg"} 1`)
}

func TestRecordGRPCRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordGRPCRequest(m, "grpc.health.v1.Health", "Check", "OK", 2*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_grpc_requests_total{code="OK",method="Check",service="grpc.health.v1.Health"} 1`)
	assert.Contains(t, out, `test_unit_grpc_request_duration_seconds_count{method="Check",service="grpc.health.v1.Health"} 1`)
}

func TestTrackActiveRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	done := TrackActiveRequest(m)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_http_active_requests 1")
	done()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_http_active_requests 0")
}

func TestRecordRender(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordRender(m, "svg", 3*time.Millisecond, 2048)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_map_render_duration_seconds_count{format="svg"} 1`)
	assert.Contains(t, out, `test_unit_map_render_bytes_sum{format="svg"} 2048`)
}

func TestRecordLocate(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordLocate(m, "point", true)
	RecordLocate(m, "ip", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_map_locate_total{method="point",result="hit"} 1`)
	assert.Contains(t, out, `test_unit_map_locate_total{method="ip",result="miss"} 1`)
}

func TestRecordSnapshotRefresh_Success(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordSnapshotRefresh(m, "fixture", 10*time.Millisecond, 5, 3, nil)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_snapshot_refresh_total{source="fixture",status="success"} 1`)
	assert.Contains(t, out, "test_unit_snapshot_representatives 5")
	assert.Contains(t, out, "test_unit_snapshot_version 3")
}

func TestRecordSnapshotRefresh_FailureKeepsGauges(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordSnapshotRefresh(m, "http", 10*time.Millisecond, 5, 1, nil)
	RecordSnapshotRefresh(m, "http", 10*time.Millisecond, 0, 0, errors.New("timeout"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_snapshot_refresh_total{source="http",status="failure"} 1`)
	assert.Contains(t, out, "test_unit_snapshot_representatives 5")
	assert.Contains(t, out, `test_unit_errors_total{component="snapshot",error_type="refresh"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "redis", true)
	RecordCacheAccess(m, "local", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="redis"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="local"} 1`)
}

func TestRecordEvent(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordEvent(m, "published", "representative.deleted", nil)
	RecordEvent(m, "consumed", "representative.upserted", errors.New("bad payload"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_events_total{direction="published",event_type="representative.deleted",status="success"} 1`)
	assert.Contains(t, out, `test_unit_events_total{direction="consumed",event_type="representative.upserted",status="failure"} 1`)
}

func TestRecordDBQuery_Error(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordDBQuery(m, "fetch", 5*time.Millisecond, errors.New("db error"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_db_query_duration_seconds_count{operation="fetch"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{component="postgres",error_type="query"} 1`)
}

func TestSetHealth(t *testing.T) {
	m, c := newTestAppMetrics(t)

	SetHealth(m, "redis", false)
	SetHealth(m, "atlas", true)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_health_check_status{component="redis"} 0`)
	assert.Contains(t, out, `test_unit_health_check_status{component="atlas"} 1`)
}

func TestNilMetrics_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, time.Millisecond)
		RecordGRPCRequest(nil, "s", "m", "OK", time.Millisecond)
		TrackActiveRequest(nil)()
		RecordRender(nil, "svg", time.Millisecond, 1)
		RecordLocate(nil, "point", true)
		RecordSnapshotRefresh(nil, "fixture", time.Millisecond, 1, 1, nil)
		RecordCacheAccess(nil, "local", true)
		RecordEvent(nil, "consumed", "x", nil)
		RecordDBQuery(nil, "fetch", time.Millisecond, nil)
		SetHealth(nil, "x", true)
		RecordError(nil, "x", "y")
	})
}

func TestConcurrentMetricRecording(t *testing.T) {
	m, c := newTestAppMetrics(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				RecordHTTPRequest(m, "GET", "/path", 200, time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_requests_total{method="GET",path="/path",status_code="200"} 1000`)
}

//Personal.AI order the ending

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "file", cfg.Geo.Kind)
	assert.Equal(t, DefaultGeoPath, cfg.Geo.Path)
	assert.Equal(t, "fixture", cfg.Representatives.Source.Kind)
	assert.Equal(t, DefaultRefreshSchedule, cfg.Representatives.RefreshSchedule)
	assert.Equal(t, "standalone", cfg.Redis.Mode)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, uint64(DefaultCacheCapacity), cfg.Cache.Capacity)
	assert.Equal(t, DefaultThemeFill, cfg.Theme.Fill)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)

	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.MinIO.Enabled)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Geo.Kind = "http"
	cfg.Cache.TTL = time.Minute
	cfg.Theme.ActiveFill = "#ff0000"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Geo.Kind)
	assert.Empty(t, cfg.Geo.Path)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "#ff0000", cfg.Theme.ActiveFill)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending

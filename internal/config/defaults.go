package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultGRPCPort = 9090

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultGeoPath    = "data/russia.geojson"
	DefaultGeoTimeout = 30 * time.Second

	DefaultRefreshSchedule = "@every 5m"
	DefaultRefreshTimeout  = 30 * time.Second

	DefaultDBHost = "localhost"
	DefaultDBPort = 5432
	DefaultDBName = "regionmap"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "regionmap:"
	DefaultRedisTTL       = 10 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "regionmap-worker"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultExportsBucket = "regionmap-exports"

	DefaultCacheTTL      = 10 * time.Minute
	DefaultCacheCapacity = 256

	DefaultMetricsNamespace = "regionmap"
	DefaultMetricsPath      = "/metrics"
)

// Map colours.
const (
	DefaultThemeBackground   = "#f8fafc"
	DefaultThemeAccent       = "#e2e8f0"
	DefaultThemeFill         = "#cbd5e1"
	DefaultThemeStroke       = "#ffffff"
	DefaultThemeActiveFill   = "#0f172a"
	DefaultThemeActiveStroke = "#ffffff"
)

// ApplyDefaults fills every zero-value field in cfg with the default.
// Fields that have already been set (non-zero values) are left unchanged so
// that explicit configuration always wins.  Feature toggles (the Enabled
// flags) are never switched on here.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = DefaultGRPCPort
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Geo ───────────────────────────────────────────────────────────────────
	if cfg.Geo.Kind == "" {
		cfg.Geo.Kind = "file"
	}
	if cfg.Geo.Kind == "file" && cfg.Geo.Path == "" {
		cfg.Geo.Path = DefaultGeoPath
	}
	if cfg.Geo.Timeout == 0 {
		cfg.Geo.Timeout = DefaultGeoTimeout
	}

	// ── Representatives ───────────────────────────────────────────────────────
	if cfg.Representatives.Source.Kind == "" {
		cfg.Representatives.Source.Kind = "fixture"
	}
	if cfg.Representatives.RefreshSchedule == "" {
		cfg.Representatives.RefreshSchedule = DefaultRefreshSchedule
	}
	if cfg.Representatives.RefreshTimeout == 0 {
		cfg.Representatives.RefreshTimeout = DefaultRefreshTimeout
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = "standalone"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = DefaultRedisTTL
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "latest"
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = 1
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Buckets.Exports == "" {
		cfg.MinIO.Buckets.Exports = DefaultExportsBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = time.Hour
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = DefaultCacheCapacity
	}

	// ── Theme ─────────────────────────────────────────────────────────────────
	if cfg.Theme.Background == "" {
		cfg.Theme.Background = DefaultThemeBackground
	}
	if cfg.Theme.Accent == "" {
		cfg.Theme.Accent = DefaultThemeAccent
	}
	if cfg.Theme.Fill == "" {
		cfg.Theme.Fill = DefaultThemeFill
	}
	if cfg.Theme.Stroke == "" {
		cfg.Theme.Stroke = DefaultThemeStroke
	}
	if cfg.Theme.ActiveFill == "" {
		cfg.Theme.ActiveFill = DefaultThemeActiveFill
	}
	if cfg.Theme.ActiveStroke == "" {
		cfg.Theme.ActiveStroke = DefaultThemeActiveStroke
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending

// Package config provides configuration loading, defaults, and validation for
// the RegionMap service, CLI and worker.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/internal/infrastructure/database/redis"
	"github.com/turtacn/regionmap/internal/infrastructure/geodata"
	"github.com/turtacn/regionmap/internal/infrastructure/geoip"
	"github.com/turtacn/regionmap/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/internal/infrastructure/provider"
	"github.com/turtacn/regionmap/internal/infrastructure/storage/minio"
)

// Config is the root configuration object.  Infrastructure sections reuse the
// config types of the packages they configure.
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	GRPC            GRPCConfig            `mapstructure:"grpc"`
	Log             logging.LogConfig     `mapstructure:"log"`
	Geo             geodata.Config        `mapstructure:"geo"`
	Catalog         CatalogConfig         `mapstructure:"catalog"`
	Representatives RepresentativesConfig `mapstructure:"representatives"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	MinIO           MinIOConfig           `mapstructure:"minio"`
	GeoIP           geoip.Config          `mapstructure:"geoip"`
	Cache           CacheConfig           `mapstructure:"cache"`
	Theme           ThemeConfig           `mapstructure:"theme"`
	Metrics         MetricsConfig         `mapstructure:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// AdminToken guards the representative write endpoints.  Empty disables
	// them.
	AdminToken string `mapstructure:"admin_token"`
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit int `mapstructure:"rate_limit"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GRPCConfig sizes are in bytes; zero keeps the server defaults.  TLS is
// enabled when both the certificate and the key file are set.
type GRPCConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Port           int    `mapstructure:"port"`
	MaxRecvMsgSize int    `mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize int    `mapstructure:"max_send_msg_size"`
	TLSCertFile    string `mapstructure:"tls_cert_file"`
	TLSKeyFile     string `mapstructure:"tls_key_file"`
}

// CatalogConfig overrides the embedded region catalog and name mapping.
type CatalogConfig struct {
	RegionsPath string `mapstructure:"regions_path"`
	MappingPath string `mapstructure:"mapping_path"`
}

type RepresentativesConfig struct {
	Source provider.Config `mapstructure:"source"`
	// RefreshSchedule is a cron spec; "@every 5m" and the five-field form are
	// both accepted.  Empty disables periodic refresh.
	RefreshSchedule string        `mapstructure:"refresh_schedule"`
	RefreshTimeout  time.Duration `mapstructure:"refresh_timeout"`
}

type DatabaseConfig struct {
	Enabled                 bool `mapstructure:"enabled"`
	AutoMigrate             bool `mapstructure:"auto_migrate"`
	postgres.PostgresConfig `mapstructure:",squash"`
}

type RedisConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	KeyPrefix         string        `mapstructure:"key_prefix"`
	TTL               time.Duration `mapstructure:"ttl"`
	redis.RedisConfig `mapstructure:",squash"`
}

type KafkaConfig struct {
	Enabled           bool                 `mapstructure:"enabled"`
	Brokers           []string             `mapstructure:"brokers"`
	GroupID           string               `mapstructure:"group_id"`
	AutoOffsetReset   string               `mapstructure:"auto_offset_reset"`
	ReplicationFactor int                  `mapstructure:"replication_factor"`
	MaxRetries        int                  `mapstructure:"max_retries"`
	Security          kafka.SecurityConfig `mapstructure:"security"`
}

type MinIOConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	minio.MinIOConfig `mapstructure:",squash"`
}

// CacheConfig sizes the in-process cache of derived map values.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity uint64        `mapstructure:"capacity"`
}

// ThemeConfig holds the SVG colours.  Active colours apply to the selected
// region.
type ThemeConfig struct {
	Background   string `mapstructure:"background"`
	Accent       string `mapstructure:"accent"`
	Fill         string `mapstructure:"fill"`
	Stroke       string `mapstructure:"stroke"`
	ActiveFill   string `mapstructure:"active_fill"`
	ActiveStroke string `mapstructure:"active_stroke"`
}

type MetricsConfig struct {
	Enabled                    bool   `mapstructure:"enabled"`
	Path                       string `mapstructure:"path"`
	prometheus.CollectorConfig `mapstructure:",squash"`
}

// Validate checks the configuration for values that would prevent the
// process from starting.  Sections that are disabled are not checked.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: server.rate_limit must be >= 0, got %d", c.Server.RateLimit)
	}

	if c.GRPC.Enabled && (c.GRPC.Port < 1 || c.GRPC.Port > 65535) {
		return fmt.Errorf("config: grpc.port %d is out of range [1, 65535]", c.GRPC.Port)
	}
	if c.GRPC.MaxRecvMsgSize < 0 || c.GRPC.MaxSendMsgSize < 0 {
		return fmt.Errorf("config: grpc message size limits must not be negative")
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		return fmt.Errorf("config: grpc.tls_cert_file and grpc.tls_key_file must be set together")
	}

	if _, err := logging.ParseLevel(string(c.Log.Level)); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.Geo.Kind {
	case geodata.KindFile:
		if c.Geo.Path == "" {
			return fmt.Errorf("config: geo.path is required for a file source")
		}
	case geodata.KindHTTP:
		if c.Geo.URL == "" {
			return fmt.Errorf("config: geo.url is required for an http source")
		}
	case geodata.KindObject:
		if c.Geo.Object == "" {
			return fmt.Errorf("config: geo.object is required for a minio source")
		}
		if !c.MinIO.Enabled {
			return fmt.Errorf("config: geo.kind %q requires minio.enabled", c.Geo.Kind)
		}
	default:
		return fmt.Errorf("config: geo.kind %q is invalid; expected file|http|minio", c.Geo.Kind)
	}

	src := c.Representatives.Source
	switch src.Kind {
	case provider.KindFixture:
	case provider.KindFile:
		if src.Path == "" {
			return fmt.Errorf("config: representatives.source.path is required for a file source")
		}
	case provider.KindHTTP:
		if src.URL == "" {
			return fmt.Errorf("config: representatives.source.url is required for an http source")
		}
	case provider.KindPostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("config: representatives.source.kind %q requires database.enabled", src.Kind)
		}
	default:
		return fmt.Errorf("config: representatives.source.kind %q is invalid; expected fixture|file|http|postgres", src.Kind)
	}
	if s := strings.TrimSpace(c.Representatives.RefreshSchedule); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("config: representatives.refresh_schedule %q: %w", s, err)
		}
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.Database == "" {
			return fmt.Errorf("config: database.database is required")
		}
	}

	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "standalone":
			if c.Redis.Addr == "" {
				return fmt.Errorf("config: redis.addr is required")
			}
		case "sentinel":
			if c.Redis.MasterName == "" || len(c.Redis.SentinelAddrs) == 0 {
				return fmt.Errorf("config: redis sentinel mode requires master_name and sentinel_addrs")
			}
		case "cluster":
			if len(c.Redis.ClusterAddrs) == 0 {
				return fmt.Errorf("config: redis.cluster_addrs must not be empty in cluster mode")
			}
		default:
			return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Redis.Mode)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
		switch c.Kafka.AutoOffsetReset {
		case "earliest", "latest":
		default:
			return fmt.Errorf("config: kafka.auto_offset_reset %q is invalid; expected earliest|latest", c.Kafka.AutoOffsetReset)
		}
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required")
		}
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("config: minio.access_key_id and minio.secret_access_key are required")
		}
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	if c.Metrics.Enabled {
		if c.Metrics.Namespace == "" {
			return fmt.Errorf("config: metrics.namespace is required")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	return nil
}

//Personal.AI order the ending

// Package bootstrap assembles the map backend from configuration.  It is
// shared by the API server, the worker and the CLI so that the three
// processes see the same catalog, sources and caches.
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/config"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/regionmap/internal/infrastructure/database/redis"
	"github.com/turtacn/regionmap/internal/infrastructure/geodata"
	"github.com/turtacn/regionmap/internal/infrastructure/geoip"
	"github.com/turtacn/regionmap/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/internal/infrastructure/provider"
	"github.com/turtacn/regionmap/internal/infrastructure/storage/minio"
)

// Infrastructure holds the clients of the enabled backing services.  Fields
// of disabled services are nil.
type Infrastructure struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Postgres  *postgres.Connection
	Redis     *redis.Client
	Cache     redis.Cache
	MinIO     *minio.MinIOClient
	Objects   minio.ObjectStorageRepository
	Producer  *kafka.Producer
	GeoIP     *geoip.Resolver
}

// NewInfrastructure connects every enabled service.  On error the clients
// opened so far are closed.
func NewInfrastructure(ctx context.Context, cfg *config.Config, log logging.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{Config: cfg, Logger: log}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig, log)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		infra.Collector = collector
		infra.Metrics = prometheus.NewAppMetrics(collector)
	}

	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(ctx, cfg.Database.PostgresConfig, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.Postgres = conn
		if cfg.Database.AutoMigrate {
			if err := conn.RunMigrations(); err != nil {
				infra.Close()
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
		}
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis.RedisConfig, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.Redis = client
		infra.Cache = redis.NewRedisCache(client, log,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.TTL),
		)
	}

	if cfg.MinIO.Enabled {
		client, err := minio.NewMinIOClient(ctx, &cfg.MinIO.MinIOConfig, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.MinIO = client
		infra.Objects = minio.NewMinIORepository(client, log)
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			MaxRetries: cfg.Kafka.MaxRetries,
			Security:   cfg.Kafka.Security,
		}, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		infra.Producer = producer
	}

	resolver, err := geoip.NewResolver(cfg.GeoIP, log)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("geoip: %w", err)
	}
	infra.GeoIP = resolver

	log.Info("infrastructure initialized",
		logging.Bool("metrics", infra.Metrics != nil),
		logging.Bool("postgres", infra.Postgres != nil),
		logging.Bool("redis", infra.Redis != nil),
		logging.Bool("minio", infra.MinIO != nil),
		logging.Bool("kafka", infra.Producer != nil),
		logging.Bool("geoip", resolver.Enabled()),
	)
	return infra, nil
}

// Close releases every open client.  It is safe on a partly built value.
func (i *Infrastructure) Close() {
	if i.Producer != nil {
		_ = i.Producer.Close()
	}
	if i.GeoIP != nil {
		_ = i.GeoIP.Close()
	}
	if i.MinIO != nil {
		_ = i.MinIO.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.Postgres != nil {
		_ = i.Postgres.Close()
	}
}

// Publisher returns the event publisher, or nil when Kafka is disabled.
func (i *Infrastructure) Publisher() snapshot.EventPublisher {
	if i.Producer == nil {
		return nil
	}
	return i.Producer
}

// App is the assembled map backend.
type App struct {
	*Infrastructure

	Catalog *region.Catalog
	Mapping *region.NameMapping
	Store   *snapshot.Store
	// Editor is nil unless representatives live in postgres.
	Editor  *snapshot.Editor
	Geo     geodata.Source
	Service mapview.Service
}

// New builds the App on top of infra.  Nothing is fetched yet; call Warm.
func New(infra *Infrastructure) (*App, error) {
	cfg, log := infra.Config, infra.Logger

	catalog, mapping, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	var objects geodata.ObjectGetter
	if infra.Objects != nil {
		objects = infra.Objects
	}
	geo, err := geodata.NewSource(cfg.Geo, objects, log.Named("geodata"))
	if err != nil {
		return nil, fmt.Errorf("geo source: %w", err)
	}

	var repo representative.Repository
	if infra.Postgres != nil {
		repo = repositories.NewPostgresRepresentativeRepo(infra.Postgres, log)
	}
	source, err := provider.NewSource(cfg.Representatives.Source, repo, log.Named("provider"))
	if err != nil {
		return nil, fmt.Errorf("representative source: %w", err)
	}

	store := snapshot.NewStore(source, log.Named("snapshot"),
		snapshot.WithTimeout(cfg.Representatives.RefreshTimeout),
		snapshot.WithMetrics(infra.Metrics),
	)

	var editor *snapshot.Editor
	if repo != nil && cfg.Representatives.Source.Kind == provider.KindPostgres {
		editor = snapshot.NewEditor(repo, store, infra.Publisher(), infra.Metrics, log.Named("editor"))
	}

	svc := mapview.NewService(catalog, mapping, store, geo, mapview.Options{
		Theme:         Theme(cfg.Theme),
		CacheTTL:      cfg.Cache.TTL,
		CacheCapacity: cfg.Cache.Capacity,
		Shared:        infra.Cache,
		SharedTTL:     cfg.Redis.TTL,
		GeoIP:         infra.GeoIP,
		Metrics:       infra.Metrics,
	}, log.Named("mapview"))

	return &App{
		Infrastructure: infra,
		Catalog:        catalog,
		Mapping:        mapping,
		Store:          store,
		Editor:         editor,
		Geo:            geo,
		Service:        svc,
	}, nil
}

// Warm loads the map geometry and the first representative snapshot.  Both
// are attempted; the first failure is returned after both ran.
func (a *App) Warm(ctx context.Context) error {
	atlasErr := a.Service.ReloadAtlas(ctx)
	_, snapErr := a.Store.Refresh(ctx)
	if snapErr != nil {
		a.Logger.Warn("initial representative refresh failed", logging.Err(snapErr))
	}
	if atlasErr != nil {
		return atlasErr
	}
	return snapErr
}

// NewChangeConsumer returns a consumer in groupID that refreshes the store on
// every representative change event.  Failed refreshes are retried and then
// dead-lettered.  The caller starts and closes it.
func (a *App) NewChangeConsumer(groupID string) (*kafka.Consumer, error) {
	k := a.Config.Kafka
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         k.Brokers,
		GroupID:         groupID,
		Topics:          []string{kafka.TopicRepresentativeChanged},
		AutoOffsetReset: k.AutoOffsetReset,
		Security:        k.Security,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      k.MaxRetries,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 30 * time.Second,
			DeadLetterTopic: kafka.TopicDeadLetter,
		},
	}, a.Logger.Named("consumer"))
	if err != nil {
		return nil, err
	}
	consumer.Subscribe(kafka.TopicRepresentativeChanged, snapshot.EventHandler(a.Store, a.Metrics, a.Logger.Named("events")))
	return consumer, nil
}

// AnnounceReloads publishes a reload event through pub after every refresh
// that changed the collection, so instances without a scheduler follow
// changes made outside the admin API.  A nil pub does nothing.
func (a *App) AnnounceReloads(pub snapshot.EventPublisher) {
	if pub == nil {
		return
	}
	var (
		mu   sync.Mutex
		last = a.Store.Current().Digest
	)
	a.Store.OnRefresh(func(ctx context.Context, snap *snapshot.Snapshot) {
		mu.Lock()
		changed := snap.Digest != last
		last = snap.Digest
		mu.Unlock()
		if !changed {
			return
		}
		err := pub.PublishEvent(ctx, kafka.TopicRepresentativeChanged, kafka.EventRepresentativesReloaded,
			kafka.RepresentativeChangedPayload{ChangedAt: snap.FetchedAt})
		prometheus.RecordEvent(a.Metrics, "out", kafka.EventRepresentativesReloaded, err)
		if err != nil {
			a.Logger.Warn("failed to announce representative reload", logging.Err(err))
		}
	})
}

// Theme converts the configured colours.
func Theme(t config.ThemeConfig) mapview.Theme {
	return mapview.Theme{
		Background:   t.Background,
		Accent:       t.Accent,
		Fill:         t.Fill,
		Stroke:       t.Stroke,
		ActiveFill:   t.ActiveFill,
		ActiveStroke: t.ActiveStroke,
	}
}

func loadCatalog(cfg config.CatalogConfig) (*region.Catalog, *region.NameMapping, error) {
	var (
		catalog *region.Catalog
		err     error
	)
	if cfg.RegionsPath != "" {
		catalog, err = region.LoadCatalogFile(cfg.RegionsPath)
	} else {
		catalog, err = region.DefaultCatalog()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("region catalog: %w", err)
	}

	var mapping *region.NameMapping
	if cfg.MappingPath != "" {
		mapping, err = region.LoadNameMappingFile(catalog, cfg.MappingPath)
	} else {
		mapping, err = region.DefaultNameMapping(catalog)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("name mapping: %w", err)
	}
	return catalog, mapping, nil
}

//Personal.AI order the ending

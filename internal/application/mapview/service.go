// Package mapview is the application service behind every map surface: it
// combines the loaded geographic atlas, the region catalog and the current
// representative snapshot into shapes, SVG documents, tooltips, contact
// panels, statistics and point/address lookups.
package mapview

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/database/redis"
	"github.com/turtacn/regionmap/internal/infrastructure/geodata"
	"github.com/turtacn/regionmap/internal/infrastructure/geoip"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Locate methods reported in LocateResult.Method.
const (
	MethodPoint = "point"
	MethodGeoIP = "geoip"
)

// Service defines the map operations exposed to the HTTP, gRPC and CLI
// surfaces.
type Service interface {
	Regions() []RegionSummary
	Region(id string) (region.Region, error)
	Tooltip(id string) (Tooltip, error)
	Contacts(id string) (ContactPanel, error)
	Stats() Stats
	Shapes() []Shape
	SVG(ctx context.Context, selected string) ([]byte, error)
	LookupByName(name string) (region.Region, error)
	Locate(lon, lat float64) (*LocateResult, error)
	LocateIP(addr string) (*LocateResult, error)
	Snapshot() *snapshot.Snapshot
	Atlas() *Atlas
	ReloadAtlas(ctx context.Context) error
	Invalidate(ctx context.Context)
}

// LocateResult is the region found for a point or an address.
type LocateResult struct {
	Region  region.Region `json:"region"`
	Method  string        `json:"method"`
	Lon     float64       `json:"lon"`
	Lat     float64       `json:"lat"`
	Tooltip Tooltip       `json:"tooltip"`
}

// Options carries the optional collaborators and tuning of the service.
type Options struct {
	Theme Theme
	// CacheTTL and CacheCapacity size the in-process cache of derived values.
	CacheTTL      time.Duration
	CacheCapacity uint64
	// Shared, when set, stores rendered SVG documents for every instance.
	Shared    redis.Cache
	SharedTTL time.Duration
	GeoIP     *geoip.Resolver
	Metrics   *prometheus.AppMetrics
}

type serviceImpl struct {
	catalog *region.Catalog
	mapping *region.NameMapping
	matcher *representative.Matcher
	store   *snapshot.Store
	geo     geodata.Source
	atlas   atomic.Pointer[Atlas]

	theme    Theme
	themeKey string
	counts   *ttlcache.Cache[string, map[string]int]
	svgs     *ttlcache.Cache[string, []byte]
	shared   redis.Cache
	sharedTT time.Duration
	resolver *geoip.Resolver
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewService wires the service.  geo may be nil, in which case the atlas
// holds only fallback markers until ReloadAtlas succeeds with a source.
// The store's refresh listener is registered here so derived values are
// dropped as soon as a new snapshot is swapped in.
func NewService(catalog *region.Catalog, mapping *region.NameMapping, store *snapshot.Store, geo geodata.Source, opts Options, log logging.Logger) Service {
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.CacheCapacity == 0 {
		opts.CacheCapacity = 256
	}
	if opts.SharedTTL <= 0 {
		opts.SharedTTL = opts.CacheTTL
	}

	s := &serviceImpl{
		catalog:  catalog,
		mapping:  mapping,
		matcher:  representative.NewMatcher(catalog),
		store:    store,
		geo:      geo,
		theme:    opts.Theme,
		themeKey: themeKey(opts.Theme),
		counts: ttlcache.New(
			ttlcache.WithTTL[string, map[string]int](opts.CacheTTL),
			ttlcache.WithCapacity[string, map[string]int](opts.CacheCapacity),
		),
		svgs: ttlcache.New(
			ttlcache.WithTTL[string, []byte](opts.CacheTTL),
			ttlcache.WithCapacity[string, []byte](opts.CacheCapacity),
		),
		shared:   opts.Shared,
		sharedTT: opts.SharedTTL,
		resolver: opts.GeoIP,
		metrics:  opts.Metrics,
		logger:   log,
	}
	s.atlas.Store(BuildAtlas(nil, catalog, mapping))
	store.OnRefresh(func(ctx context.Context, _ *snapshot.Snapshot) { s.Invalidate(ctx) })
	return s
}

func themeKey(t Theme) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%+v", t)
	return fmt.Sprintf("%08x", h.Sum32())
}

func short(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

func (s *serviceImpl) Snapshot() *snapshot.Snapshot { return s.store.Current() }

func (s *serviceImpl) Atlas() *Atlas { return s.atlas.Load() }

// ReloadAtlas reloads the geographic document.  On failure the current
// atlas is kept.
func (s *serviceImpl) ReloadAtlas(ctx context.Context) error {
	if s.geo == nil {
		return errors.New(errors.CodeGeoSourceUnavailable, "no geo source configured")
	}
	a, err := LoadAtlas(ctx, s.geo, s.catalog, s.mapping, s.logger)
	if err != nil {
		prometheus.RecordError(s.metrics, "atlas", string(errors.GetCode(err)))
		s.logger.Error("geo document reload failed, keeping current atlas", logging.Err(err))
		return err
	}
	s.atlas.Store(a)
	s.svgs.DeleteAll()
	return nil
}

// Invalidate drops derived values computed from older snapshots.
func (s *serviceImpl) Invalidate(ctx context.Context) {
	s.counts.DeleteAll()
	s.svgs.DeleteAll()
	if s.shared == nil {
		return
	}
	// Shared keys carry the snapshot digest, so stale entries are never
	// served; removing them only reclaims memory early.
	if n, err := s.shared.DeleteByPrefix(ctx, "svg:"); err != nil {
		s.logger.Warn("failed to purge shared svg cache", logging.Err(err))
	} else if n > 0 {
		s.logger.Debug("shared svg cache purged", logging.Int64("keys", n))
	}
}

// regionCounts returns per-region representative counts for the current
// snapshot, computed once per snapshot digest.
func (s *serviceImpl) regionCounts() map[string]int {
	snap := s.store.Current()
	key := "counts:" + snap.Digest
	if item := s.counts.Get(key); item != nil {
		prometheus.RecordCacheAccess(s.metrics, "counts", true)
		return item.Value()
	}
	prometheus.RecordCacheAccess(s.metrics, "counts", false)
	counts := s.matcher.CountByRegion(snap.Representatives)
	s.counts.Set(key, counts, ttlcache.DefaultTTL)
	return counts
}

func (s *serviceImpl) Regions() []RegionSummary {
	counts := s.regionCounts()
	all := s.catalog.All()
	out := make([]RegionSummary, 0, len(all))
	for _, r := range all {
		out = append(out, RegionSummary{Region: r, Count: counts[r.ID]})
	}
	return out
}

// Region resolves id, accepting either identifier prefix.
func (s *serviceImpl) Region(id string) (region.Region, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return region.Region{}, errors.New(errors.CodeInvalidRegionID, "region id is required")
	}
	r, ok := s.catalog.FindByID(id)
	if !ok {
		return region.Region{}, errors.New(errors.CodeRegionNotFound, "region not found").WithDetail(id)
	}
	return r, nil
}

func (s *serviceImpl) Tooltip(id string) (Tooltip, error) {
	r, err := s.Region(id)
	if err != nil {
		return Tooltip{}, err
	}
	return NewTooltip(r, s.regionCounts()[r.ID]), nil
}

// Contacts builds the contact panel.  An empty id is not an error: it yields
// the selection prompt.
func (s *serviceImpl) Contacts(id string) (ContactPanel, error) {
	if strings.TrimSpace(id) == "" {
		return NewContactPanel(nil, nil), nil
	}
	r, err := s.Region(id)
	if err != nil {
		return ContactPanel{}, err
	}
	reps := s.matcher.ForRegion(s.store.Current().Representatives, r.ID)
	return NewContactPanel(&r, reps), nil
}

func (s *serviceImpl) Stats() Stats {
	return NewStats(s.store.Current().Representatives, s.catalog.Len())
}

func (s *serviceImpl) Shapes() []Shape {
	return s.atlas.Load().Shapes()
}

// SVG renders the whole map, highlighting selected when non-empty.  Results
// are cached by atlas fingerprint, snapshot digest, theme and selection.
func (s *serviceImpl) SVG(ctx context.Context, selected string) ([]byte, error) {
	if strings.TrimSpace(selected) != "" {
		r, err := s.Region(selected)
		if err != nil {
			return nil, err
		}
		selected = r.ID
	}
	atlas := s.atlas.Load()
	snap := s.store.Current()
	key := fmt.Sprintf("svg:%s:%s:%s:%s", short(atlas.Fingerprint), short(snap.Digest), s.themeKey, selected)

	if item := s.svgs.Get(key); item != nil {
		prometheus.RecordCacheAccess(s.metrics, "svg_local", true)
		return item.Value(), nil
	}
	prometheus.RecordCacheAccess(s.metrics, "svg_local", false)

	render := func(context.Context) (interface{}, error) {
		start := time.Now()
		counts := s.regionCounts()
		out, err := RenderSVG(atlas.Shapes(), selected, s.theme, func(id string) string {
			r, _ := s.catalog.FindByID(id)
			t := NewTooltip(r, counts[id])
			return t.Name + ": " + t.Text
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to render map")
		}
		prometheus.RecordRender(s.metrics, "svg", time.Since(start), len(out))
		return string(out), nil
	}

	var doc string
	if s.shared != nil {
		loaded := false
		err := s.shared.GetOrSet(ctx, key, &doc, s.sharedTT, func(ctx context.Context) (interface{}, error) {
			loaded = true
			return render(ctx)
		})
		if err != nil {
			return nil, err
		}
		prometheus.RecordCacheAccess(s.metrics, "svg_shared", !loaded)
	} else {
		v, err := render(ctx)
		if err != nil {
			return nil, err
		}
		doc = v.(string)
	}

	out := []byte(doc)
	s.svgs.Set(key, out, ttlcache.DefaultTTL)
	return out, nil
}

// LookupByName resolves a free-form region name: the GeoJSON name mapping
// first, then the catalog's own name comparison.
func (s *serviceImpl) LookupByName(name string) (region.Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return region.Region{}, errors.InvalidParam("name is required")
	}
	if id, ok := s.mapping.Resolve(name); ok {
		if r, ok := s.catalog.FindByID(id); ok {
			return r, nil
		}
	}
	if r, ok := s.catalog.FindByName(name); ok {
		return r, nil
	}
	return region.Region{}, errors.New(errors.CodeRegionNotFound, "region not found").WithDetail(name)
}

func validCoordinate(lon, lat float64) bool {
	return !math.IsNaN(lon) && !math.IsNaN(lat) && !math.IsInf(lon, 0) && !math.IsInf(lat, 0) &&
		lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// Locate finds the region whose shape contains the point.
func (s *serviceImpl) Locate(lon, lat float64) (*LocateResult, error) {
	if !validCoordinate(lon, lat) {
		return nil, errors.New(errors.CodeInvalidCoordinate, "coordinate out of range").
			WithDetail(fmt.Sprintf("lon=%v lat=%v", lon, lat))
	}
	id, ok := s.atlas.Load().Locate(lon, lat)
	prometheus.RecordLocate(s.metrics, MethodPoint, ok)
	if !ok {
		return nil, errors.New(errors.CodeNoRegionAtPoint, "no region at point").
			WithDetail(fmt.Sprintf("lon=%v lat=%v", lon, lat))
	}
	return s.locateResult(id, MethodPoint, lon, lat)
}

// LocateIP resolves addr through the GeoIP database.  The subdivision code
// is tried first; when it names no catalog region the record's coordinates
// are located on the atlas instead.
func (s *serviceImpl) LocateIP(addr string) (*LocateResult, error) {
	if !s.resolver.Enabled() {
		return nil, geoip.ErrDisabled
	}
	loc, err := s.resolver.Lookup(addr)
	if err != nil {
		prometheus.RecordLocate(s.metrics, MethodGeoIP, false)
		return nil, err
	}
	if id := loc.RegionID(); id != "" {
		if _, ok := s.catalog.FindByID(id); ok {
			prometheus.RecordLocate(s.metrics, MethodGeoIP, true)
			return s.locateResult(id, MethodGeoIP, loc.Lon, loc.Lat)
		}
	}
	if loc.Lat != 0 || loc.Lon != 0 {
		if id, ok := s.atlas.Load().Locate(loc.Lon, loc.Lat); ok {
			prometheus.RecordLocate(s.metrics, MethodGeoIP, true)
			return s.locateResult(id, MethodGeoIP, loc.Lon, loc.Lat)
		}
	}
	prometheus.RecordLocate(s.metrics, MethodGeoIP, false)
	return nil, errors.New(errors.CodeNoRegionAtPoint, "address is outside the mapped regions").WithDetail(addr)
}

func (s *serviceImpl) locateResult(id, method string, lon, lat float64) (*LocateResult, error) {
	t, err := s.Tooltip(id)
	if err != nil {
		return nil, err
	}
	r, _ := s.catalog.FindByID(id)
	return &LocateResult{Region: r, Method: method, Lon: lon, Lat: lat, Tooltip: t}, nil
}

//Personal.AI order the ending

// Package geoip resolves visitor addresses to a country subdivision using a
// MaxMind GeoIP2/GeoLite2 City database.
package geoip

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/pkg/errors"
)

// ErrDisabled is returned by a resolver built without a database.
var ErrDisabled = errors.New(errors.CodeGeoIPDisabled, "address lookup disabled")

// Config locates the database file.  An empty path disables lookups.
type Config struct {
	DatabasePath string `mapstructure:"database_path"`
}

// Location is the part of a City record the map uses.
type Location struct {
	CountryISO     string  `json:"country_iso"`
	SubdivisionISO string  `json:"subdivision_iso,omitempty"`
	Subdivision    string  `json:"subdivision,omitempty"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// RegionID returns the ISO 3166-2 style identifier, e.g. "RU-MOW", or ""
// when the record carries no subdivision.
func (l *Location) RegionID() string {
	if l.CountryISO == "" || l.SubdivisionISO == "" {
		return ""
	}
	return strings.ToUpper(l.CountryISO) + "-" + strings.ToUpper(l.SubdivisionISO)
}

// cityReader is the part of *geoip2.Reader the resolver uses.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Resolver looks addresses up.  A zero-value database path yields a
// resolver whose Lookup always returns ErrDisabled.
type Resolver struct {
	reader cityReader
	logger logging.Logger
}

// NewResolver opens the database named in cfg.
func NewResolver(cfg Config, log logging.Logger) (*Resolver, error) {
	if cfg.DatabasePath == "" {
		log.Info("GeoIP lookups disabled")
		return &Resolver{logger: log}, nil
	}
	reader, err := geoip2.Open(cfg.DatabasePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to open GeoIP database").
			WithDetail(cfg.DatabasePath)
	}
	meta := reader.Metadata()
	log.Info("GeoIP database loaded",
		logging.String("path", cfg.DatabasePath),
		logging.String("type", meta.DatabaseType),
		logging.Int64("build_epoch", int64(meta.BuildEpoch)))
	return &Resolver{reader: reader, logger: log}, nil
}

// Enabled reports whether a database is loaded.
func (r *Resolver) Enabled() bool { return r != nil && r.reader != nil }

// Lookup resolves addr, which may carry a port.
func (r *Resolver) Lookup(addr string) (*Location, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}
	ip := ParseIP(addr)
	if ip == nil {
		return nil, errors.New(errors.ErrCodeValidation, "invalid IP address").WithDetail(addr)
	}
	city, err := r.reader.City(ip)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeoIPLookupFailed, "GeoIP lookup failed")
	}
	loc := fromCity(city)
	if loc.CountryISO == "" {
		return nil, errors.New(errors.CodeGeoIPLookupFailed, "address has no location").WithDetail(ip.String())
	}
	return loc, nil
}

// Close releases the database.
func (r *Resolver) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.reader.Close()
}

func fromCity(c *geoip2.City) *Location {
	loc := &Location{
		CountryISO: c.Country.IsoCode,
		Lat:        c.Location.Latitude,
		Lon:        c.Location.Longitude,
	}
	if len(c.Subdivisions) > 0 {
		sub := c.Subdivisions[0]
		loc.SubdivisionISO = sub.IsoCode
		loc.Subdivision = sub.Names["ru"]
		if loc.Subdivision == "" {
			loc.Subdivision = sub.Names["en"]
		}
	}
	return loc
}

// ParseIP accepts a bare address, "host:port" or "[v6]:port".
func ParseIP(addr string) net.IP {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

//Personal.AI order the ending

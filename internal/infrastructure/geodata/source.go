package geodata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Source kinds accepted by Config.Kind.
const (
	KindFile   = "file"
	KindHTTP   = "http"
	KindObject = "minio"
)

// maxDocumentBytes bounds what an HTTP source will read.
const maxDocumentBytes = 64 << 20

// Source fetches the raw GeoJSON bytes.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// ObjectGetter reads "bucket/key" from object storage.
type ObjectGetter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Config selects and configures a Source.
type Config struct {
	Kind    string        `mapstructure:"kind"`
	Path    string        `mapstructure:"path"`
	URL     string        `mapstructure:"url"`
	Object  string        `mapstructure:"object"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewSource builds the Source cfg describes.  objects is only consulted for
// KindObject and may be nil otherwise.
func NewSource(cfg Config, objects ObjectGetter, log logging.Logger) (Source, error) {
	switch cfg.Kind {
	case KindFile, "":
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeValidation, "geo.path is required for a file source")
		}
		return &FileSource{Path: cfg.Path}, nil
	case KindHTTP:
		if cfg.URL == "" {
			return nil, errors.New(errors.ErrCodeValidation, "geo.url is required for an http source")
		}
		return NewHTTPSource(cfg.URL, cfg.Timeout, log), nil
	case KindObject:
		if cfg.Object == "" {
			return nil, errors.New(errors.ErrCodeValidation, "geo.object is required for a minio source")
		}
		if objects == nil {
			return nil, errors.New(errors.ErrCodeValidation, "minio is not configured")
		}
		return &ObjectSource{Path: cfg.Object, Objects: objects}, nil
	}
	return nil, errors.Newf(errors.ErrCodeValidation, "unknown geo source kind %q", cfg.Kind)
}

// Load fetches and parses the document from src.
func Load(ctx context.Context, src Source) (*Document, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeoSourceUnavailable, "failed to read geojson file").
			WithDetail(s.Path)
	}
	return data, nil
}

// HTTPSource downloads the document with a GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
	logger logging.Logger
}

func NewHTTPSource(url string, timeout time.Duration, log logging.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{URL: url, client: &http.Client{Timeout: timeout}, logger: log}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid geojson url")
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeoSourceUnavailable, "geojson download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeGeoSourceUnavailable, "geojson download failed").
			WithDetail(fmt.Sprintf("status %d from %s", resp.StatusCode, s.URL))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeoSourceUnavailable, "geojson download interrupted")
	}
	if len(data) > maxDocumentBytes {
		return nil, errors.New(errors.CodeGeoDocumentInvalid, "geojson document too large")
	}

	s.logger.Debug("geojson downloaded",
		logging.String("url", s.URL),
		logging.Int("bytes", len(data)),
		logging.Duration("latency", time.Since(start)))
	return data, nil
}

// ObjectSource reads "bucket/key" from object storage.
type ObjectSource struct {
	Path    string
	Objects ObjectGetter
}

func (s *ObjectSource) Name() string { return "minio:" + s.Path }

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.Objects.Get(ctx, s.Path)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CodeGeoSourceUnavailable, "geojson object not found").WithDetail(s.Path)
		}
		return nil, errors.Wrap(err, errors.CodeGeoSourceUnavailable, "failed to read geojson object")
	}
	return data, nil
}

//Personal.AI order the ending

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Source kinds accepted by Config.Kind.
const (
	KindFixture  = "fixture"
	KindFile     = "file"
	KindHTTP     = "http"
	KindPostgres = "postgres"
)

const maxBodyBytes = 16 << 20

// Config selects and configures the representative source.
type Config struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
	// RecordsPath is a gjson path to the record array inside the body; empty
	// means the body itself is the array.
	RecordsPath string            `mapstructure:"records_path"`
	Headers     map[string]string `mapstructure:"headers"`
	Timeout     time.Duration     `mapstructure:"timeout"`
}

// NewSource builds the Source cfg describes.  repo backs KindPostgres and
// may be nil for the other kinds.
func NewSource(cfg Config, repo representative.Repository, log logging.Logger) (representative.Source, error) {
	switch cfg.Kind {
	case KindFixture, "":
		return NewFixture(), nil
	case KindFile:
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeValidation, "representatives.path is required for a file source")
		}
		return &FileSource{Path: cfg.Path, RecordsPath: cfg.RecordsPath}, nil
	case KindHTTP:
		if cfg.URL == "" {
			return nil, errors.New(errors.ErrCodeValidation, "representatives.url is required for an http source")
		}
		return NewHTTPSource(cfg, log), nil
	case KindPostgres:
		if repo == nil {
			return nil, errors.New(errors.ErrCodeValidation, "database is not configured")
		}
		return repo, nil
	}
	return nil, errors.Newf(errors.ErrCodeValidation, "unknown representative source kind %q", cfg.Kind)
}

// Decode extracts the record array at recordsPath from a JSON body.  Each
// element is decoded independently; an element that fails to decode fails
// the whole body.
func Decode(body []byte, recordsPath string) ([]representative.Representative, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.CodeRepresentativeSourceFailed, "representative payload is not valid JSON")
	}
	records := gjson.ParseBytes(body)
	if recordsPath != "" {
		records = records.Get(recordsPath)
	}
	if !records.IsArray() {
		return nil, errors.New(errors.CodeRepresentativeSourceFailed, "representative records are not an array").
			WithDetail(fmt.Sprintf("path %q", recordsPath))
	}

	items := records.Array()
	out := make([]representative.Representative, 0, len(items))
	for i, item := range items {
		var rep representative.Representative
		if err := json.Unmarshal([]byte(item.Raw), &rep); err != nil {
			return nil, errors.Wrap(err, errors.CodeRepresentativeSourceFailed, "failed to decode representative").
				WithDetail(fmt.Sprintf("record %d", i))
		}
		out = append(out, rep)
	}
	return out, nil
}

// FileSource reads a JSON document from disk on every Fetch.
type FileSource struct {
	Path        string
	RecordsPath string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(_ context.Context) ([]representative.Representative, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRepresentativeSourceFailed, "failed to read representatives file").
			WithDetail(s.Path)
	}
	return Decode(data, s.RecordsPath)
}

// HTTPSource fetches representatives from a remote JSON endpoint.
type HTTPSource struct {
	cfg    Config
	client *http.Client
	logger logging.Logger
}

func NewHTTPSource(cfg Config, log logging.Logger) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPSource{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, logger: log}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]representative.Representative, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid provider url")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRepresentativeSourceFailed, "provider request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeRepresentativeSourceFailed, "provider request failed").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRepresentativeSourceFailed, "provider response interrupted")
	}

	reps, err := Decode(body, s.cfg.RecordsPath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("representatives fetched",
		logging.String("url", s.cfg.URL),
		logging.Int("count", len(reps)),
		logging.Duration("latency", time.Since(start)))
	return reps, nil
}

//Personal.AI order the ending

// Package snapshot keeps the current representative collection in memory
// and replaces it wholesale on refresh.
//
// Readers call Current and get an immutable *Snapshot without locking; a
// refresh builds a new Snapshot and swaps the pointer.  Every successful
// swap increments Version.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Snapshot is an immutable view of the representative collection.  Callers
// must not modify Representatives.  Digest identifies the content
// independently of Version, so processes holding the same collection agree
// on it.
type Snapshot struct {
	Version         uint64                          `json:"version"`
	Digest          string                          `json:"digest"`
	Source          string                          `json:"source"`
	FetchedAt       time.Time                       `json:"fetched_at"`
	Representatives []representative.Representative `json:"representatives"`
}

// Len returns the number of representatives.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Representatives)
}

// Digest returns a hex SHA-256 of the JSON encoding of reps.
func Digest(reps []representative.Representative) string {
	data, err := json.Marshal(reps)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Listener is notified after every successful swap.
type Listener func(ctx context.Context, snap *Snapshot)

// Store owns the current Snapshot and the Source it is refreshed from.
type Store struct {
	source  representative.Source
	current atomic.Pointer[Snapshot]
	// refreshMu serializes refreshes so versions are assigned in order.
	refreshMu sync.Mutex
	timeout   time.Duration

	listenersMu sync.RWMutex
	listeners   []Listener

	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds a single Fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithMetrics records refresh outcomes.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore returns a Store holding an empty version-0 snapshot.  Call
// Refresh to load data.
func NewStore(source representative.Source, log logging.Logger, opts ...Option) *Store {
	s := &Store{source: source, logger: log, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	empty := []representative.Representative{}
	s.current.Store(&Snapshot{Source: source.Name(), Digest: Digest(empty), Representatives: empty})
	return s
}

// Current returns the latest snapshot.  It never returns nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// SourceName identifies the backing source.
func (s *Store) SourceName() string { return s.source.Name() }

// OnRefresh registers l to run after each successful refresh.
func (s *Store) OnRefresh(l Listener) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, l)
	s.listenersMu.Unlock()
}

// Refresh fetches the collection and swaps it in.  On failure the previous
// snapshot stays current and the error is returned.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reps, err := s.source.Fetch(fetchCtx)
	elapsed := time.Since(start)
	prev := s.current.Load()
	if err != nil {
		prometheus.RecordSnapshotRefresh(s.metrics, s.source.Name(), elapsed, prev.Len(), prev.Version, err)
		s.logger.Warn("representative refresh failed, keeping previous snapshot",
			logging.String("source", s.source.Name()),
			logging.Int64("version", int64(prev.Version)),
			logging.Err(err))
		if errors.IsCode(err, errors.CodeRepresentativeSourceFailed) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeRepresentativeSourceFailed, "failed to refresh representatives")
	}
	if reps == nil {
		reps = []representative.Representative{}
	}

	next := &Snapshot{
		Version:         prev.Version + 1,
		Digest:          Digest(reps),
		Source:          s.source.Name(),
		FetchedAt:       time.Now().UTC(),
		Representatives: reps,
	}
	s.current.Store(next)
	prometheus.RecordSnapshotRefresh(s.metrics, s.source.Name(), elapsed, next.Len(), next.Version, nil)
	s.logger.Info("representatives refreshed",
		logging.String("source", next.Source),
		logging.Int("count", next.Len()),
		logging.Int64("version", int64(next.Version)),
		logging.Duration("latency", elapsed))

	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()
	for _, l := range listeners {
		l(ctx, next)
	}
	return next, nil
}

//Personal.AI order the ending

package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
)

// Scheduler runs Store.Refresh on a cron schedule.
type Scheduler struct {
	store   *Store
	cron    *cron.Cron
	logger  logging.Logger
	entryID cron.EntryID
}

// NewScheduler registers a refresh job for spec, which accepts the standard
// five-field form and descriptors such as "@every 5m".  The job is skipped
// while a previous run is still in progress.
func NewScheduler(store *Store, spec string, log logging.Logger) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("snapshot: empty refresh schedule")
	}
	cl := cronLogger{log: log.Named("cron")}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	s := &Scheduler{store: store, cron: c, logger: log}

	id, err := c.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("snapshot: invalid refresh schedule %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) run() {
	// Store.Refresh logs failures itself.
	_, _ = s.store.Refresh(context.Background())
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("representative refresh scheduled",
		logging.String("next", s.cron.Entry(s.entryID).Next.String()))
}

// Stop halts the schedule and waits for a running refresh, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(kvFields(keysAndValues), logging.Err(err))...)
}

func kvFields(kv []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logging.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}

//Personal.AI order the ending

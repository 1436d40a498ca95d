package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/regionmap/pkg/errors"
)

// EventHandler returns a kafka.MessageHandler that refreshes store on every
// representative change event.  Unknown event types are acknowledged and
// ignored; a failed refresh is returned so the consumer retries it.
func EventHandler(store *Store, metrics *prometheus.AppMetrics, log logging.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.Message) error {
		env, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			prometheus.RecordEvent(metrics, "in", "unknown", err)
			// A malformed envelope can never succeed; retrying would only
			// delay the dead letter.
			return err
		}

		switch env.EventType {
		case kafka.EventRepresentativeUpserted, kafka.EventRepresentativeDeleted, kafka.EventRepresentativesReloaded:
		default:
			log.Debug("ignoring event", logging.String("event_type", env.EventType))
			prometheus.RecordEvent(metrics, "in", env.EventType, nil)
			return nil
		}

		var payload kafka.RepresentativeChangedPayload
		if err := env.DecodePayload(&payload); err != nil {
			prometheus.RecordEvent(metrics, "in", env.EventType, err)
			return err
		}
		log.Info("representative change received",
			logging.String("event_id", env.EventID),
			logging.String("event_type", env.EventType),
			logging.Int64("representative_id", payload.ID),
			logging.Strings("region_ids", payload.RegionIDs))

		_, err = store.Refresh(ctx)
		prometheus.RecordEvent(metrics, "in", env.EventType, err)
		return err
	}
}

// EventPublisher is the part of kafka.Producer used to announce changes.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType string, payload interface{}) error
}

// Editor applies writes to a representative repository, refreshes the local
// store and announces the change so other instances refresh too.
type Editor struct {
	repo      representative.Repository
	store     *Store
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewEditor returns an Editor.  publisher may be nil when messaging is
// disabled; the local store is still refreshed.
func NewEditor(repo representative.Repository, store *Store, publisher EventPublisher, metrics *prometheus.AppMetrics, log logging.Logger) *Editor {
	return &Editor{repo: repo, store: store, publisher: publisher, metrics: metrics, logger: log}
}

// Get returns one stored representative.
func (e *Editor) Get(ctx context.Context, id int64) (*representative.Representative, error) {
	if id <= 0 {
		return nil, errors.InvalidParam("representative id must be positive")
	}
	return e.repo.Get(ctx, id)
}

// Validate checks a record before it is written.  Phone and email are
// optional; at least one region association is required.
func Validate(rep *representative.Representative) error {
	if rep == nil {
		return errors.InvalidParam("representative is required")
	}
	if strings.TrimSpace(rep.Name) == "" {
		return errors.InvalidParam("representative name is required")
	}
	if rep.ID < 0 {
		return errors.InvalidParam("representative id must not be negative")
	}
	if len(rep.RegionIDs.Present()) == 0 {
		return errors.InvalidParam("at least one region association is required")
	}
	if rep.Email != "" && !strings.Contains(rep.Email, "@") {
		return errors.InvalidParam("email is malformed").WithDetail(rep.Email)
	}
	return nil
}

// Create validates and stores a new rep.  The id is assigned by the
// repository, so a non-zero rep.ID is rejected.
func (e *Editor) Create(ctx context.Context, rep *representative.Representative) error {
	if err := Validate(rep); err != nil {
		return err
	}
	if rep.ID != 0 {
		return errors.InvalidParam("representative id is assigned on create").
			WithDetail(fmt.Sprintf("id=%d", rep.ID))
	}
	if err := e.repo.Create(ctx, rep); err != nil {
		return err
	}
	e.announce(ctx, kafka.EventRepresentativeUpserted, rep.ID, rep.RegionIDs.Present())
	return nil
}

// Update validates rep and replaces the stored record with the same id.
func (e *Editor) Update(ctx context.Context, rep *representative.Representative) error {
	if err := Validate(rep); err != nil {
		return err
	}
	if rep.ID <= 0 {
		return errors.InvalidParam("representative id must be positive")
	}
	if err := e.repo.Update(ctx, rep); err != nil {
		return err
	}
	e.announce(ctx, kafka.EventRepresentativeUpserted, rep.ID, rep.RegionIDs.Present())
	return nil
}

// Delete removes the representative with id.
func (e *Editor) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.InvalidParam("representative id must be positive")
	}
	if err := e.repo.Delete(ctx, id); err != nil {
		return err
	}
	e.announce(ctx, kafka.EventRepresentativeDeleted, id, nil)
	return nil
}

// announce refreshes the local store and publishes the event.  Failures are
// logged, not returned: the write itself has already succeeded.
func (e *Editor) announce(ctx context.Context, eventType string, id int64, regionIDs []string) {
	if _, err := e.store.Refresh(ctx); err != nil {
		e.logger.Warn("local refresh after write failed", logging.Int64("representative_id", id), logging.Err(err))
	}
	if e.publisher == nil {
		return
	}
	payload := kafka.RepresentativeChangedPayload{ID: id, RegionIDs: regionIDs, ChangedAt: time.Now().UTC()}
	err := e.publisher.PublishEvent(ctx, kafka.TopicRepresentativeChanged, eventType, payload)
	prometheus.RecordEvent(e.metrics, "out", eventType, err)
	if err != nil {
		e.logger.Error("failed to publish representative change",
			logging.String("event_type", eventType),
			logging.Int64("representative_id", id),
			logging.Err(err))
	}
}

//Personal.AI order the ending

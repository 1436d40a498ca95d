package main

import (
	"context"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/bootstrap"
	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/internal/infrastructure/database/redis"
	"github.com/turtacn/regionmap/internal/infrastructure/storage/minio"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Adapters for HealthHandler.

type postgresHealthAdapter struct {
	conn *postgres.Connection
}

func (a *postgresHealthAdapter) Name() string { return "postgres" }

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string { return "redis" }

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

type minioHealthAdapter struct {
	client *minio.MinIOClient
}

func (a *minioHealthAdapter) Name() string { return "minio" }

func (a *minioHealthAdapter) Check(ctx context.Context) error {
	_, err := a.client.HealthCheck(ctx)
	return err
}

// snapshotHealthAdapter is unhealthy until the first refresh succeeded.
type snapshotHealthAdapter struct {
	store *snapshot.Store
}

func (a *snapshotHealthAdapter) Name() string { return "representatives" }

func (a *snapshotHealthAdapter) Check(_ context.Context) error {
	if a.store.Current().Version == 0 {
		return errors.New(errors.CodeRepresentativeSourceFailed, "representatives not loaded yet")
	}
	return nil
}

// atlasHealthAdapter is unhealthy while no geo document has been loaded.
type atlasHealthAdapter struct {
	svc mapview.Service
}

func (a *atlasHealthAdapter) Name() string { return "atlas" }

func (a *atlasHealthAdapter) Check(_ context.Context) error {
	if a.svc.Atlas().Fingerprint == "" {
		return errors.New(errors.CodeGeoSourceUnavailable, "geo document not loaded yet")
	}
	return nil
}

// healthCheckers returns one checker per enabled dependency.
func healthCheckers(app *bootstrap.App) []handlers.HealthChecker {
	checkers := []handlers.HealthChecker{
		&snapshotHealthAdapter{store: app.Store},
		&atlasHealthAdapter{svc: app.Service},
	}
	if app.Postgres != nil {
		checkers = append(checkers, &postgresHealthAdapter{conn: app.Postgres})
	}
	if app.Redis != nil {
		checkers = append(checkers, &redisHealthAdapter{client: app.Redis})
	}
	if app.MinIO != nil {
		checkers = append(checkers, &minioHealthAdapter{client: app.MinIO})
	}
	return checkers
}

// checkAll runs checkers in order and returns the first failure.
func checkAll(checkers []handlers.HealthChecker) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		for _, c := range checkers {
			if err := c.Check(ctx); err != nil {
				return errors.Wrap(err, errors.ErrCodeServiceUnavailable, c.Name()+" unhealthy")
			}
		}
		return nil
	}
}

//Personal.AI order the ending

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/pkg/errors"
)

const representativeColumns = `id, name, position, phone, email, region_ids, activities`

type postgresRepresentativeRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresRepresentativeRepo returns a representative.Repository backed by
// the representatives table.
func NewPostgresRepresentativeRepo(conn *postgres.Connection, log logging.Logger) representative.Repository {
	return &postgresRepresentativeRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
	}
}

func (r *postgresRepresentativeRepo) Name() string { return "postgres" }

// Fetch returns every representative ordered by id.
func (r *postgresRepresentativeRepo) Fetch(ctx context.Context) ([]representative.Representative, error) {
	rows, err := r.executor.QueryContext(ctx, `SELECT `+representativeColumns+` FROM representatives ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list representatives")
	}
	defer rows.Close()

	out := make([]representative.Representative, 0)
	for rows.Next() {
		rep, err := scanRepresentative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate representatives")
	}
	return out, nil
}

func (r *postgresRepresentativeRepo) Get(ctx context.Context, id int64) (*representative.Representative, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+representativeColumns+` FROM representatives WHERE id = $1`, id)
	rep, err := scanRepresentative(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.CodeRepresentativeNotFound, "representative not found").
				WithDetail(fmt.Sprintf("id=%d", id))
		}
		return nil, err
	}
	return rep, nil
}

// Create inserts rep under the next sequence value, written back to rep.ID.
// Ids are always assigned here; a non-zero rep.ID is rejected.
func (r *postgresRepresentativeRepo) Create(ctx context.Context, rep *representative.Representative) error {
	if rep == nil || rep.Name == "" {
		return errors.InvalidParam("representative name is required")
	}
	if rep.ID != 0 {
		return errors.InvalidParam("representative id is assigned on create").
			WithDetail(fmt.Sprintf("id=%d", rep.ID))
	}
	query := `
		INSERT INTO representatives (name, position, phone, email, region_ids, activities)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.executor.QueryRowContext(ctx, query,
		rep.Name, rep.Position, rep.Phone, rep.Email, pq.Array(rep.RegionIDs.Present()), pq.Array(activitiesOf(rep)),
	).Scan(&rep.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "representative already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create representative")
	}

	r.log.Debug("representative created", logging.Int64("id", rep.ID))
	return nil
}

// Update replaces the row with rep.ID.  A missing row is reported as not
// found; it is never inserted.
func (r *postgresRepresentativeRepo) Update(ctx context.Context, rep *representative.Representative) error {
	if rep == nil || rep.Name == "" {
		return errors.InvalidParam("representative name is required")
	}
	if rep.ID <= 0 {
		return errors.InvalidParam("representative id must be positive")
	}
	query := `
		UPDATE representatives SET
			name = $2, position = $3, phone = $4, email = $5,
			region_ids = $6, activities = $7, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		rep.ID, rep.Name, rep.Position, rep.Phone, rep.Email, pq.Array(rep.RegionIDs.Present()), pq.Array(activitiesOf(rep)),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update representative")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update representative")
	}
	if n == 0 {
		return errors.New(errors.CodeRepresentativeNotFound, "representative not found").
			WithDetail(fmt.Sprintf("id=%d", rep.ID))
	}

	r.log.Debug("representative updated", logging.Int64("id", rep.ID))
	return nil
}

func activitiesOf(rep *representative.Representative) []string {
	if rep.Activities == nil {
		return []string{}
	}
	return rep.Activities
}

func (r *postgresRepresentativeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM representatives WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete representative")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New(errors.CodeRepresentativeNotFound, "representative not found").
			WithDetail(fmt.Sprintf("id=%d", id))
	}
	return nil
}

func scanRepresentative(row scanner) (*representative.Representative, error) {
	var (
		rep        representative.Representative
		regionIDs  []string
		activities []string
	)
	err := row.Scan(&rep.ID, &rep.Name, &rep.Position, &rep.Phone, &rep.Email,
		pq.Array(&regionIDs), pq.Array(&activities))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan representative")
	}
	rep.RegionIDs = representative.Associations(regionIDs)
	if len(activities) > 0 {
		rep.Activities = activities
	}
	return &rep, nil
}

//Personal.AI order the ending

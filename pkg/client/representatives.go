package client

import (
	"context"
	"strconv"

	"github.com/turtacn/regionmap/pkg/errors"
)

// RepresentativesClient reads the served collection and, with the admin
// token, edits a database-backed one.
type RepresentativesClient struct {
	client *Client
}

func representativePath(id int64) (string, error) {
	if id <= 0 {
		return "", errors.InvalidParam("representative id must be positive")
	}
	return apiPrefix + "/representatives/" + strconv.FormatInt(id, 10), nil
}

// List returns the snapshot currently served.
func (r *RepresentativesClient) List(ctx context.Context) (*Snapshot, error) {
	var out Snapshot
	if err := r.client.get(ctx, apiPrefix+"/representatives", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh forces the server to fetch the collection again.
func (r *RepresentativesClient) Refresh(ctx context.Context) (*RefreshResult, error) {
	var out RefreshResult
	if err := r.client.post(ctx, apiPrefix+"/representatives/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RepresentativesClient) Get(ctx context.Context, id int64) (*Representative, error) {
	path, err := representativePath(id)
	if err != nil {
		return nil, err
	}
	var out Representative
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores rep.  A zero ID lets the server assign one.
func (r *RepresentativesClient) Create(ctx context.Context, rep *Representative) (*Representative, error) {
	if rep == nil {
		return nil, errors.InvalidParam("representative is required")
	}
	var out Representative
	if err := r.client.post(ctx, apiPrefix+"/representatives", rep, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the representative with rep.ID.
func (r *RepresentativesClient) Update(ctx context.Context, rep *Representative) (*Representative, error) {
	if rep == nil {
		return nil, errors.InvalidParam("representative is required")
	}
	path, err := representativePath(rep.ID)
	if err != nil {
		return nil, err
	}
	var out Representative
	if err := r.client.put(ctx, path, rep, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RepresentativesClient) Delete(ctx context.Context, id int64) error {
	path, err := representativePath(id)
	if err != nil {
		return err
	}
	return r.client.delete(ctx, path)
}

//Personal.AI order the ending

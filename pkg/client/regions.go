package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/turtacn/regionmap/pkg/errors"
)

// RegionsClient reads the catalog and the per-region views.
type RegionsClient struct {
	client *Client
}

func regionPath(id string, suffix string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.InvalidParam("region id is required")
	}
	return apiPrefix + "/regions/" + url.PathEscape(id) + suffix, nil
}

// List returns every region in catalog order with its representative count.
func (r *RegionsClient) List(ctx context.Context) ([]RegionSummary, error) {
	var resp listResponse[RegionSummary]
	if err := r.client.get(ctx, apiPrefix+"/regions", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Get returns one region.  Legacy "RF-" ids are accepted.
func (r *RegionsClient) Get(ctx context.Context, id string) (*Region, error) {
	path, err := regionPath(id, "")
	if err != nil {
		return nil, err
	}
	var out Region
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RegionsClient) Tooltip(ctx context.Context, id string) (*Tooltip, error) {
	path, err := regionPath(id, "/tooltip")
	if err != nil {
		return nil, err
	}
	var out Tooltip
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contacts returns the contact panel of a region.
func (r *RegionsClient) Contacts(ctx context.Context, id string) (*ContactPanel, error) {
	path, err := regionPath(id, "/representatives")
	if err != nil {
		return nil, err
	}
	var out ContactPanel
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Prompt returns the contact panel shown before a region is selected.
func (r *RegionsClient) Prompt(ctx context.Context) (*ContactPanel, error) {
	var out ContactPanel
	if err := r.client.get(ctx, apiPrefix+"/contacts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup resolves a free-form region name, e.g. "г. Москва".
func (r *RegionsClient) Lookup(ctx context.Context, name string) (*Region, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidParam("name is required")
	}
	var out Region
	path := withQuery(apiPrefix+"/regions/lookup", url.Values{"name": {name}})
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RegionsClient) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := r.client.get(ctx, apiPrefix+"/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MapClient reads the drawable map and resolves points and addresses.
type MapClient struct {
	client *Client
}

// Shapes returns every drawable element in catalog order.
func (m *MapClient) Shapes(ctx context.Context) ([]Shape, error) {
	var resp listResponse[Shape]
	if err := m.client.get(ctx, apiPrefix+"/map/shapes", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SVG returns the rendered map.  selected may be empty.
func (m *MapClient) SVG(ctx context.Context, selected string) ([]byte, error) {
	q := url.Values{}
	if selected != "" {
		q.Set("selected", selected)
	}
	return m.client.send(ctx, http.MethodGet, withQuery(apiPrefix+"/map/svg", q), nil, "image/svg+xml")
}

// Locate returns the region containing lon/lat.
func (m *MapClient) Locate(ctx context.Context, lon, lat float64) (*LocateResult, error) {
	q := url.Values{
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
	}
	var out LocateResult
	if err := m.client.get(ctx, withQuery(apiPrefix+"/map/locate", q), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LocateIP resolves addr through the server's GeoIP database.  An empty addr
// locates the caller.
func (m *MapClient) LocateIP(ctx context.Context, addr string) (*LocateResult, error) {
	q := url.Values{}
	if addr != "" {
		q.Set("addr", addr)
	}
	var out LocateResult
	if err := m.client.get(ctx, withQuery(apiPrefix+"/map/locate/ip", q), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MapClient) Atlas(ctx context.Context) (*AtlasInfo, error) {
	var out AtlasInfo
	if err := m.client.get(ctx, apiPrefix+"/map/atlas", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reload makes the server re-read its geographic document.  Needs the admin
// token.
func (m *MapClient) Reload(ctx context.Context) (*AtlasInfo, error) {
	var out AtlasInfo
	if err := m.client.post(ctx, apiPrefix+"/map/reload", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending

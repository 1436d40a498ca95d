package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/pkg/errors"
)

func TestRepresentativesClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/representatives", r.URL.Path)
		_, _ = w.Write([]byte(`{"version":3,"digest":"d","source":"fixture","fetched_at":"2024-05-01T10:00:00Z",
			"representatives":[{"id":2,"name":"Петров Петр Петрович","regionId":["RU-SPE"]}]}`))
	})
	snap, err := c.Representatives().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snap.Version)
	require.Len(t, snap.Representatives, 1)
	assert.Equal(t, []string{"RU-SPE"}, snap.Representatives[0].RegionIDs)
}

func TestRepresentativesClient_Refresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/representatives/refresh", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"version": 4, "count": 2, "source": "fixture"})
	}, WithAdminToken("t"))
	res, err := c.Representatives().Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Version)
	assert.Equal(t, 2, res.Count)
}

func TestRepresentativesClient_CRUD(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/representatives":
			var rep Representative
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rep))
			rep.ID = 10
			writeJSON(w, http.StatusCreated, rep)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/representatives/10":
			writeJSON(w, http.StatusOK, Representative{ID: 10, Name: "Сидоров", RegionIDs: []string{"ПФО"}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/representatives/10":
			var rep Representative
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rep))
			writeJSON(w, http.StatusOK, rep)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/representatives/10":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}, WithAdminToken("t"))
	ctx := context.Background()
	reps := c.Representatives()

	created, err := reps.Create(ctx, &Representative{Name: "Сидоров", RegionIDs: []string{"ПФО"}})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	got, err := reps.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ПФО"}, got.RegionIDs)

	got.Position = "Менеджер"
	updated, err := reps.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Менеджер", updated.Position)

	assert.NoError(t, reps.Delete(ctx, 10))
}

func TestRepresentativesClient_InvalidArguments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	})
	ctx := context.Background()
	reps := c.Representatives()

	_, err := reps.Get(ctx, 0)
	assert.True(t, errors.IsValidation(err))
	_, err = reps.Create(ctx, nil)
	assert.True(t, errors.IsValidation(err))
	_, err = reps.Update(ctx, &Representative{})
	assert.True(t, errors.IsValidation(err))
	assert.True(t, errors.IsValidation(reps.Delete(ctx, -1)))
}

func TestRepresentativesClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"code": string(errors.ErrCodeUnauthorized), "message": "invalid or missing admin token"})
	})
	err := c.Representatives().Delete(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
}

//Personal.AI order the ending

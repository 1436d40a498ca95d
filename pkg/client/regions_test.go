package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/pkg/errors"
)

func TestRegionsClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/regions", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "RU-MOW", "name": "г. Москва", "info": "ЦФО", "count": 1},
				{"id": "RU-SPE", "name": "г. Санкт-Петербург", "info": "СЗФО", "count": 2},
			},
			"total": 2,
		})
	})
	regions, err := c.Regions().List(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "RU-MOW", regions[0].ID)
	assert.Equal(t, "ЦФО", regions[0].Info)
	assert.Equal(t, 2, regions[1].Count)
}

func TestRegionsClient_GetEscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/regions/RF-TVE", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"id": "RU-TVE", "name": "Тверская область", "info": "ЦФО"})
	})
	reg, err := c.Regions().Get(context.Background(), " RF-TVE ")
	require.NoError(t, err)
	assert.Equal(t, "RU-TVE", reg.ID)
}

func TestRegionsClient_EmptyIDRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	})
	ctx := context.Background()

	_, err := c.Regions().Get(ctx, "")
	assert.True(t, errors.IsValidation(err))
	_, err = c.Regions().Tooltip(ctx, "  ")
	assert.True(t, errors.IsValidation(err))
	_, err = c.Regions().Contacts(ctx, "")
	assert.True(t, errors.IsValidation(err))
	_, err = c.Regions().Lookup(ctx, "")
	assert.True(t, errors.IsValidation(err))
}

func TestRegionsClient_Tooltip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/regions/RU-SPE/tooltip", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"region_id": "RU-SPE", "name": "г. Санкт-Петербург", "count": 2,
			"text": "г. Санкт-Петербург\nПредставителей: 2",
		})
	})
	tip, err := c.Regions().Tooltip(context.Background(), "RU-SPE")
	require.NoError(t, err)
	assert.Equal(t, 2, tip.Count)
	assert.Contains(t, tip.Text, "Представителей")
}

func TestRegionsClient_ContactsAndPrompt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/regions/RU-TVE/representatives":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"region": map[string]string{"id": "RU-TVE", "name": "Тверская область", "info": "ЦФО"},
				"cards": []map[string]interface{}{
					{"id": 1, "initials": "ИИ", "name": "Иванов Иван Иванович", "phone_href": "tel:+74951234567"},
				},
			})
		case "/api/v1/contacts":
			writeJSON(w, http.StatusOK, map[string]interface{}{"cards": []interface{}{}, "message": "Выберите регион на карте"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	panel, err := c.Regions().Contacts(ctx, "RU-TVE")
	require.NoError(t, err)
	require.NotNil(t, panel.Region)
	assert.Equal(t, "RU-TVE", panel.Region.ID)
	require.Len(t, panel.Cards, 1)
	assert.Equal(t, "ИИ", panel.Cards[0].Initials)

	prompt, err := c.Regions().Prompt(ctx)
	require.NoError(t, err)
	assert.Nil(t, prompt.Region)
	assert.Empty(t, prompt.Cards)
	assert.NotEmpty(t, prompt.Message)
}

func TestRegionsClient_Lookup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/regions/lookup", r.URL.Path)
		assert.Equal(t, "г. Москва", r.URL.Query().Get("name"))
		writeJSON(w, http.StatusOK, map[string]string{"id": "RU-MOW", "name": "г. Москва", "info": "ЦФО"})
	})
	reg, err := c.Regions().Lookup(context.Background(), "г. Москва")
	require.NoError(t, err)
	assert.Equal(t, "RU-MOW", reg.ID)
}

func TestRegionsClient_LookupNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": string(errors.CodeRegionNotFound), "message": "no region"})
	})
	_, err := c.Regions().Lookup(context.Background(), "Атлантида")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestRegionsClient_Stats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stats", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total_representatives": 2,
			"regions_covered":       19,
			"activities":            []map[string]interface{}{{"name": "Продажи", "count": 2}},
		})
	})
	stats, err := c.Regions().Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRepresentatives)
	assert.Equal(t, 19, stats.RegionsCovered)
	require.Len(t, stats.Activities, 1)
	assert.Equal(t, "Продажи", stats.Activities[0].Name)
}

//Personal.AI order the ending

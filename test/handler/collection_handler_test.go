package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCollectionLifecycle(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	token, _ := registerUser(t, router)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/collections", token, gin.H{
		"name": "Board Games",
		"tags": []string{"tabletop"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &created))
	require.NotEmpty(t, created.ID)

	resp, parsed = doJSON(t, router, http.MethodPost, "/api/v1/collections/"+created.ID+"/items", token, gin.H{
		"name":   "Brass: Birmingham",
		"number": 1,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp, parsed = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var detail struct {
		Collection struct {
			Name string `json:"name"`
		} `json:"collection"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &detail))
	require.Equal(t, "Board Games", detail.Collection.Name)
	require.Len(t, detail.Items, 1)

	// Another user cannot see it.
	otherToken, _ := registerUser(t, router)
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+created.ID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp, _ = doJSON(t, router, http.MethodDelete, "/api/v1/collections/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+created.ID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCheckUpdatesEndpoint(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	adminToken, adminID := registerUser(t, router)
	promoteAdmin(t, db, adminID)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/admin/sources", adminToken, gin.H{
		"name":     "Criterion Essentials",
		"category": "films",
		"tags":     []string{"criterion"},
		"items": []gin.H{
			{"name": "Seven Samurai", "number": 1},
			{"name": "8 1/2", "number": 2},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var src struct {
		Source struct {
			ID string `json:"id"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &src))

	token, _ := registerUser(t, router)
	resp, parsed = doJSON(t, router, http.MethodPost, "/api/v1/sources/"+src.Source.ID+"/clone", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var clone struct {
		Collection struct {
			ID string `json:"id"`
		} `json:"collection"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &clone))

	resp, parsed = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+clone.Collection.ID+"/check-updates", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var check struct {
		HasUpdate             bool `json:"has_update"`
		IsCustomized          bool `json:"is_customized"`
		RecommendedCollection *struct {
			Name      string `json:"name"`
			UpdatedAt int64  `json:"updated_at"`
		} `json:"recommended_collection"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &check))
	require.False(t, check.HasUpdate)
	require.False(t, check.IsCustomized)
	require.NotNil(t, check.RecommendedCollection)
	require.Equal(t, "Criterion Essentials", check.RecommendedCollection.Name)

	// Rename the clone and the customization flag flips.
	resp, _ = doJSON(t, router, http.MethodPut, "/api/v1/collections/"+clone.Collection.ID, token, gin.H{
		"name": "My Criterion Picks",
		"tags": []string{"criterion"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp, parsed = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+clone.Collection.ID+"/check-updates", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(parsed.Data, &check))
	require.True(t, check.IsCustomized)

	// Syncing restores the source state.
	resp, _ = doJSON(t, router, http.MethodPost, "/api/v1/collections/"+clone.Collection.ID+"/sync", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, parsed = doJSON(t, router, http.MethodGet, "/api/v1/collections/"+clone.Collection.ID+"/check-updates", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(parsed.Data, &check))
	require.False(t, check.HasUpdate)
	require.False(t, check.IsCustomized)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	token, _ := registerUser(t, router)
	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/admin/sources", token, gin.H{
		"name": "Nope",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)
}

package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSourceBrowsingIsPublic(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	adminToken, adminID := registerUser(t, router)
	promoteAdmin(t, db, adminID)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/admin/sources", adminToken, gin.H{
		"name":        "Public Shelf",
		"description": "Browse without logging in.",
		"category":    "books",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var src struct {
		Source struct {
			ID string `json:"id"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &src))

	// No token on either read endpoint.
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/sources?category=books", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, parsed = doJSON(t, router, http.MethodGet, "/api/v1/sources/"+src.Source.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var detail struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		DescriptionHTML string `json:"description_html"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &detail))
	require.Equal(t, "Public Shelf", detail.Source.Name)
	require.NotEmpty(t, detail.DescriptionHTML)

	// Removal hides it from the public surface.
	resp, _ = doJSON(t, router, http.MethodDelete, "/api/v1/admin/sources/"+src.Source.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/sources/"+src.Source.ID, "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestVoteEndpoints(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	adminToken, adminID := registerUser(t, router)
	promoteAdmin(t, db, adminID)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/admin/sources", adminToken, gin.H{
		"name": "Vote Target",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var src struct {
		Source struct {
			ID string `json:"id"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &src))

	token, _ := registerUser(t, router)
	resp, parsed = doJSON(t, router, http.MethodPut, "/api/v1/sources/"+src.Source.ID+"/vote", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var count struct {
		VoteCount int `json:"vote_count"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &count))
	require.Equal(t, 1, count.VoteCount)

	resp, parsed = doJSON(t, router, http.MethodDelete, "/api/v1/sources/"+src.Source.ID+"/vote", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(parsed.Data, &count))
	require.Equal(t, 0, count.VoteCount)
}

func TestReportEndpoints(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	adminToken, adminID := registerUser(t, router)
	promoteAdmin(t, db, adminID)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/admin/sources", adminToken, gin.H{
		"name": "Reported Shelf",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var src struct {
		Source struct {
			ID string `json:"id"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &src))

	token, _ := registerUser(t, router)
	resp, parsed = doJSON(t, router, http.MethodPost, "/api/v1/sources/"+src.Source.ID+"/report", token, gin.H{
		"reason": "broken listing",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var report struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &report))

	// Reporters see their own reports; moderation is admin-only.
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", token, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp, _ = doJSON(t, router, http.MethodPut, "/api/v1/admin/reports/"+report.ID+"/resolve", adminToken, gin.H{
		"remove_source": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/sources/"+src.Source.ID, "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/test/testutil"
)

func TestRegisterAndLogin(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	email := testutil.NewID()[:12] + "@example.com"
	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Duplicate registration is rejected.
	resp, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	require.NotEmpty(t, data.Token)

	resp, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	resp, _ := doJSON(t, router, http.MethodGet, "/api/v1/collections", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp, _ = doJSON(t, router, http.MethodGet, "/api/v1/collections", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

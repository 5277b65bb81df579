package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/shelfd/shelfd/internal/handler"
	"github.com/shelfd/shelfd/internal/middleware"
	"github.com/shelfd/shelfd/internal/repo"
	"github.com/shelfd/shelfd/internal/service"
	"github.com/shelfd/shelfd/test/testutil"
)

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) (http.Handler, *sql.DB, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	userRepo := repo.NewUserRepo(db)
	collectionRepo := repo.NewCollectionRepo(db)
	itemRepo := repo.NewCollectionItemRepo(db)
	sourceRepo := repo.NewSourceRepo(db)
	sourceItemRepo := repo.NewSourceItemRepo(db)

	jwtSecret := []byte("test-secret")
	achievementService := service.NewAchievementService(repo.NewAchievementRepo(db))
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour)
	collectionService := service.NewCollectionService(collectionRepo, itemRepo, sourceRepo, sourceItemRepo, achievementService)
	sourceService := service.NewSourceService(sourceRepo, sourceItemRepo, collectionRepo, itemRepo, achievementService)
	voteService := service.NewVoteService(repo.NewVoteRepo(db), sourceRepo, achievementService)
	reportService := service.NewReportService(repo.NewReportRepo(db), sourceRepo)

	deps := handler.RouterDeps{
		Auth:         handler.NewAuthHandler(authService),
		Collections:  handler.NewCollectionHandler(collectionService),
		Sources:      handler.NewSourceHandler(sourceService, collectionService, authService),
		Votes:        handler.NewVoteHandler(voteService),
		Reports:      handler.NewReportHandler(reportService, authService),
		Achievements: handler.NewAchievementHandler(achievementService),
		JWTSecret:    jwtSecret,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, db, cleanup
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var parsed apiResponse
	if len(resp.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	}
	return resp, parsed
}

func registerUser(t *testing.T, router http.Handler) (string, string) {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", testutil.NewID()[:12])
	resp, parsed := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

func promoteAdmin(t *testing.T, db *sql.DB, userID string) {
	t.Helper()
	_, err := db.Exec("UPDATE users SET is_admin = 1 WHERE id = $1", userID)
	require.NoError(t, err)
}

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/matchpoint-app/server/api/rest"
	"github.com/matchpoint-app/server/audit"
	"github.com/matchpoint-app/server/cache"
	"github.com/matchpoint-app/server/config"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/scheduler"
	"github.com/matchpoint-app/server/social"
	"github.com/matchpoint-app/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const adminKey = "integration-admin-key"

// TestServer wraps a real HTTP server with all subsystems wired together.
type TestServer struct {
	DB        *gorm.DB
	Cache     cache.Cache
	Friends   *social.FriendshipService
	Roster    *social.RosterService
	Invites   *social.InviteService
	Directory *social.DirectoryService
	Sched     *scheduler.Scheduler
	Server    *httptest.Server
	URL       string // http://127.0.0.1:<port>
	Sec       config.SecurityConfig
}

// NewTestServer creates a fully wired server for integration testing.
// It mirrors the dependency wiring in main.go.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// ---- Infrastructure ----
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	sec := config.SecurityConfig{
		JWTSecret:      "integration-test-secret",
		JWTTTLH:        72 * time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 2000,
	}
	retry := social.RetryPolicy{Attempts: 3, Backoff: 5 * time.Millisecond}

	// ---- Services ----
	friendSvc := social.NewFriendshipService(db, logger)
	rosterSvc := social.NewRosterService(db, logger)
	inviteSvc := social.NewInviteService(db, logger)
	dirSvc := social.NewDirectoryService(db, c, logger)

	aud := audit.New(db, logger)
	sched := scheduler.New(logger)

	// ---- Gin HTTP Server ----
	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(sec.RateLimitRPS), sec.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes (mirrors main.go) ----
	authH := apirest.NewAuthHandler(db, c, sec)
	friendH := apirest.NewFriendHandler(friendSvc, aud, retry)
	sportH := apirest.NewSportHandler(rosterSvc, dirSvc, retry)
	inviteH := apirest.NewInviteHandler(inviteSvc, aud, retry)
	profileH := apirest.NewProfileHandler(db, friendSvc, rosterSvc, inviteSvc, dirSvc)
	postH := apirest.NewPostHandler(db)
	showH := apirest.NewShowcaseHandler(db)
	adminH := apirest.NewAdminHandler(db, sched, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(sec, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(sec, c), authH.Refresh)

		friendsG := api.Group("/friends")
		friendsG.Use(mw.Auth(sec, c))
		friendsG.GET("", friendH.List)
		friendsG.GET("/requests", friendH.ListRequests)
		friendsG.POST("/request", friendH.SendRequest)
		friendsG.POST("/accept/:id", friendH.Accept)
		friendsG.DELETE("/reject/:id", friendH.Reject)
		friendsG.DELETE("/:id", friendH.Remove)
		friendsG.POST("/block/:id", friendH.Block)

		sportsG := api.Group("/sports")
		sportsG.Use(mw.Auth(sec, c))
		sportsG.GET("", sportH.List)
		sportsG.POST("", sportH.Add)
		sportsG.GET("/popular", sportH.Popular)
		sportsG.DELETE("/:name", sportH.Remove)
		sportsG.GET("/:name/participants", sportH.Participants)

		invitesG := api.Group("/invites")
		invitesG.Use(mw.Auth(sec, c))
		invitesG.GET("", inviteH.List)
		invitesG.POST("", inviteH.Send)
		invitesG.POST("/:id/respond", inviteH.Respond)

		profileG := api.Group("/profile")
		profileG.Use(mw.Auth(sec, c))
		profileG.GET("", profileH.Me)
		profileG.PUT("", profileH.Update)
		profileG.GET("/overview", profileH.Overview)
		api.GET("/users/:username", mw.Auth(sec, c), profileH.User)

		postsG := api.Group("/posts")
		postsG.Use(mw.Auth(sec, c))
		postsG.GET("", postH.List)
		postsG.POST("", postH.Create)
		postsG.DELETE("/:id", postH.Delete)

		showG := api.Group("/showcase")
		showG.Use(mw.Auth(sec, c))
		showG.GET("", showH.List)
		showG.POST("", showH.Create)
		showG.DELETE("/:id", showH.Delete)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(adminKey))
		adminG.GET("/stats", adminH.Stats)
		adminG.POST("/users/:id/ban", adminH.BanUser)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	// ---- Start server ----
	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		sched.Stop()
		aud.Stop(context.Background())
	})

	return &TestServer{
		DB:        db,
		Cache:     c,
		Friends:   friendSvc,
		Roster:    rosterSvc,
		Invites:   inviteSvc,
		Directory: dirSvc,
		Sched:     sched,
		Server:    server,
		URL:       server.URL,
		Sec:       sec,
	}
}

// PostJSON sends a POST request with JSON body and optional Bearer token.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}, token string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", ts.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// Get sends a GET request with optional Bearer token.
func (ts *TestServer) Get(t *testing.T, path string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// Delete sends a DELETE request with optional Bearer token.
func (ts *TestServer) Delete(t *testing.T, path string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("DELETE", ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// Put sends a PUT request with JSON body and optional Bearer token.
func (ts *TestServer) Put(t *testing.T, path string, body interface{}, token string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("PUT", ts.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// ReadJSON reads and decodes a JSON response body into the given target.
func ReadJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target), "body: %s", string(data))
}

// Register creates an account through the API and returns token and user ID.
func (ts *TestServer) Register(t *testing.T, username string) (token string, userID int64) {
	t.Helper()
	resp := ts.PostJSON(t, "/api/auth/register", map[string]string{
		"username": username,
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result map[string]interface{}
	ReadJSON(t, resp, &result)
	token = result["token"].(string)
	userID = int64(result["user_id"].(float64))
	return
}

var testCounter uint64

// UniqueID returns a process-unique identifier with the given prefix.
func UniqueID(prefix string) string {
	n := atomic.AddUint64(&testCounter, 1)
	return fmt.Sprintf("%s%d", prefix, n)
}

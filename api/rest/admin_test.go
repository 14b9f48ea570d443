package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresKey(t *testing.T) {
	r, _ := newTestRouter(t)

	w := getReq(r, "/api/admin/stats")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getReq(r, "/api/admin/stats", "X-Admin-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_Stats(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	register(t, r, "bob")
	sendFriendRequest(t, r, aliceTok, "bob")

	w := getReq(r, "/api/admin/stats", "X-Admin-Key", "test-admin-key")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(2), resp["users"])
	assert.Equal(t, float64(1), resp["friendships"])
	assert.Equal(t, float64(0), resp["accepted_friendships"])
}

func TestAdmin_BanBlocksLogin(t *testing.T) {
	r, _ := newTestRouter(t)
	_, aliceID := register(t, r, "alice")

	w := postJSON(r, fmt.Sprintf("/api/admin/users/%d/ban", aliceID),
		map[string]bool{"ban": true}, "X-Admin-Key", "test-admin-key")
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/auth/login", map[string]string{
		"username": "alice", "password": "pass1234",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// unban restores access
	w = postJSON(r, fmt.Sprintf("/api/admin/users/%d/ban", aliceID),
		map[string]bool{"ban": false}, "X-Admin-Key", "test-admin-key")
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(r, "/api/auth/login", map[string]string{
		"username": "alice", "password": "pass1234",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_BanUnknownUser404(t *testing.T) {
	r, _ := newTestRouter(t)
	w := postJSON(r, "/api/admin/users/999/ban",
		map[string]bool{"ban": true}, "X-Admin-Key", "test-admin-key")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_SchedulerList(t *testing.T) {
	r, _ := newTestRouter(t)
	w := getReq(r, "/api/admin/scheduler", "X-Admin-Key", "test-admin-key")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	_, ok := resp["tasks"]
	assert.True(t, ok)
}

package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendFriendRequest(t *testing.T, r *gin.Engine, fromToken, toUsername string) int64 {
	t.Helper()
	w := postJSON(r, "/api/friends/request", map[string]string{"username": toUsername}, bearer(fromToken)...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decode(t, w)["id"].(float64))
}

func TestFriendRequest_Lifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	id := sendFriendRequest(t, r, aliceTok, "bob")

	// bob sees the incoming request
	w := getReq(r, "/api/friends/requests", bearer(bobTok)...)
	require.Equal(t, http.StatusOK, w.Code)
	requests := decode(t, w)["requests"].([]interface{})
	require.Len(t, requests, 1)

	// bob accepts; both sides now list each other
	w = postJSON(r, fmt.Sprintf("/api/friends/accept/%d", id), nil, bearer(bobTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	for _, tok := range []string{aliceTok, bobTok} {
		w = getReq(r, "/api/friends", bearer(tok)...)
		require.Equal(t, http.StatusOK, w.Code)
		friends := decode(t, w)["friends"].([]interface{})
		assert.Len(t, friends, 1)
	}
}

func TestFriendRequest_UnknownUser404(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")

	w := postJSON(r, "/api/friends/request", map[string]string{"username": "ghost"}, bearer(aliceTok)...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFriendRequest_Self400(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")

	w := postJSON(r, "/api/friends/request", map[string]string{"username": "alice"}, bearer(aliceTok)...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFriendRequest_Duplicate409(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	sendFriendRequest(t, r, aliceTok, "bob")
	w := postJSON(r, "/api/friends/request", map[string]string{"username": "bob"}, bearer(aliceTok)...)
	assert.Equal(t, http.StatusConflict, w.Code)

	// other direction is also a conflict
	w = postJSON(r, "/api/friends/request", map[string]string{"username": "alice"}, bearer(bobTok)...)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFriendAccept_ByRequester403(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	register(t, r, "bob")

	id := sendFriendRequest(t, r, aliceTok, "bob")
	w := postJSON(r, fmt.Sprintf("/api/friends/accept/%d", id), nil, bearer(aliceTok)...)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFriendReject_AllowsRetry(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	id := sendFriendRequest(t, r, aliceTok, "bob")
	w := deleteReq(r, fmt.Sprintf("/api/friends/reject/%d", id), bearer(bobTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	// the pair is free again
	sendFriendRequest(t, r, bobTok, "alice")
}

func TestFriendRemove(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	id := sendFriendRequest(t, r, aliceTok, "bob")
	w := postJSON(r, fmt.Sprintf("/api/friends/accept/%d", id), nil, bearer(bobTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = deleteReq(r, fmt.Sprintf("/api/friends/%d", id), bearer(aliceTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = getReq(r, "/api/friends", bearer(bobTok)...)
	assert.Empty(t, decode(t, w)["friends"])
}

func TestFriendBlock_Terminal409(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	id := sendFriendRequest(t, r, aliceTok, "bob")
	w := postJSON(r, fmt.Sprintf("/api/friends/block/%d", id), nil, bearer(bobTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	// no way out of blocked
	w = postJSON(r, fmt.Sprintf("/api/friends/accept/%d", id), nil, bearer(bobTok)...)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = deleteReq(r, fmt.Sprintf("/api/friends/%d", id), bearer(aliceTok)...)
	assert.Equal(t, http.StatusConflict, w.Code)
}

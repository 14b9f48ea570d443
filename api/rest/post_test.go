package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_CreateListDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	tok, _ := register(t, r, "alice")

	w := postJSON(r, "/api/posts", map[string]string{
		"content": "great match today",
		"image":   "match.jpg",
	}, bearer(tok)...)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["id"].(float64))

	w = getReq(r, "/api/posts", bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"], 1)

	w = deleteReq(r, fmt.Sprintf("/api/posts/%d", id), bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = getReq(r, "/api/posts", bearer(tok)...)
	assert.Empty(t, decode(t, w)["posts"])
}

func TestPosts_DeleteByOtherUser403(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	w := postJSON(r, "/api/posts", map[string]string{"content": "mine"}, bearer(aliceTok)...)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["id"].(float64))

	w = deleteReq(r, fmt.Sprintf("/api/posts/%d", id), bearer(bobTok)...)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShowcase_CreateListFilterDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	tok, _ := register(t, r, "alice")

	w := postJSON(r, "/api/showcase", map[string]string{
		"sport": "tennis", "description": "city league finals", "image": "finals.jpg",
	}, bearer(tok)...)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["id"].(float64))

	w = postJSON(r, "/api/showcase", map[string]string{
		"sport": "golf", "description": "first birdie",
	}, bearer(tok)...)
	require.Equal(t, http.StatusCreated, w.Code)

	w = getReq(r, "/api/showcase?sport=tennis", bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["entries"], 1)

	w = deleteReq(r, fmt.Sprintf("/api/showcase/%d", id), bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = getReq(r, "/api/showcase", bearer(tok)...)
	assert.Len(t, decode(t, w)["entries"], 1)
}

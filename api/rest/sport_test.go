package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSports_AddListRemove(t *testing.T) {
	r, _ := newTestRouter(t)
	tok, _ := register(t, r, "alice")

	w := postJSON(r, "/api/sports", map[string]string{"sport": "tennis"}, bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	// adding again is a no-op
	w = postJSON(r, "/api/sports", map[string]string{"sport": "tennis"}, bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(r, "/api/sports", map[string]string{"sport": "golf"}, bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = getReq(r, "/api/sports", bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	sports := decode(t, w)["sports"].([]interface{})
	assert.Equal(t, []interface{}{"golf", "tennis"}, sports)

	w = deleteReq(r, "/api/sports/golf", bearer(tok)...)
	require.Equal(t, http.StatusOK, w.Code)
	w = getReq(r, "/api/sports", bearer(tok)...)
	assert.Equal(t, []interface{}{"tennis"}, decode(t, w)["sports"])
}

func TestSports_Participants(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	for _, tok := range []string{aliceTok, bobTok} {
		w := postJSON(r, "/api/sports", map[string]string{"sport": "tennis"}, bearer(tok)...)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := getReq(r, "/api/sports/tennis/participants", bearer(aliceTok)...)
	require.Equal(t, http.StatusOK, w.Code)
	participants := decode(t, w)["participants"].([]interface{})
	require.Len(t, participants, 1)
	assert.Equal(t, "bob", participants[0])
}

func TestSports_Popular(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceTok, _ := register(t, r, "alice")
	bobTok, _ := register(t, r, "bob")

	for _, tok := range []string{aliceTok, bobTok} {
		w := postJSON(r, "/api/sports", map[string]string{"sport": "tennis"}, bearer(tok)...)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := postJSON(r, "/api/sports", map[string]string{"sport": "golf"}, bearer(aliceTok)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = getReq(r, "/api/sports/popular?limit=5", bearer(aliceTok)...)
	require.Equal(t, http.StatusOK, w.Code)
	sports := decode(t, w)["sports"].([]interface{})
	assert.Equal(t, []interface{}{"tennis", "golf"}, sports)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceRouter() *gin.Engine {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c))
	})
	return r
}

func doTrace(t *testing.T, r *gin.Engine, incoming string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	if incoming != "" {
		req.Header.Set(TraceIDHeader, incoming)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w
}

func TestTraceID_MintedWhenAbsent(t *testing.T) {
	w := doTrace(t, traceRouter(), "")

	id := w.Body.String()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(TraceIDHeader))
}

func TestTraceID_CallerValueHonored(t *testing.T) {
	w := doTrace(t, traceRouter(), "upstream-trace-7")

	assert.Equal(t, "upstream-trace-7", w.Body.String())
	assert.Equal(t, "upstream-trace-7", w.Header().Get(TraceIDHeader))
}

func TestTraceID_FreshPerRequest(t *testing.T) {
	r := traceRouter()
	first := doTrace(t, r, "").Body.String()
	second := doTrace(t, r, "").Body.String()
	assert.NotEqual(t, first, second)
}

func TestGetTraceID_OutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": SessionID(c)})
	})
	return router
}

func get(router *gin.Engine, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	router := newRouter(RequireSession())

	w := get(router, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), SessionHeader)

	w = get(router, "s1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "s1")
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	router := newRouter(RateLimit(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 2}))

	require.Equal(t, http.StatusOK, get(router, "s1").Code)
	require.Equal(t, http.StatusOK, get(router, "s1").Code)

	w := get(router, "s1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitKeyedBySession(t *testing.T) {
	router := newRouter(RateLimit(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1}))

	require.Equal(t, http.StatusOK, get(router, "s1").Code)
	require.Equal(t, http.StatusTooManyRequests, get(router, "s1").Code)

	// A different session has its own bucket
	assert.Equal(t, http.StatusOK, get(router, "s2").Code)
}

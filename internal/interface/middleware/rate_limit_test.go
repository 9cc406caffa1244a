package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	t.Parallel()
	l := newMemoryLimiter()

	for i := 0; i < 3; i++ {
		allowed, _ := l.allow("k", 3, time.Minute)
		require.True(t, allowed, "request %d should be allowed", i+1)
	}
	allowed, remaining := l.allow("k", 3, time.Minute)
	require.False(t, allowed)
	require.Zero(t, remaining)

	// A different key has its own budget.
	allowed, _ = l.allow("other", 3, time.Minute)
	require.True(t, allowed)
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	t.Parallel()
	l := newMemoryLimiter()

	allowed, _ := l.allow("k", 1, 50*time.Millisecond)
	require.True(t, allowed)
	allowed, _ = l.allow("k", 1, 50*time.Millisecond)
	require.False(t, allowed)

	time.Sleep(60 * time.Millisecond)
	allowed, _ = l.allow("k", 1, 50*time.Millisecond)
	require.True(t, allowed)
}

func TestRateLimitMiddlewareRejection(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/login", RateLimit(nil, 2, time.Minute, KeyByIPAndPath()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, do().Code)
	require.Equal(t, http.StatusOK, do().Code)

	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp struct {
		ErrorCode string `json:"error_code"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "RATE_LIMITED", resp.ErrorCode)
}

func TestRateLimitSkipsOptions(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	limited := RateLimit(nil, 1, time.Minute, KeyByIP())
	r.OPTIONS("/x", limited, handler)
	r.GET("/x", limited, handler)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.RemoteAddr = "10.9.9.9:1000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberbook/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	generated := w.Header().Get(HeaderRequestID)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger.Discard()))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.barberbook.bo"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.barberbook.bo")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.barberbook.bo", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	now = now.Add(time.Hour)
	rl.Cleanup()
	rl.mu.Lock()
	assert.Empty(t, rl.limiters)
	rl.mu.Unlock()
}

func TestCallbackToken(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }

	open := gin.New()
	open.GET("/cb", CallbackToken("", logger.Discard()), handler)
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest("GET", "/cb", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	guarded := gin.New()
	guarded.GET("/cb", CallbackToken("s3cret", logger.Discard()), handler)

	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest("GET", "/cb?token=nope", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest("GET", "/cb?token=s3cret", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/airavata-tech/portfolio-api/internal/logging"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		logging.FromContext(c.Request.Context(), nil).Info("handled")
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

func serve(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestID_Generates(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(RequestID(zap.New(core)))

	rr := serve(r, nil)

	rid := rr.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, rr.Body.String())

	// Both the handler log and the access log carry the id.
	entries := logs.All()
	if assert.Len(t, entries, 2) {
		for _, e := range entries {
			assert.Equal(t, rid, e.ContextMap()["request_id"])
		}
		assert.Equal(t, "request", entries[1].Message)
		assert.EqualValues(t, http.StatusOK, entries[1].ContextMap()["status"])
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	r := newEngine(RequestID(nil))
	rr := serve(r, map[string]string{HeaderRequestID: "abc-123"})

	assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", rr.Body.String())
}

func TestAPIKey(t *testing.T) {
	r := newEngine(APIKey("secret"))

	assert.Equal(t, http.StatusUnauthorized, serve(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, map[string]string{HeaderAPIKey: "nope"}).Code)
	assert.Equal(t, http.StatusOK, serve(r, map[string]string{HeaderAPIKey: "secret"}).Code)
}

func TestAPIKey_Disabled(t *testing.T) {
	r := newEngine(APIKey(""))
	assert.Equal(t, http.StatusOK, serve(r, nil).Code)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, serve(r, nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, nil).Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(0, 0))
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, serve(r, nil).Code)
	}
}

func TestIPLimiters_EvictsIdle(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	l := newIPLimiters(0.001, 1, time.Minute, now)

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.Equal(t, 2, l.size())

	clock = clock.Add(30 * time.Second)
	assert.False(t, l.allow("10.0.0.2"))

	// 10.0.0.1 has been idle past the ttl; 10.0.0.2 was seen 30s ago.
	clock = clock.Add(45 * time.Second)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Equal(t, 2, l.size())

	clock = clock.Add(2 * time.Minute)
	assert.True(t, l.allow("10.0.0.1"), "evicted bucket starts full")
	assert.Equal(t, 1, l.size())
}

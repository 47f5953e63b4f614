package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"popupzone/internal/shared/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, cfg config.RateLimitConfig) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimiter(client, cfg), mr
}

func TestIsAllowedStopsAtLimit(t *testing.T) {
	limiter, _ := newLimiter(t, config.RateLimitConfig{
		Enabled:           true,
		WindowDuration:    time.Minute,
		PlacementRequests: 3,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypePlacement)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypePlacement)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	// other clients keep their own budget
	res, err = limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypePlacement)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestIsAllowedDisabledAndWhitelisted(t *testing.T) {
	limiter, _ := newLimiter(t, config.RateLimitConfig{
		Enabled:         false,
		DefaultRequests: 1,
	})
	for i := 0; i < 5; i++ {
		res, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	limiter, _ = newLimiter(t, config.RateLimitConfig{
		Enabled:         true,
		DefaultRequests: 1,
		WhitelistedIPs:  []string{"127.0.0.1"},
	})
	for i := 0; i < 5; i++ {
		res, err := limiter.IsAllowed(context.Background(), "127.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newLimiter(t, config.RateLimitConfig{
		Enabled:           true,
		WindowDuration:    time.Minute,
		PlacementRequests: 1,
	})

	r := gin.New()
	r.Use(Middleware(limiter, nil))
	r.POST("/api/v1/occupancies", func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/occupancies", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		r.ServeHTTP(w, req)
		return w
	}

	first := do()
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Rate limit exceeded")
}

func TestMiddlewareFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, mr := newLimiter(t, config.RateLimitConfig{Enabled: true, DefaultRequests: 1})
	mr.Close()

	r := gin.New()
	r.Use(Middleware(limiter, nil))
	r.GET("/api/v1/sellers/me/occupancies", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sellers/me/occupancies", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRateLimitType(t *testing.T) {
	assert.Equal(t, RateLimitTypeHealth, getRateLimitType(http.MethodGet, "/health"))
	assert.Equal(t, RateLimitTypeAdmin, getRateLimitType(http.MethodPost, "/api/v1/admin/approvals/:id/approve"))
	assert.Equal(t, RateLimitTypePlacement, getRateLimitType(http.MethodPost, "/api/v1/occupancies"))
	assert.Equal(t, RateLimitTypeDefault, getRateLimitType(http.MethodGet, "/api/v1/occupancies/:id"))
	assert.Equal(t, RateLimitTypePublic, getRateLimitType(http.MethodGet, "/api/v1/cells/:id/availability"))
}

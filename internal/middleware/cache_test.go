package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/config"
)

func TestResponseCache_PassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := ResponseCache(config.CacheConfig{Enabled: true}, nil)
	h := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"items": []string{}})
	})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseCache_PassThroughWhenDisabled(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestCacheKeyFrom_VariesByQuery(t *testing.T) {
	e := echo.New()

	ctxFor := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/events")
		return c
	}

	k1 := cacheKeyFrom("cache", ctxFor("/v1/events?availability=available"))
	k2 := cacheKeyFrom("cache", ctxFor("/v1/events?availability=soldout"))
	k3 := cacheKeyFrom("cache", ctxFor("/v1/events?availability=available"))

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}

func TestRateLimit_PassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RateLimit(config.RateLimitConfig{Enabled: true, Limit: 1}, nil)
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

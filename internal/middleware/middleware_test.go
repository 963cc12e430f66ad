package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const secret = "test-secret"

func protected(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTAuth(secret), RequireRole(roles...))
	g.GET("/who", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": c.Get(CtxUserID), "role": c.Get(CtxRole)})
	})
	return e
}

func call(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	staff, err := utils.NewAccessToken(secret, 7, "STAFF", 5)
	require.NoError(t, err)
	admin, err := utils.NewAccessToken(secret, 8, "ADMIN", 5)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other", 8, "ADMIN", 5)
	require.NoError(t, err)

	e := protected("ADMIN")
	assert.Equal(t, http.StatusUnauthorized, call(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, forged.Token).Code)
	assert.Equal(t, http.StatusForbidden, call(e, staff.Token).Code)

	rec := call(e, admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":8,"role":"ADMIN"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, call(protected("STAFF", "ADMIN"), staff.Token).Code)
}

func TestDisabledRedisMiddlewarePassThrough(t *testing.T) {
	e := echo.New()
	rc := NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Second}, nil)
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil), rc.Middleware())
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Invalidate(context.Background(), time.Now()))
}

func TestCacheKeyIsScopedByDate(t *testing.T) {
	e := echo.New()
	rc := NewResponseCache(config.CacheConfig{Prefix: "avail"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/availability?date=2030-06-01&party_size=2", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/availability")
	assert.Regexp(t, `^avail:2030-06-01:[0-9a-f]{40}$`, rc.key(c))

	other := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/availability?date=2030-06-01&party_size=4", nil), httptest.NewRecorder())
	other.SetPath("/v1/availability")
	assert.NotEqual(t, rc.key(c), rc.key(other))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"slots":[]}`))
	require.NoError(t, err)
	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"slots":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/reservations")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:203.0.113.9:route:POST /v1/reservations", rateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:203.0.113.9", rateKey(cfg, c))

	cfg.KeyStrategy = "staff"
	assert.Equal(t, "rl:ip:203.0.113.9", rateKey(cfg, c))
	c.Set(CtxUserID, uint64(12))
	assert.Equal(t, "rl:staff:12", rateKey(cfg, c))
}

func TestWritesCostMore(t *testing.T) {
	cfg := config.RateLimitConfig{WriteCost: 5}
	assert.Equal(t, 1, requestCost(cfg, http.MethodGet))
	assert.Equal(t, 5, requestCost(cfg, http.MethodPost))
	assert.Equal(t, 5, requestCost(cfg, http.MethodDelete))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/logging"
	"github.com/iliyamo/aloft-stays/internal/utils"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func serve(mw echo.MiddlewareFunc, req *http.Request, setup func(c echo.Context)) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	_ = mw(ok)(c)
	return rec, c
}

func TestJWTAuthAcceptsAccessToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 7, "GUEST", 5)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)

	rec, c := serve(JWTAuth("secret"), req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), c.Get("user_id"))
	assert.Equal(t, "GUEST", c.Get("role"))
}

func TestJWTAuthRejects(t *testing.T) {
	wrongKey, _ := utils.NewAccessToken("other", 7, "GUEST", 5)
	refreshTyp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 7, "role": "GUEST", "typ": "refresh", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	for name, header := range map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"bad key":     "Bearer " + wrongKey.Token,
		"wrong type":  "Bearer " + refreshTyp,
		"not a token": "Bearer xyz",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec, _ := serve(JWTAuth("secret"), req, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("GUEST", "HOST")

	rec, _ := serve(mw, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) { c.Set("role", "HOST") })
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(mw, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) { c.Set("role", "ADMIN") })
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(mw, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserKey(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", userKey(c))

	c.Set("user_id", float64(12))
	assert.Equal(t, "12", userKey(c))

	c.Set("user_id", "abc")
	assert.Equal(t, "abc", userKey(c))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout/quote", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/checkout/quote")
	c.Set("user_id", float64(3))

	cfg := config.RateLimitConfig{Prefix: "rl"}
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))
	cfg.KeyStrategy = "user_route"
	assert.Equal(t, "rl:user:3:route:POST /v1/checkout/quote", buildRateKey(cfg, c))
	cfg.KeyStrategy = "whatever"
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /v1/checkout/quote", buildRateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1500))
	assert.Equal(t, 0, retryAfterSeconds(-5))
}

func TestMiddlewaresDisabledWithoutRedis(t *testing.T) {
	log := logging.Discard()
	cache := NewRedisCache(config.CacheConfig{Enabled: true}, nil, log)
	limiter := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log)

	rec, _ := serve(cache, httptest.NewRequest(http.MethodGet, "/v1/properties", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	rec, _ = serve(limiter, httptest.NewRequest(http.MethodGet, "/v1/properties", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	a := cacheKey("listings", httptest.NewRequest(http.MethodGet, "/v1/properties?q=accra", nil))
	b := cacheKey("listings", httptest.NewRequest(http.MethodGet, "/v1/properties?q=aburi", nil))
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "listings:")
}

func TestCaptureWriterTruncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}

package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/dmtool-server/server"
	"github.com/stretchr/testify/require"
)

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.HandlerFunc) http.HandlerFunc {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}

	handler := server.ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}, mw("first"), mw("second"))

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecoverMiddleware(t *testing.T) {
	f := setupTestFixture(t, nil)

	handler := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, f.server.APIMiddleware()...)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"internal error"}`, rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	require.Nil(t, server.NewRateLimiter(0))

	limiter := server.NewRateLimiter(20) // burst of two
	require.True(t, limiter.Allow("a"))
	require.True(t, limiter.Allow("a"))
	require.False(t, limiter.Allow("a"))
	require.True(t, limiter.Allow("b"))
}

func TestRateLimiter_ClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	require.Equal(t, "10.0.0.1", server.NewRateLimiter(10).ClientKey(req))
	require.Equal(t, "203.0.113.7", server.NewRateLimiter(10, server.WithTrustForwardedFor(true)).ClientKey(req))

	req.Header.Del("X-Forwarded-For")
	require.Equal(t, "10.0.0.1", server.NewRateLimiter(10, server.WithTrustForwardedFor(true)).ClientKey(req))
}

package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/dmtool-server/server"
	"github.com/jrsteele09/dmtool-server/token"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// countingVerifier accepts only the "good" token.
type countingVerifier struct {
	calls int
}

func (v *countingVerifier) Verify(raw string) (users.Identity, error) {
	v.calls++
	if raw == "good" {
		return users.Identity{Subject: "user-alice", DisplayName: "alice"}, nil
	}
	if raw == "anonymous" {
		return users.Identity{}, nil
	}
	return users.Identity{}, token.ErrInvalid
}

func TestRequireToken(t *testing.T) {
	tests := []struct {
		name        string
		headers     map[string]string
		wantNext    int
		wantVerify  int
		wantMessage string
	}{
		{name: "token header", headers: map[string]string{"token": "good"}, wantNext: 1, wantVerify: 1},
		{name: "bearer fallback", headers: map[string]string{"Authorization": "bearer good"}, wantNext: 1, wantVerify: 1},
		{name: "token header wins", headers: map[string]string{"token": "bad", "Authorization": "Bearer good"},
			wantVerify: 1, wantMessage: "Failed to authenticate token."},
		{name: "missing", wantMessage: "No token provided."},
		{name: "blank header", headers: map[string]string{"token": "   "}, wantMessage: "No token provided."},
		{name: "invalid", headers: map[string]string{"token": "bad"}, wantVerify: 1, wantMessage: "Failed to authenticate token."},
		{name: "no subject", headers: map[string]string{"token": "anonymous"}, wantVerify: 1, wantMessage: "Failed to authenticate token."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &countingVerifier{}
			nextCalls := 0
			var seen users.Identity
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalls++
				identity, ok := server.IdentityFromContext(r.Context())
				require.True(t, ok)
				seen = identity
				w.WriteHeader(http.StatusTeapot)
			}

			handler := server.RequireToken(verifier, "token", zerolog.Nop())(next)
			req := httptest.NewRequest(http.MethodGet, "/authenticate/check", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			require.Equal(t, tt.wantNext, nextCalls)
			require.Equal(t, tt.wantVerify, verifier.calls)
			if tt.wantNext == 1 {
				require.Equal(t, http.StatusTeapot, rec.Code)
				require.Equal(t, "alice", seen.DisplayName)
				return
			}
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"success":false,"message":"`+tt.wantMessage+`"}`, rec.Body.String())
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := server.IdentityFromContext(req.Context())
	require.False(t, ok)
}

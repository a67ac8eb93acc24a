package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/dmtool-server/token"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the users.Identity asserted by the request token
const ContextKeyIdentity ContextKey = "identity"

// IdentityFromContext returns the identity stored by RequireToken.
func IdentityFromContext(ctx context.Context) (users.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(users.Identity)
	return identity, ok && !identity.IsZero()
}

func withIdentity(ctx context.Context, identity users.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// RequireToken is the gate for routes that need an authenticated user.
func (s *Server) RequireToken() func(http.HandlerFunc) http.HandlerFunc {
	return RequireToken(s.services.Tokens, s.config.GetTokenHeader(), s.logger)
}

// RequireToken returns middleware that reads the session token from header,
// or from an "Authorization: Bearer" header when that is absent, and verifies
// it. On success the identity is stored in the request context and next runs
// exactly once. Any failure is answered here and next never runs.
func RequireToken(verifier TokenVerifier, header string, logger zerolog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r, header)
			if raw == "" {
				logger.Debug().Str("path", r.URL.Path).Err(token.ErrMissing).Msg("request rejected")
				writeFailure(w, MsgNoToken)
				return
			}

			identity, err := verifier.Verify(raw)
			if err != nil {
				logger.Info().Str("path", r.URL.Path).Err(err).Msg("request rejected")
				writeFailure(w, MsgBadToken)
				return
			}
			if identity.IsZero() {
				logger.Info().Str("path", r.URL.Path).Err(errors.Wrap(token.ErrInvalid, "token has no subject")).Msg("request rejected")
				writeFailure(w, MsgBadToken)
				return
			}

			next(w, r.WithContext(withIdentity(r.Context(), identity)))
		}
	}
}

func tokenFromRequest(r *http.Request, header string) string {
	if raw := strings.TrimSpace(r.Header.Get(header)); raw != "" {
		return raw
	}
	scheme, raw, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/harborlane/sheetrate/pkg/jwtx"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

// SessionChecker reports whether a session row is still live (not revoked,
// not expired). The token alone is not trusted: logout and account deletion
// must take effect before the JWT's own expiry.
type SessionChecker interface {
	SessionLive(ctx context.Context, sessionID string) (bool, error)
}

// AuthnMiddleware verifies the bearer session token and confirms the backing
// session row is still live before admitting the request.
func AuthnMiddleware(v *jwtx.Verifier, sessions SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			live, err := sessions.SessionLive(ctx, claims.SID)
			if err != nil {
				log.Error("session liveness check failed", "sid", claims.SID, "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "session lookup failed")
				return
			}
			if !live {
				writeBearerError(w, "session revoked or expired")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeySessionID, c.SID)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

package httpx

import (
	"context"
	"net/http"

	"github.com/harborlane/sheetrate/pkg/slogx"
)

// AdminChecker reports whether the account currently holds the admin flag.
// Implementations must read the directory fresh, never a cached claim: a
// demotion has to take effect on the next request, not the next login.
type AdminChecker interface {
	IsAdmin(ctx context.Context, accountID string) (bool, error)
}

// RequireAdmin rejects requests whose authenticated account is not an admin.
func RequireAdmin(directory AdminChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			accountID := AccountIDFromCtx(ctx)
			if accountID == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			isAdmin, err := directory.IsAdmin(ctx, accountID)
			if err != nil {
				log.Error("admin check failed", "account_id", accountID, "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "admin check failed")
				return
			}
			if !isAdmin {
				WriteError(w, http.StatusForbidden, "not_authorized", "admin privileges required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

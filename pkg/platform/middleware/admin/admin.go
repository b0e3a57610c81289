package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

const (
	// TokenHeader carries the admin token for scripted calls.
	TokenHeader = "X-Admin-Token"
	// TokenCookie carries the admin token for the browser settings page.
	TokenCookie = "favorites_admin"
)

// RequireAdminToken admits requests whose token matches tokenHash (bcrypt).
// An empty hash locks the admin surface entirely.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(TokenHeader)
			if token == "" {
				if c, err := r.Cookie(TokenCookie); err == nil {
					token = c.Value
				}
			}

			if tokenHash == "" || token == "" ||
				bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

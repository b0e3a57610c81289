package caller

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"favorites/pkg/requestcontext"
)

// Cookie names read and written by this package.
const (
	SessionCookie = "favorites_session"
	VisitorCookie = "favorites_visitor"
	ConsentCookie = "simplefavorites_consent"
)

const visitorCookieMaxAge = 365 * 24 * time.Hour

// TokenValidator validates session tokens.
type TokenValidator interface {
	Validate(tokenString string) (*SessionClaims, error)
}

// Authenticate attaches the user id of a valid session token to the request
// context. Requests without a usable token continue anonymously; the
// gatekeeper decides whether that is acceptable.
func Authenticate(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := validator.Validate(token)
			if err != nil {
				logger.DebugContext(ctx, "ignoring session token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx = requestcontext.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Visitor gives every caller a stable anonymous id, reusing the visitor cookie
// when it holds a valid uuid and issuing a new one otherwise.
func Visitor(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := ""
			if c, err := r.Cookie(VisitorCookie); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					visitorID = id.String()
				}
			}
			if visitorID == "" {
				visitorID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookie,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := requestcontext.WithVisitorID(r.Context(), visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

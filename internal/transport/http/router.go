// Package httptransport assembles the HTTP surface: shared middleware, the
// public favorites routes, the admin settings routes and operational
// endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	admissionhandler "favorites/internal/admission/handler"
	"favorites/internal/caller"
	consenthandler "favorites/internal/consent/handler"
	favoriteshandler "favorites/internal/favorites/handler"
	"favorites/internal/nonce"
	"favorites/internal/platform/metrics"
	"favorites/internal/platform/middleware"
	"favorites/internal/ratelimit"
	settingshandler "favorites/internal/settings/handler"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/platform/middleware/admin"
)

// HealthCheck reports the health of one backing service.
type HealthCheck func(ctx context.Context) error

// Deps are the handlers and collaborators the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Sessions       caller.TokenValidator
	SecureCookies  bool
	AdminTokenHash string

	// TrustProxyHeaders lets X-Forwarded-For set the client IP.
	TrustProxyHeaders bool

	Admission *admissionhandler.Middleware
	Favorites *favoriteshandler.Handler
	Consent   *consenthandler.Handler
	Nonce     *nonce.Handler
	Settings  *settingshandler.Handler
	RateLimit *ratelimit.Middleware

	HealthChecks map[string]HealthCheck
}

// NewRouter wires all endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata(d.TrustProxyHeaders))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", healthHandler(d.HealthChecks))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(caller.Authenticate(d.Sessions, d.Logger))
		r.Use(caller.Visitor(d.SecureCookies))
		if d.RateLimit != nil {
			r.Use(d.RateLimit.Limit())
		}

		d.Nonce.Register(r)
		d.Consent.Register(r)
		d.Favorites.Register(r, d.Admission)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(d.AdminTokenHash, d.Logger))
		d.Settings.Register(r)
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		failures := map[string]string{}
		for _, name := range names {
			if err := checks[name](r.Context()); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "unavailable",
				"failures": failures,
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

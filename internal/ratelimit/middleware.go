package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"favorites/internal/platform/metrics"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

// StatusHeader is set to "degraded" while the fallback store is in use.
const StatusHeader = "X-RateLimit-Status"

// Store admits or refuses one request for key.
type Store interface {
	Allow(ctx context.Context, key string, limit Limit) (Result, error)
}

// Middleware enforces a per-client-IP limit.
type Middleware struct {
	limit    Limit
	primary  Store
	fallback Store
	breaker  *circuitBreaker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithStore sets the shared primary store. Without one the in-memory
// fallback serves every check.
func WithStore(store Store) Option {
	return func(m *Middleware) {
		m.primary = store
	}
}

// WithMetrics records refusals and degraded checks.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// New creates a rate limit Middleware for limit.
func New(limit Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limit:    limit,
		fallback: NewInMemoryStore(),
		breaker:  newCircuitBreaker(),
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if !limit.Enabled() {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit returns the rate limiting middleware.
func (m *Middleware) Limit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.limit.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := ipKey(requestcontext.ClientIP(ctx))

			result, degraded, err := m.check(ctx, key)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if degraded {
				w.Header().Set(StatusHeader, "degraded")
			}
			if !result.Allowed {
				m.metrics.IncrementRateLimited()
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check asks the primary store and falls back to memory while the primary
// fails or the circuit has not closed again.
func (m *Middleware) check(ctx context.Context, key string) (Result, bool, error) {
	if m.primary == nil {
		res, err := m.fallback.Allow(ctx, key, m.limit)
		return res, false, err
	}

	res, err := m.primary.Allow(ctx, key, m.limit)
	if err == nil {
		if m.breaker.recordSuccess() {
			return res, false, nil
		}
	} else {
		m.logger.WarnContext(ctx, "rate limit store failed, using fallback",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		m.breaker.recordFailure()
	}

	m.metrics.IncrementRateLimitDegraded()
	res, err = m.fallback.Allow(ctx, key, m.limit)
	return res, true, err
}

func addHeaders(w http.ResponseWriter, result Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

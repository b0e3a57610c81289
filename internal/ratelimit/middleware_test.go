package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"favorites/internal/platform/metrics"
	"favorites/pkg/requestcontext"
	"favorites/pkg/testutil"
)

// flakyStore fails while failing is set and otherwise allows everything.
type flakyStore struct {
	failing bool
	calls   int
}

func (f *flakyStore) Allow(_ context.Context, _ string, limit Limit) (Result, error) {
	f.calls++
	if f.failing {
		return Result{}, errors.New("redis down")
	}
	return Result{Allowed: true, Limit: limit.Requests, Remaining: limit.Requests - 1, ResetAt: time.Now().Add(limit.Window)}, nil
}

type MiddlewareSuite struct {
	suite.Suite
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.metrics = metrics.New(prometheus.NewRegistry())
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/favorites/favorite", nil)
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "test"))
}

func (s *MiddlewareSuite) TestRefusesOverLimit() {
	h := New(Limit{Requests: 2, Window: time.Minute}, s.logger, WithMetrics(s.metrics)).Limit()(okHandler)

	for range 2 {
		rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))
		s.Equal(http.StatusNoContent, rr.Code)
	}
	rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusTooManyRequests, "rate_limit_exceeded")
	s.NotEmpty(rr.Header().Get("Retry-After"))
	s.Equal("2", rr.Header().Get("X-RateLimit-Limit"))
	s.Equal("0", rr.Header().Get("X-RateLimit-Remaining"))
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.RateLimited))

	other := testutil.DoRequest(h, requestFrom("10.0.0.2"))
	s.Equal(http.StatusNoContent, other.Code)
}

func (s *MiddlewareSuite) TestDisabledPassesThrough() {
	h := New(Limit{}, s.logger).Limit()(okHandler)

	for range 100 {
		rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))
		s.Require().Equal(http.StatusNoContent, rr.Code)
		s.Empty(rr.Header().Get("X-RateLimit-Limit"))
	}
}

func (s *MiddlewareSuite) TestFallsBackWhilePrimaryFails() {
	primary := &flakyStore{failing: true}
	h := New(Limit{Requests: 3, Window: time.Minute}, s.logger,
		WithStore(primary), WithMetrics(s.metrics)).Limit()(okHandler)

	rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))
	s.Equal(http.StatusNoContent, rr.Code)
	s.Equal("degraded", rr.Header().Get(StatusHeader))
	s.Equal("2", rr.Header().Get("X-RateLimit-Remaining"))
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.RateLimitDegrade))
}

func (s *MiddlewareSuite) TestCircuitClosesAfterSuccesses() {
	primary := &flakyStore{failing: true}
	h := New(Limit{Requests: 1000, Window: time.Minute}, s.logger, WithStore(primary)).Limit()(okHandler)

	for range 5 {
		testutil.DoRequest(h, requestFrom("10.0.0.1"))
	}
	primary.failing = false

	// open circuit: primary answers but the fallback keeps serving until
	// enough consecutive successes
	for range 2 {
		rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))
		s.Equal("degraded", rr.Header().Get(StatusHeader))
	}
	rr := testutil.DoRequest(h, requestFrom("10.0.0.1"))
	s.Empty(rr.Header().Get(StatusHeader))
	s.Equal(8, primary.calls)
}

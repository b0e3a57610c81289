package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"favorites/internal/caller"
	"favorites/internal/consent"
	"favorites/internal/platform/metrics"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/testutil"
)

type failingService struct{}

func (failingService) Record(context.Context, string, bool) (consent.Record, error) {
	return consent.Record{}, errors.New("redis down")
}

type ConsentHandlerSuite struct {
	suite.Suite
	svc     *consent.Service
	metrics *metrics.Metrics
	router  chi.Router
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func (s *ConsentHandlerSuite) SetupTest() {
	s.svc = consent.NewService(consent.NewInMemoryStore(), time.Hour)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.router = s.newRouter(s.svc)
}

func (s *ConsentHandlerSuite) newRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	New(svc, s.metrics, slog.New(slog.NewTextHandler(io.Discard, nil)), true).Register(r)
	return r
}

func (s *ConsentHandlerSuite) post(value string) *http.Request {
	req := testutil.NewFormRequest(s.T(), "/favorites/cookie-consent", url.Values{"consent": {value}})
	return testutil.WithVisitorID(req, "v1")
}

func (s *ConsentHandlerSuite) TestAccept() {
	rr := testutil.DoRequest(s.router, s.post("true"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "success")
	testutil.AssertJSONContains(s.T(), rr, "consent", true)

	cookies := rr.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(caller.ConsentCookie, cookies[0].Name)
	s.Equal("true", cookies[0].Value)
	s.True(cookies[0].Secure)

	ok, err := s.svc.HasConsented(context.Background(), "visitor:v1")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.ConsentAnswers.WithLabelValues("true")))
}

func (s *ConsentHandlerSuite) TestDeny() {
	rr := testutil.DoRequest(s.router, s.post("false"))

	testutil.AssertJSONContains(s.T(), rr, "consent", false)
	s.Equal("false", rr.Result().Cookies()[0].Value)

	ok, err := s.svc.HasConsented(context.Background(), "visitor:v1")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ConsentHandlerSuite) TestInvalidAnswer() {
	rr := testutil.DoRequest(s.router, s.post("maybe"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	s.Empty(rr.Result().Cookies())
}

func (s *ConsentHandlerSuite) TestStoreFailureStillSetsCookie() {
	router := s.newRouter(failingService{})

	rr := testutil.DoRequest(router, s.post("true"))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("true", rr.Result().Cookies()[0].Value)
}

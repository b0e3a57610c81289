package handler

import (
	"context"
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

	"favorites/internal/admission"
	admissionhandler "favorites/internal/admission/handler"
	"favorites/internal/caller"
	"favorites/internal/consent"
	"favorites/internal/favorites"
	"favorites/internal/nonce"
	"favorites/internal/platform/metrics"
	"favorites/internal/settings"
	"favorites/pkg/requestcontext"
	"favorites/pkg/testutil"
)

const visitor = "v1"

type FavoritesHandlerSuite struct {
	suite.Suite
	settings *settings.Repository
	nonces   *nonce.Issuer
	consents *consent.Service
	service  *favorites.Service
	metrics  *metrics.Metrics
	router   chi.Router
}

func TestFavoritesHandlerSuite(t *testing.T) {
	suite.Run(t, new(FavoritesHandlerSuite))
}

func (s *FavoritesHandlerSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := settings.NewRepository(ctx, settings.NewInMemoryStore(settings.Defaults()))
	s.Require().NoError(err)
	s.settings = repo
	s.nonces = nonce.NewIssuer("nonce-key", time.Hour)
	s.consents = consent.NewService(consent.NewInMemoryStore(), time.Hour)
	s.service = favorites.NewService(favorites.NewInMemoryStore())
	s.metrics = metrics.New(prometheus.NewRegistry())

	gate := admission.New(admission.WithNonceVerifier(s.nonces))
	mw := admissionhandler.New(gate, repo, caller.NewResolver(s.consents, logger), s.metrics, logger)

	s.router = chi.NewRouter()
	New(s.service, s.metrics, logger).Register(s.router, mw)
}

func (s *FavoritesHandlerSuite) nonce() string {
	ctx := requestcontext.WithVisitorID(context.Background(), visitor)
	token, err := s.nonces.Create(ctx, admission.NonceAction)
	s.Require().NoError(err)
	return token
}

func (s *FavoritesHandlerSuite) post(path string, form url.Values) map[string]any {
	req := testutil.WithVisitorID(testutil.NewFormRequest(s.T(), path, form), visitor)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)
	return *testutil.UnmarshalResponse[map[string]any](s.T(), rr)
}

func (s *FavoritesHandlerSuite) updateSettings(fn func(*settings.Document)) {
	doc := s.settings.Document()
	fn(&doc)
	s.Require().NoError(s.settings.Update(context.Background(), doc))
}

func (s *FavoritesHandlerSuite) TestFavorite() {
	body := s.post("/favorites/favorite", url.Values{
		"nonce":  {s.nonce()},
		"postid": {"12"},
		"siteid": {"1"},
		"status": {"active"},
	})

	s.Equal("success", body["status"])
	s.Equal(map[string]any{"id": 12.0, "siteid": 1.0, "status": "active", "count": 1.0}, body["favorite_data"])
	s.Equal([]any{map[string]any{"site_id": 1.0, "posts": []any{12.0}}}, body["favorites"])
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.FavoriteToggles.WithLabelValues("active")))
}

func (s *FavoritesHandlerSuite) TestFavoriteDefaultsSite() {
	body := s.post("/favorites/favorite", url.Values{
		"nonce":  {s.nonce()},
		"postid": {"5"},
		"status": {"active"},
	})

	s.Equal("success", body["status"])
	s.Equal(1.0, body["favorite_data"].(map[string]any)["siteid"])
}

func (s *FavoritesHandlerSuite) TestFavoriteWithoutNonce() {
	body := s.post("/favorites/favorite", url.Values{"postid": {"12"}, "status": {"active"}})

	s.Equal(map[string]any{"status": "error", "message": "Nonce"}, body)
}

func (s *FavoritesHandlerSuite) TestFavoriteBadSite() {
	body := s.post("/favorites/favorite", url.Values{
		"nonce":  {s.nonce()},
		"postid": {"12"},
		"siteid": {"2"},
		"status": {"active"},
	})

	s.Equal(map[string]any{"status": "error", "message": "Bad siteid"}, body)
}

func (s *FavoritesHandlerSuite) TestFavoriteInvalidPost() {
	body := s.post("/favorites/favorite", url.Values{
		"nonce":  {s.nonce()},
		"postid": {"abc"},
		"status": {"active"},
	})

	s.Equal(map[string]any{"status": "error", "message": "Invalid post id"}, body)
}

func (s *FavoritesHandlerSuite) TestRequireLogin() {
	s.updateSettings(func(d *settings.Document) { d.RequireLogin = true })

	body := s.post("/favorites/array", url.Values{})

	s.Equal(map[string]any{"status": "unauthenticated"}, body)
}

func (s *FavoritesHandlerSuite) TestConsentRequired() {
	s.updateSettings(func(d *settings.Document) { d.Consent.Require = true })
	form := url.Values{"postid": {"12"}}

	body := s.post("/favorites/count", form)
	s.Equal("consent_required", body["status"])
	s.Equal("I Consent", body["accept_text"])
	s.Equal(map[string]any{"postid": "12"}, body["post_data"])

	_, err := s.consents.Record(context.Background(), "visitor:"+visitor, true)
	s.Require().NoError(err)

	body = s.post("/favorites/count", form)
	s.Equal("success", body["status"])
}

func (s *FavoritesHandlerSuite) TestCountArrayAndClear() {
	for _, post := range []string{"3", "9"} {
		body := s.post("/favorites/favorite", url.Values{
			"nonce": {s.nonce()}, "postid": {post}, "status": {"active"},
		})
		s.Require().Equal("success", body["status"])
	}

	body := s.post("/favorites/count", url.Values{"postid": {"9"}, "siteid": {"1"}})
	s.Equal(map[string]any{"status": "success", "count": 1.0}, body)

	body = s.post("/favorites/array", url.Values{})
	s.Equal([]any{map[string]any{"site_id": 1.0, "posts": []any{3.0, 9.0}}}, body["favorites"])

	body = s.post("/favorites/clear", url.Values{"nonce": {s.nonce()}, "siteid": {"1"}})
	s.Equal("success", body["status"])
	s.Equal([]any{}, body["favorites"])

	body = s.post("/favorites/count", url.Values{"postid": {"9"}})
	s.Equal(0.0, body["count"])
}

func (s *FavoritesHandlerSuite) TestClearRequiresNonce() {
	body := s.post("/favorites/clear", url.Values{"siteid": {"1"}})

	s.Equal("Nonce", body["message"])
}

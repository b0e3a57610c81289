package caller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"favorites/internal/admission"
	"favorites/pkg/requestcontext"
	"favorites/pkg/testutil"
)

type CallerSuite struct {
	suite.Suite
	logger   *slog.Logger
	sessions *SessionService
}

func TestCallerSuite(t *testing.T) {
	suite.Run(t, new(CallerSuite))
}

func (s *CallerSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.sessions = NewSessionService("test-signing-key", "")
}

// captureContext returns a handler that stores the request context it saw.
func captureContext(dst *context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*dst = r.Context()
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *CallerSuite) TestAuthenticate() {
	token, err := s.sessions.Issue("7", time.Hour)
	s.Require().NoError(err)

	s.Run("bearer header sets user id", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodPost, "/favorites/favorite", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(Authenticate(s.sessions, s.logger)(captureContext(&seen)), req)

		s.Equal(http.StatusNoContent, rr.Code)
		s.Equal("7", requestcontext.UserID(seen))
	})

	s.Run("session cookie sets user id", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodPost, "/favorites/favorite", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

		testutil.DoRequest(Authenticate(s.sessions, s.logger)(captureContext(&seen)), req)

		s.Equal("7", requestcontext.UserID(seen))
	})

	s.Run("invalid token continues anonymously", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodPost, "/favorites/favorite", nil)
		req.Header.Set("Authorization", "Bearer nope")

		rr := testutil.DoRequest(Authenticate(s.sessions, s.logger)(captureContext(&seen)), req)

		s.Equal(http.StatusNoContent, rr.Code)
		s.Empty(requestcontext.UserID(seen))
	})

	s.Run("no token continues anonymously", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodPost, "/favorites/favorite", nil)

		testutil.DoRequest(Authenticate(s.sessions, s.logger)(captureContext(&seen)), req)

		s.Empty(requestcontext.UserID(seen))
	})
}

func (s *CallerSuite) TestVisitor() {
	s.Run("issues a cookie to new visitors", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodGet, "/favorites/nonce", nil)

		rr := testutil.DoRequest(Visitor(true)(captureContext(&seen)), req)

		cookies := rr.Result().Cookies()
		s.Require().Len(cookies, 1)
		s.Equal(VisitorCookie, cookies[0].Name)
		s.True(cookies[0].Secure)
		s.True(cookies[0].HttpOnly)
		s.Equal(cookies[0].Value, requestcontext.VisitorID(seen))
		_, err := uuid.Parse(cookies[0].Value)
		s.NoError(err)
	})

	s.Run("reuses an existing visitor cookie", func() {
		var seen context.Context
		existing := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/favorites/nonce", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: existing})

		rr := testutil.DoRequest(Visitor(false)(captureContext(&seen)), req)

		s.Empty(rr.Result().Cookies())
		s.Equal(existing, requestcontext.VisitorID(seen))
	})

	s.Run("replaces a malformed visitor cookie", func() {
		var seen context.Context
		req := httptest.NewRequest(http.MethodGet, "/favorites/nonce", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "not-a-uuid"})

		rr := testutil.DoRequest(Visitor(false)(captureContext(&seen)), req)

		s.Require().Len(rr.Result().Cookies(), 1)
		s.NotEqual("not-a-uuid", requestcontext.VisitorID(seen))
	})
}

type stubConsents struct {
	answers map[string]bool
	err     error
	calls   int
}

func (s *stubConsents) HasConsented(_ context.Context, owner string) (bool, error) {
	s.calls++
	return s.answers[owner], s.err
}

func TestResolver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	required := admission.Settings{ConsentRequired: true}

	t.Run("logged in follows the session user", func(t *testing.T) {
		res := NewResolver(nil, logger)
		req := testutil.WithUserID(httptest.NewRequest(http.MethodPost, "/", nil), "7")

		status := res.Resolve(req, admission.Settings{})
		assert.True(t, status.IsLoggedIn())
		assert.True(t, status.HasConsentedToCookies())
	})

	t.Run("anonymous is not logged in", func(t *testing.T) {
		res := NewResolver(nil, logger)
		req := testutil.WithVisitorID(httptest.NewRequest(http.MethodPost, "/", nil), "v1")

		assert.False(t, res.Resolve(req, admission.Settings{}).IsLoggedIn())
	})

	t.Run("consent cookie counts as consent", func(t *testing.T) {
		consents := &stubConsents{}
		res := NewResolver(consents, logger)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: ConsentCookie, Value: "true"})

		assert.True(t, res.Resolve(req, required).HasConsentedToCookies())
		assert.Zero(t, consents.calls)
	})

	t.Run("declined cookie falls back to the store", func(t *testing.T) {
		consents := &stubConsents{answers: map[string]bool{"visitor:v1": true}}
		res := NewResolver(consents, logger)
		req := testutil.WithVisitorID(httptest.NewRequest(http.MethodPost, "/", nil), "v1")
		req.AddCookie(&http.Cookie{Name: ConsentCookie, Value: "false"})

		assert.True(t, res.Resolve(req, required).HasConsentedToCookies())
		assert.Equal(t, 1, consents.calls)
	})

	t.Run("store errors read as no consent", func(t *testing.T) {
		consents := &stubConsents{answers: map[string]bool{"user:7": true}, err: errors.New("redis down")}
		res := NewResolver(consents, logger)
		req := testutil.WithUserID(httptest.NewRequest(http.MethodPost, "/", nil), "7")

		assert.False(t, res.Resolve(req, required).HasConsentedToCookies())
	})

	t.Run("no owner and no cookie means no consent", func(t *testing.T) {
		res := NewResolver(&stubConsents{}, logger)
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		status := res.Resolve(req, required)
		require.False(t, status.HasConsentedToCookies())
	})
}

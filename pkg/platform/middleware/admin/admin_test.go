package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRequireAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	serve := func(hash string, mutate func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		RequireAdminToken(hash, logger)(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("header token accepted", func(t *testing.T) {
		code := serve(string(hash), func(r *http.Request) { r.Header.Set(TokenHeader, "s3cret") })
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("cookie token accepted", func(t *testing.T) {
		code := serve(string(hash), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "s3cret"})
		})
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		code := serve(string(hash), func(r *http.Request) { r.Header.Set(TokenHeader, "guess") })
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(string(hash), func(*http.Request) {}))
	})

	t.Run("empty hash locks the surface", func(t *testing.T) {
		code := serve("", func(r *http.Request) { r.Header.Set(TokenHeader, "s3cret") })
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

// Package handler serves the cookie consent endpoint the consent modal posts
// to.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"favorites/internal/admission"
	"favorites/internal/caller"
	"favorites/internal/consent"
	"favorites/internal/platform/metrics"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

const consentCookieMaxAge = 365 * 24 * time.Hour

// Service records consent answers.
type Service interface {
	Record(ctx context.Context, owner string, accepted bool) (consent.Record, error)
}

// Handler answers POST /favorites/cookie-consent.
type Handler struct {
	service       Service
	metrics       *metrics.Metrics
	logger        *slog.Logger
	secureCookies bool
}

// New creates a consent Handler. m may be nil.
func New(service Service, m *metrics.Metrics, logger *slog.Logger, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		metrics:       m,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// Register mounts the consent route. It must stay outside the admission
// middleware, since answering the modal is how consent is given.
func (h *Handler) Register(r chi.Router) {
	r.Post("/favorites/cookie-consent", h.handleConsent)
}

func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form"))
		return
	}
	accepted, err := strconv.ParseBool(r.PostForm.Get("consent"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid consent answer",
			"request_id", requestID,
			"consent", r.PostForm.Get("consent"),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "consent must be true or false"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     caller.ConsentCookie,
		Value:    strconv.FormatBool(accepted),
		Path:     "/",
		MaxAge:   int(consentCookieMaxAge.Seconds()),
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if owner := requestcontext.Owner(ctx); owner != "" {
		if _, err := h.service.Record(ctx, owner, accepted); err != nil {
			// The cookie already carries the answer for this browser.
			h.logger.ErrorContext(ctx, "failed to record consent",
				"request_id", requestID,
				"error", err,
			)
		}
	}
	h.metrics.IncrementConsent(accepted)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  admission.StatusSuccess,
		"consent": accepted,
	})
}

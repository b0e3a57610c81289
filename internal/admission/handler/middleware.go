// Package handler adapts the admission gatekeeper to chi: it builds the
// request view from the posted form, runs the checks and either hands the
// request on or answers with the rejection payload.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"favorites/internal/admission"
	"favorites/internal/platform/metrics"
	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/httputil"
	"favorites/pkg/requestcontext"
)

const maxFormMemory = 1 << 20

// CallerResolver snapshots the caller status of a request.
type CallerResolver interface {
	Resolve(r *http.Request, settings admission.Settings) admission.CallerStatus
}

// Middleware runs the gatekeeper in front of favorites listeners.
type Middleware struct {
	gate     *admission.Gatekeeper
	settings admission.SettingsProvider
	callers  CallerResolver
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates the admission Middleware. m may be nil.
func New(
	gate *admission.Gatekeeper,
	settings admission.SettingsProvider,
	callers CallerResolver,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Middleware {
	return &Middleware{
		gate:     gate,
		settings: settings,
		callers:  callers,
		metrics:  m,
		logger:   logger,
	}
}

// Admit returns middleware that gates a listener with the base checks plus
// the optional ones in opts. Rejections are answered with HTTP 200 and the
// payload body; the client script branches on its status field.
func (m *Middleware) Admit(opts ...admission.CheckOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)
			start := time.Now()

			fields, err := formFields(r)
			if err != nil {
				m.logger.WarnContext(ctx, "unreadable favorites form",
					"request_id", requestID,
					"error", err,
				)
				m.metrics.IncrementAdmission(admission.OutcomeReject.String(), string(admission.ReasonError))
				httputil.WriteJSON(w, http.StatusOK, admission.ErrorPayload(""))
				return
			}

			req := admission.NewRequest(fields)
			settings := admission.ReadSettings(m.settings)
			caller := m.callers.Resolve(r, settings)

			decision := m.gate.Admit(ctx, req, settings, caller, opts...)
			m.metrics.ObserveAdmitLatency(time.Since(start))
			m.metrics.IncrementAdmission(decision.Outcome.String(), string(decision.Reason))

			if !decision.Allowed() {
				m.logger.InfoContext(ctx, "favorites request rejected",
					"request_id", requestID,
					"reason", string(decision.Reason),
					"code", string(dErrors.CodeOf(decision.Err())),
					"path", r.URL.Path,
				)
				httputil.WriteJSON(w, http.StatusOK, decision.Payload)
				return
			}

			next.ServeHTTP(w, r.WithContext(admission.WithRequest(ctx, req)))
		})
	}
}

// formFields reads the posted form, keeping the first value of each field.
func formFields(r *http.Request) (map[string]string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

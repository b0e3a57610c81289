// Package caller works out who is making a favorites request: the session
// user or an anonymous visitor, and whether they consented to cookies.
package caller

import (
	"context"
	"log/slog"
	"net/http"

	"favorites/internal/admission"
	"favorites/pkg/requestcontext"
)

// ConsentChecker reports stored consent answers by owner.
type ConsentChecker interface {
	HasConsented(ctx context.Context, owner string) (bool, error)
}

// Resolver builds the admission view of the caller.
type Resolver struct {
	consents ConsentChecker
	logger   *slog.Logger
}

// NewResolver creates a Resolver. consents may be nil, in which case only
// the consent cookie counts.
func NewResolver(consents ConsentChecker, logger *slog.Logger) *Resolver {
	return &Resolver{consents: consents, logger: logger}
}

// Resolve snapshots the caller status of r. It expects Authenticate and
// Visitor to have run.
func (res *Resolver) Resolve(r *http.Request, settings admission.Settings) admission.CallerStatus {
	ctx := r.Context()
	return admission.CallerStatus{
		LoggedIn:           requestcontext.UserID(ctx) != "",
		ConsentedToCookies: res.consented(r, settings),
	}
}

func (res *Resolver) consented(r *http.Request, settings admission.Settings) bool {
	if !settings.ConsentRequired {
		return true
	}
	if c, err := r.Cookie(ConsentCookie); err == nil && c.Value == "true" {
		return true
	}
	if res.consents == nil {
		return false
	}

	ctx := r.Context()
	owner := requestcontext.Owner(ctx)
	if owner == "" {
		return false
	}
	ok, err := res.consents.HasConsented(ctx, owner)
	if err != nil {
		res.logger.WarnContext(ctx, "consent lookup failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return false
	}
	return ok
}

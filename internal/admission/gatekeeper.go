// Package admission decides whether a favorites request may reach its
// listener. Checks run in a fixed order and the first rejection wins:
//
//  1. nonce (opt-in per route)
//  2. site id (opt-in per route)
//  3. login
//  4. cookie consent
//
// The gatekeeper only produces a Decision. Writing the response and ending
// the request belong to the transport adapter.
package admission

import (
	"context"
)

// NonceAction is the action name favorites nonces are issued for.
const NonceAction = "simple_favorites_nonce"

// singleSiteID is the only acceptable site id outside of multisite.
const singleSiteID = "1"

// Gatekeeper runs the admission checks. It holds no per-request state and is
// safe for concurrent use.
type Gatekeeper struct {
	sites     SiteLookup
	nonces    NonceVerifier
	multisite bool
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper)

// WithMultisite marks the deployment as serving several sites.
func WithMultisite(multisite bool) Option {
	return func(g *Gatekeeper) {
		g.multisite = multisite
	}
}

// WithSiteLookup sets the collaborator used by the site check.
func WithSiteLookup(sites SiteLookup) Option {
	return func(g *Gatekeeper) {
		g.sites = sites
	}
}

// WithNonceVerifier sets the collaborator used by the nonce check.
func WithNonceVerifier(nonces NonceVerifier) Option {
	return func(g *Gatekeeper) {
		g.nonces = nonces
	}
}

// New creates a Gatekeeper.
func New(opts ...Option) *Gatekeeper {
	g := &Gatekeeper{}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Multisite reports the configured deployment mode.
func (g *Gatekeeper) Multisite() bool {
	return g.multisite
}

// CheckOption enables an optional check for a single Admit call.
type CheckOption func(*checks)

type checks struct {
	nonce       bool
	nonceAction string
	site        bool
}

// WithNonce requires a valid nonce issued for action. An empty action means
// NonceAction.
func WithNonce(action string) CheckOption {
	return func(c *checks) {
		if action == "" {
			action = NonceAction
		}
		c.nonce = true
		c.nonceAction = action
	}
}

// WithSiteCheck validates the submitted siteid, when present.
func WithSiteCheck() CheckOption {
	return func(c *checks) {
		c.site = true
	}
}

// Admit runs the enabled checks in order and returns the first rejection, or
// Proceed when every check passes.
func (g *Gatekeeper) Admit(ctx context.Context, req Request, settings Settings, caller CallerStatus, opts ...CheckOption) Decision {
	var c checks
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	if c.nonce {
		if d := g.CheckNonce(ctx, req, c.nonceAction); !d.Allowed() {
			return d
		}
	}
	if c.site {
		if d := g.CheckSite(ctx, req); !d.Allowed() {
			return d
		}
	}
	if d := CheckLogin(settings, caller); !d.Allowed() {
		return d
	}
	return CheckConsent(req, settings, caller)
}

// CheckNonce rejects requests whose nonce is missing or does not verify for
// action.
func (g *Gatekeeper) CheckNonce(ctx context.Context, req Request, action string) Decision {
	token, ok := req.Nonce()
	if !ok || token == "" || g.nonces == nil || !g.nonces.Verify(ctx, token, action) {
		return Reject(ReasonNonce, ErrorPayload(string(ReasonNonce)))
	}
	return Proceed()
}

// CheckSite validates a submitted siteid. Requests without one pass. Outside
// multisite only "1" is accepted; on multisite a siteid that matches an
// existing site is rejected.
func (g *Gatekeeper) CheckSite(ctx context.Context, req Request) Decision {
	siteID, ok := req.SiteID()
	if !ok {
		return Proceed()
	}

	badSingleSiteID := !g.multisite && siteID != singleSiteID
	if badSingleSiteID {
		return Reject(ReasonBadSiteID, ErrorPayload(string(ReasonBadSiteID)))
	}

	if g.multisite && g.sites != nil {
		matching, err := g.sites.CountSitesMatching(ctx, siteID)
		if err != nil {
			return Reject(ReasonError, ErrorPayload(""))
		}
		if matching > 0 {
			return Reject(ReasonBadSiteID, ErrorPayload(string(ReasonBadSiteID)))
		}
	}
	return Proceed()
}

// CheckLogin rejects anonymous callers when the settings demand a login.
// With no relevant flag set, anonymous callers fall through and are allowed.
func CheckLogin(settings Settings, caller CallerStatus) Decision {
	if caller.IsLoggedIn() {
		return Proceed()
	}
	if settings.AnonymousDisplayAllowed {
		return Proceed()
	}
	if settings.RequireLogin || settings.RedirectAnonymous {
		return Reject(ReasonUnauthenticated, Payload{"status": StatusUnauthenticated})
	}
	return Proceed()
}

// CheckConsent rejects callers that have not consented to cookies. The
// rejection echoes the submitted form so the client can replay it after the
// caller accepts.
func CheckConsent(req Request, settings Settings, caller CallerStatus) Decision {
	if caller.HasConsentedToCookies() {
		return Proceed()
	}
	return Reject(ReasonConsentRequired, Payload{
		"status":      StatusConsentRequired,
		"message":     settings.ConsentModalText,
		"accept_text": settings.ConsentAcceptText,
		"deny_text":   settings.ConsentDenyText,
		"post_data":   req.Fields(),
	})
}

package testutil

import (
	"net/http"

	"favorites/pkg/requestcontext"
)

// WithUserID marks the request as coming from a logged-in user, the way the
// session middleware would.
func WithUserID(req *http.Request, userID string) *http.Request {
	if userID == "" {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithVisitorID attaches an anonymous visitor id to the request context.
func WithVisitorID(req *http.Request, visitorID string) *http.Request {
	if visitorID == "" {
		return req
	}
	return req.WithContext(requestcontext.WithVisitorID(req.Context(), visitorID))
}

// WithRequestID attaches a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

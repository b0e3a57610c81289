package admission

import (
	"maps"

	dErrors "favorites/pkg/domain-errors"
)

// Field names read by the gatekeeper from the submitted form.
const (
	FieldNonce  = "nonce"
	FieldSiteID = "siteid"
)

// DefaultErrorMessage is sent when a generic failure carries no message.
const DefaultErrorMessage = "There was an error processing the request."

// Request is the submitted form of a single favorites call. It is built once
// at the transport boundary and never mutated afterwards.
type Request struct {
	fields map[string]string
}

// NewRequest copies fields so later changes by the caller are not observed.
func NewRequest(fields map[string]string) Request {
	return Request{fields: maps.Clone(fields)}
}

// Field returns a submitted value and whether it was present.
func (r Request) Field(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Value returns a submitted value, empty when absent.
func (r Request) Value(name string) string {
	return r.fields[name]
}

// Nonce returns the submitted nonce token.
func (r Request) Nonce() (string, bool) {
	return r.Field(FieldNonce)
}

// SiteID returns the submitted site identifier.
func (r Request) SiteID() (string, bool) {
	return r.Field(FieldSiteID)
}

// Fields returns a copy of the full field mapping.
func (r Request) Fields() map[string]string {
	if r.fields == nil {
		return map[string]string{}
	}
	return maps.Clone(r.fields)
}

// Outcome is the admission verdict.
type Outcome int

const (
	OutcomeProceed Outcome = iota
	OutcomeReject
)

func (o Outcome) String() string {
	if o == OutcomeReject {
		return "reject"
	}
	return "proceed"
}

// Reason labels why a request was rejected. The values double as the
// metrics label and the log attribute.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNonce           Reason = "Nonce"
	ReasonBadSiteID       Reason = "Bad siteid"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonConsentRequired Reason = "consent_required"
	ReasonError           Reason = "error"
)

// Response status values understood by the favorites client script.
const (
	StatusError           = "error"
	StatusUnauthenticated = "unauthenticated"
	StatusConsentRequired = "consent_required"
	StatusSuccess         = "success"
)

// Payload is the JSON body sent to the client for a rejected request.
type Payload map[string]any

// Decision is the single result of admitting a request.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	Payload Payload
}

// Proceed allows the request through to its listener.
func Proceed() Decision {
	return Decision{Outcome: OutcomeProceed}
}

// Reject short-circuits the request with payload as the response body.
func Reject(reason Reason, payload Payload) Decision {
	return Decision{Outcome: OutcomeReject, Reason: reason, Payload: payload}
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeProceed
}

// Err maps a rejection onto a coded domain error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	switch d.Reason {
	case ReasonNonce:
		return dErrors.New(dErrors.CodeForbidden, "nonce verification failed")
	case ReasonBadSiteID:
		return dErrors.New(dErrors.CodeBadRequest, "bad siteid")
	case ReasonUnauthenticated:
		return dErrors.New(dErrors.CodeUnauthorized, "login required")
	case ReasonConsentRequired:
		return dErrors.New(dErrors.CodeMissingConsent, "cookie consent required")
	default:
		msg, _ := d.Payload["message"].(string)
		return dErrors.New(dErrors.CodeInternal, msg)
	}
}

// ErrorPayload builds the generic error body. An empty message falls back to
// DefaultErrorMessage.
func ErrorPayload(message string) Payload {
	if message == "" {
		message = DefaultErrorMessage
	}
	return Payload{
		"status":  StatusError,
		"message": message,
	}
}

// Settings is the read-only view of plugin configuration used for admission.
type Settings struct {
	AnonymousDisplayAllowed bool
	RequireLogin            bool
	RedirectAnonymous       bool
	ConsentRequired         bool
	ConsentModalText        string
	ConsentAcceptText       string
	ConsentDenyText         string
}

// SettingsSnapshotter is implemented by providers that can hand out every
// admission setting from a single read.
type SettingsSnapshotter interface {
	Snapshot() Settings
}

// CallerStatus is the read-only view of the current caller.
type CallerStatus struct {
	LoggedIn           bool
	ConsentedToCookies bool
}

// IsLoggedIn reports whether the caller is authenticated.
func (c CallerStatus) IsLoggedIn() bool { return c.LoggedIn }

// HasConsentedToCookies reports whether the caller granted cookie consent.
func (c CallerStatus) HasConsentedToCookies() bool { return c.ConsentedToCookies }

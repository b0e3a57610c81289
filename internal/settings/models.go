package settings

import (
	"fmt"
	"net/url"

	"favorites/internal/admission"
	dErrors "favorites/pkg/domain-errors"
)

// Document is the persisted plugin configuration.
type Document struct {
	Anonymous         AnonymousSettings `yaml:"anonymous" json:"anonymous"`
	RequireLogin      bool              `yaml:"require_login" json:"require_login"`
	RedirectAnonymous bool              `yaml:"redirect_anonymous" json:"redirect_anonymous"`
	// RedirectURL is where the client script sends anonymous callers when
	// RedirectAnonymous is set.
	RedirectURL string          `yaml:"redirect_url,omitempty" json:"redirect_url,omitempty"`
	Consent     ConsentSettings `yaml:"consent" json:"consent"`
}

// AnonymousSettings controls what logged-out visitors may do.
type AnonymousSettings struct {
	Display bool `yaml:"display" json:"display"`
	Save    bool `yaml:"save" json:"save"`
}

// ConsentSettings controls the cookie consent modal.
type ConsentSettings struct {
	Require           bool   `yaml:"require" json:"require"`
	Modal             string `yaml:"modal" json:"modal"`
	ConsentButtonText string `yaml:"consent_button_text" json:"consent_button_text"`
	DenyButtonText    string `yaml:"deny_button_text" json:"deny_button_text"`
}

// Defaults returns the configuration of a fresh install.
func Defaults() Document {
	return Document{
		Consent: ConsentSettings{
			Require:           false,
			Modal:             "This feature requires cookies. Do you consent to favorites being stored in a cookie on this device?",
			ConsentButtonText: "I Consent",
			DenyButtonText:    "No Thanks",
		},
	}
}

// Validate rejects documents the admin page must not persist.
func (d Document) Validate() error {
	if d.RedirectAnonymous && d.RedirectURL != "" {
		u, err := url.Parse(d.RedirectURL)
		if err != nil || (u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https") {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid redirect_url %q", d.RedirectURL))
		}
	}
	if d.Consent.Require {
		if d.Consent.ConsentButtonText == "" || d.Consent.DenyButtonText == "" {
			return dErrors.New(dErrors.CodeValidation, "consent button texts are required when consent is required")
		}
	}
	return nil
}

// Get returns the value for a settings key, nil when unknown. Both the
// admission key names and the dotted document paths are accepted.
func (d Document) Get(key string) any {
	switch key {
	case admission.KeyAnonymousDisplay:
		return d.Anonymous.Display
	case "anonymous.save":
		return d.Anonymous.Save
	case admission.KeyRequireLogin, "require_login":
		return d.RequireLogin
	case admission.KeyRedirectAnonymous, "redirect_anonymous":
		return d.RedirectAnonymous
	case "redirect_url":
		return d.RedirectURL
	case admission.KeyConsentRequire:
		return d.Consent.Require
	case admission.KeyConsentModal:
		return d.Consent.Modal
	case admission.KeyConsentAccept:
		return d.Consent.ConsentButtonText
	case admission.KeyConsentDeny:
		return d.Consent.DenyButtonText
	default:
		return nil
	}
}
